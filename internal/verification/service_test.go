package verification

import (
	"context"
	"fmt"
	"testing"

	authmodels "github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/auth/repository"
	"github.com/architect/blog-api/internal/common/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureTransport records sent messages for assertions.
type captureTransport struct {
	sent []sentMail
}

type sentMail struct {
	template  string
	recipient string
	data      map[string]interface{}
}

func (t *captureTransport) Send(_ context.Context, template, recipient string, data map[string]interface{}) error {
	t.sent = append(t.sent, sentMail{template, recipient, data})
	return nil
}

func setupTest(t *testing.T) (*Service, *captureTransport, *authmodels.User) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	require.NoError(t, database.InitWithType("sqlite", dsn))
	require.NoError(t, database.Migrate(&authmodels.User{}))

	user := &authmodels.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, repository.CreateUser(database.DB, user))

	mailer := &captureTransport{}
	svc := NewService("test-signing-key", mailer, "http://localhost:8080/")
	return svc, mailer, user
}

func TestSendVerification(t *testing.T) {
	svc, mailer, user := setupTest(t)

	require.NoError(t, svc.SendVerification(context.Background(), user))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, "verify-email", msg.template)
	assert.Equal(t, "ada@example.com", msg.recipient)

	link, ok := msg.data["link"].(string)
	require.True(t, ok)
	assert.Contains(t, link, fmt.Sprintf("http://localhost:8080/api/email/verify/%d/", user.ID))
}

func TestVerifyFlipsStateOnce(t *testing.T) {
	svc, _, user := setupTest(t)

	proof, err := svc.ProofFor(user)
	require.NoError(t, err)

	outcome, err := svc.Verify(database.DB, user.ID, proof)
	require.NoError(t, err)
	assert.Equal(t, Verified, outcome)

	stored, err := repository.GetUserByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified())
	firstStamp := stored.EmailVerifiedAt

	// A second valid call is idempotent and keeps the original timestamp.
	outcome, err = svc.Verify(database.DB, user.ID, proof)
	require.NoError(t, err)
	assert.Equal(t, AlreadyVerified, outcome)

	stored, err = repository.GetUserByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.Equal(t, firstStamp.Unix(), stored.EmailVerifiedAt.Unix())
}

func TestVerifyRejectsBadProof(t *testing.T) {
	svc, _, user := setupTest(t)

	outcome, err := svc.Verify(database.DB, user.ID, "garbage")
	require.NoError(t, err)
	assert.Equal(t, InvalidProof, outcome)

	// A proof signed with a different key is forged.
	forged, err := NewService("attacker-key", &captureTransport{}, "http://localhost").ProofFor(user)
	require.NoError(t, err)
	outcome, err = svc.Verify(database.DB, user.ID, forged)
	require.NoError(t, err)
	assert.Equal(t, InvalidProof, outcome)

	stored, err := repository.GetUserByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Verified())
}

func TestVerifyProofBoundToUser(t *testing.T) {
	svc, _, user := setupTest(t)

	other := &authmodels.User{Name: "Eve", Email: "eve@example.com", PasswordHash: "x"}
	require.NoError(t, repository.CreateUser(database.DB, other))

	// Eve's proof does not verify Ada.
	proof, err := svc.ProofFor(other)
	require.NoError(t, err)

	outcome, err := svc.Verify(database.DB, user.ID, proof)
	require.NoError(t, err)
	assert.Equal(t, InvalidProof, outcome)
}

func TestVerifyProofBoundToEmail(t *testing.T) {
	svc, _, user := setupTest(t)

	proof, err := svc.ProofFor(user)
	require.NoError(t, err)

	// Changing the address invalidates every previously issued proof.
	require.NoError(t, database.DB.Model(user).Update("email", "new@example.com").Error)

	outcome, err := svc.Verify(database.DB, user.ID, proof)
	require.NoError(t, err)
	assert.Equal(t, InvalidProof, outcome)
}
