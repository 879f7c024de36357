// Package verification implements the email ownership proof: a one-way
// Unverified -> Verified transition unlocked by a signed link.
package verification

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/auth/repository"
	"github.com/architect/blog-api/internal/common/errors"
	"github.com/architect/blog-api/internal/common/mail"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Outcome of a verification attempt.
type Outcome int

const (
	Verified Outcome = iota
	AlreadyVerified
	InvalidProof
)

type proofClaims struct {
	// EmailHash binds the proof to the canonical email, so a proof stops
	// validating if the address ever changes.
	EmailHash string `json:"eh"`
	jwt.RegisteredClaims
}

// Service issues and checks verification proofs. Proofs are HS256-signed
// with the server key and carry no expiry, so links stay valid until the
// email address changes.
type Service struct {
	key     []byte
	mailer  mail.Transport
	baseURL string
}

func NewService(key string, mailer mail.Transport, baseURL string) *Service {
	return &Service{
		key:     []byte(key),
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ProofFor derives the verification proof for a user. The server can
// always recompute it; nothing is stored.
func (s *Service) ProofFor(user *models.User) (string, error) {
	claims := proofClaims{
		EmailHash: emailHash(user.Email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatUint(uint64(user.ID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", errors.Internal("failed to sign verification proof", err.Error())
	}
	return signed, nil
}

// Link builds the full verification URL embedded in the email.
func (s *Service) Link(user *models.User) (string, error) {
	proof, err := s.ProofFor(user)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/email/verify/%d/%s", s.baseURL, user.ID, proof), nil
}

// SendVerification mails the proof link to an unverified user.
func (s *Service) SendVerification(ctx context.Context, user *models.User) error {
	link, err := s.Link(user)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, mail.TemplateVerifyEmail, user.Email, map[string]interface{}{
		"name": user.Name,
		"link": link,
	}); err != nil {
		return errors.Upstream("failed to send verification email", err.Error())
	}
	return nil
}

// Verify checks the proof for a user and flips the verified state.
// Idempotent: a second valid call reports AlreadyVerified, never an error.
func (s *Service) Verify(db *gorm.DB, userID uint, proof string) (Outcome, error) {
	user, err := repository.GetUserByID(db, userID)
	if err != nil {
		return InvalidProof, err
	}

	if !s.proofValid(user, proof) {
		return InvalidProof, nil
	}

	if user.Verified() {
		return AlreadyVerified, nil
	}

	if err := repository.MarkEmailVerified(db, user.ID); err != nil {
		return InvalidProof, err
	}
	return Verified, nil
}

func (s *Service) proofValid(user *models.User, proof string) bool {
	var claims proofClaims
	token, err := jwt.ParseWithClaims(proof, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return false
	}

	if claims.Subject != strconv.FormatUint(uint64(user.ID), 10) {
		return false
	}

	expected := emailHash(user.Email)
	return subtle.ConstantTimeCompare([]byte(claims.EmailHash), []byte(expected)) == 1
}

func emailHash(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}
