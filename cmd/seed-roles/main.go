// Command seed-roles populates the role/permission catalog and,
// optionally, a super-admin account. Safe to re-run: every row is
// upserted by its natural key.
package main

import (
	"flag"
	"log"
	"time"

	authmodels "github.com/architect/blog-api/internal/auth/models"
	authrepo "github.com/architect/blog-api/internal/auth/repository"
	authservices "github.com/architect/blog-api/internal/auth/services"
	"github.com/architect/blog-api/internal/common/database"
	postmodels "github.com/architect/blog-api/internal/posts/models"
	"github.com/architect/blog-api/internal/rbac"
	rbacmodels "github.com/architect/blog-api/internal/rbac/models"
	"gorm.io/gorm"
)

func main() {
	var (
		dbType        = flag.String("db-type", "sqlite", "Database type: sqlite or postgres")
		dsn           = flag.String("dsn", "./data/blog_api.db", "Database DSN (file path for sqlite)")
		adminEmail    = flag.String("admin-email", "", "Create a super-admin with this email (optional)")
		adminPassword = flag.String("admin-password", "", "Password for the super-admin account")
	)
	flag.Parse()

	if err := database.InitWithType(*dbType, *dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(
		&authmodels.User{},
		&authmodels.AccessToken{},
		&rbacmodels.Role{},
		&rbacmodels.Permission{},
		&rbacmodels.UserRole{},
		&postmodels.Post{},
	); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	if err := rbac.Seed(database.DB); err != nil {
		log.Fatalf("Failed to seed role catalog: %v", err)
	}
	log.Printf("Seeded %d roles x 2 guards, %d permissions x 2 guards",
		len(rbac.RoleNames), len(rbac.PermissionNames))

	if *adminEmail != "" {
		if *adminPassword == "" {
			log.Fatal("-admin-password is required with -admin-email")
		}
		if err := createSuperAdmin(*adminEmail, *adminPassword); err != nil {
			log.Fatalf("Failed to create super-admin: %v", err)
		}
		log.Printf("Super-admin ready: %s", *adminEmail)
	}
}

func createSuperAdmin(email, password string) error {
	hash, err := authservices.NewPasswordManager().HashPassword(password)
	if err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := authrepo.GetUserByEmail(tx, email)
		if err == nil {
			return rbac.AssignRole(tx, existing.ID, rbac.RoleSuperAdmin)
		}

		now := time.Now()
		user := &authmodels.User{
			Name:            "Super Admin",
			Email:           email,
			PasswordHash:    hash,
			EmailVerifiedAt: &now,
		}
		if err := authrepo.CreateUser(tx, user); err != nil {
			return err
		}
		return rbac.AssignRole(tx, user.ID, rbac.RoleSuperAdmin)
	})
}
