package services

import (
	"context"
	"errors"
	"os"
	"strings"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedAdminFromEnv creates an administrator from ADMIN_EMAIL, ADMIN_PASSWORD
// and ADMIN_NAME. It does nothing when the variables are unset, when an
// administrator already exists or when the email is taken.
func SeedAdminFromEnv(ctx context.Context, repos *repositories.Repositories) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" || password == "" {
		return nil
	}
	if name == "" {
		name = "Administrador"
	}

	admins, err := repos.Users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins > 0 {
		zap.S().Info("[SEED] Admin user already exists, skipping seed")
		return nil
	}

	if _, err := repos.Users.FindByEmail(ctx, email); err == nil {
		zap.S().Infow("[SEED] Email already registered, skipping admin seed", "email", email)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := ValidatePassword(password); err != nil {
		return Validation("ADMIN_PASSWORD: " + err.Error())
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{Name: name, Email: email, Password: hash, Role: models.RoleAdmin, IsActive: true}
	if err := repos.Users.Create(ctx, user); err != nil {
		return err
	}

	zap.S().Infow("[SEED] Created admin user", "email", email)
	return nil
}
