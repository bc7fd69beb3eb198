package db

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/ikkim/member-directory/config"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/pkg/logger"
	"github.com/ikkim/member-directory/pkg/util"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Member{},
		&model.BusinessProfile{},
		&model.MemberFamily{},
		&model.Referral{},
		&model.Rating{},
		&model.Admin{},
		&model.ProfileView{},
	}
}

// Migrate runs database migrations and makes sure the bootstrap admin exists.
func Migrate(admin config.AdminConfig) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedAdmin(DB, admin); err != nil {
		logger.Error("Failed to seed admin during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedAdmin creates the configured admin with every permission. It is a
// no-op when no admin is configured or the account already exists.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Info("No bootstrap admin configured, skipping admin seed")
		return nil
	}

	var existing model.Admin
	err := db.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		logger.Info("Bootstrap admin already exists, skipping...", map[string]interface{}{
			"admin_id": existing.ID,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := model.Admin{
		Email:        cfg.Email,
		PasswordHash: hash,
		Name:         cfg.Name,
		Permissions:  pq.StringArray(model.AllPermissions),
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Bootstrap admin created", map[string]interface{}{
		"admin_id": admin.ID,
		"email":    admin.Email,
	})
	return nil
}
