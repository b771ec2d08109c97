package database

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AllModels is the migration order; referenced tables come first.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Table{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.MenuItemVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.RevokedToken{},
		&models.AuditLog{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Info("AutoMigrate completed.")
	return nil
}

// SeedAdmin membuat akun admin pertama jika belum ada admin aktif.
// Tanpa ini tidak ada yang bisa login ke back-office, karena registrasi hanya lewat admin.
func SeedAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Scopes(models.NotDeleted).Where("is_admin = ?", true).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username:     username,
		Role:         models.RoleManager,
		PasswordHash: string(hashed),
		IsAdmin:      true,
		Lifecycle:    models.LifecycleActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	utils.InfoLogger.WithField("username", username).Info("bootstrap admin created")
	return nil
}
