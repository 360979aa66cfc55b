package initialize

import (
	"os"

	"fleetdeck/config"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeMasterAccount(db, log); err != nil {
		return log.Err("failed to initialize master account", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeMasterAccount guarantees at least one login that can administer
// the fleet. Credentials come from the environment so fresh deployments can
// bootstrap without a seed run.
func initializeMasterAccount(db *gorm.DB, log logger.Logger) error {
	email := os.Getenv("MASTER_EMAIL")
	password := os.Getenv("MASTER_PASSWORD")
	if email == "" || password == "" {
		log.Info("MASTER_EMAIL or MASTER_PASSWORD not set, skipping master account")
		return nil
	}

	var existing User
	if err := db.First(&existing, "email = ?", email).Error; err == nil {
		log.Debug("Master account already exists", "email", email)
		return nil
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return log.Err("failed to hash master password", err)
	}

	master := User{
		FirstName:    "Fleet",
		LastName:     "Master",
		Email:        email,
		PasswordHash: hash,
		Role:         RoleMaster,
		IsActive:     true,
	}

	if err := db.Create(&master).Error; err != nil {
		return log.Err("failed to create master account", err, "email", email)
	}

	log.Info("Master account initialized", "email", email)
	return nil
}
