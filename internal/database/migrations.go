package database

import (
	"fleetdeck/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.Yacht{},
		&models.User{},
		&models.Booking{},
		&models.Appointment{},
		&models.RepairRequest{},
		&models.Invoice{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.Document{},
		&models.Budget{},
		&models.ActivityLog{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_bookings_yacht_start ON bookings(yacht_id, start_at)",
		"CREATE INDEX IF NOT EXISTS idx_repair_requests_yacht_status ON repair_requests(yacht_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_invoices_status_created_at ON invoices(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_chat_messages_yacht_created_at ON chat_messages(yacht_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_recipient_read ON notifications(recipient_id, read_at)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
