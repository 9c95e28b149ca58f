package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/turnos/internal/config"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/timezone"
)

// blockingSlotIndex keeps two live appointments of one staff member from
// sharing a start time. Overlaps with different starts are caught by the
// locking insert.
const blockingSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_staff_start_blocking
	ON appointments (staff_id, start_time)
	WHERE status IN ('pending', 'confirmed')
`

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.Env == "development" {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.DefaultTimezone); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table and the booking index.
func Migrate(db *gorm.DB, defaultTZ string) error {
	if err := db.AutoMigrate(
		&models.Business{},
		&models.User{},
		&models.Service{},
		&models.Staff{},
		&models.WorkingHours{},
		&models.Client{},
		&models.Appointment{},
		&models.Expense{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(blockingSlotIndex).Error; err != nil {
		return fmt.Errorf("create booking index: %w", err)
	}

	if !timezone.IsValid(defaultTZ) {
		defaultTZ = timezone.DefaultTimezone
	}
	return db.Exec(`
		UPDATE businesses
		SET timezone = ?
		WHERE timezone IS NULL OR timezone = ''
	`, defaultTZ).Error
}
