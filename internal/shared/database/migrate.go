package database

import (
	"queuely/internal/clinics"
	"queuely/internal/tickets"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&clinics.Clinic{},
		&tickets.Ticket{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
