package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// Sequence numbers are unique per clinic and never reused
	err := db.Exec(`
		ALTER TABLE tickets
		ADD CONSTRAINT IF NOT EXISTS unique_sequence_per_clinic
		UNIQUE (clinic_id, sequence_number);
	`).Error
	if err != nil {
		return err
	}

	// Status lookups (current ticket, waiting set) are always clinic-scoped
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_clinic_status
		ON tickets (clinic_id, status);
	`).Error
	if err != nil {
		return err
	}

	// Wait-time estimation reads recent completions in descending order
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_clinic_completed_at
		ON tickets (clinic_id, completed_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
