package tickets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the durable ticket store. All reads and writes are scoped to
// a single clinic; implementations map their own not-found sentinel to
// ErrTicketNotFound and wrap everything else as StoreUnavailable.
type Repository interface {
	Create(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Ticket, error)

	// List returns all tickets of a clinic sorted by sequence number.
	List(ctx context.Context, clinicID uuid.UUID) ([]Ticket, error)
	ListByStatus(ctx context.Context, clinicID uuid.UUID, status Status) ([]Ticket, error)

	// FindCurrent returns the in-progress ticket, or nil if none.
	FindCurrent(ctx context.Context, clinicID uuid.UUID) (*Ticket, error)

	// MaxSequenceNumber returns 0 when the clinic has no tickets yet.
	MaxSequenceNumber(ctx context.Context, clinicID uuid.UUID) (int, error)

	// RecentCompletions returns completed tickets with a completion time,
	// most recent first, limited to the given window.
	RecentCompletions(ctx context.Context, clinicID uuid.UUID, limit int) ([]Ticket, error)

	UpdateFields(ctx context.Context, clinicID, id uuid.UUID, fields map[string]interface{}) (*Ticket, error)
	Delete(ctx context.Context, clinicID, id uuid.UUID) error

	// Transaction runs fn against a transactional view of the store.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ticket *Ticket) error {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return WrapStoreError(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, WrapStoreError(err)
	}
	return &ticket, nil
}

func (r *repository) List(ctx context.Context, clinicID uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Order("sequence_number ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, WrapStoreError(err)
	}
	return tickets, nil
}

func (r *repository) ListByStatus(ctx context.Context, clinicID uuid.UUID, status Status) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND status = ?", clinicID, status).
		Order("sequence_number ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, WrapStoreError(err)
	}
	return tickets, nil
}

func (r *repository) FindCurrent(ctx context.Context, clinicID uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND status = ?", clinicID, StatusInProgress).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, WrapStoreError(err)
	}
	return &ticket, nil
}

func (r *repository) MaxSequenceNumber(ctx context.Context, clinicID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("clinic_id = ?", clinicID).
		Select("MAX(sequence_number)").
		Scan(&max).Error
	if err != nil {
		return 0, WrapStoreError(err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *repository) RecentCompletions(ctx context.Context, clinicID uuid.UUID, limit int) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND status = ? AND completed_at IS NOT NULL", clinicID, StatusCompleted).
		Order("completed_at DESC").
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, WrapStoreError(err)
	}
	return tickets, nil
}

func (r *repository) UpdateFields(ctx context.Context, clinicID, id uuid.UUID, fields map[string]interface{}) (*Ticket, error) {
	fields["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Updates(fields)
	if result.Error != nil {
		return nil, WrapStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTicketNotFound
	}

	return r.GetByID(ctx, clinicID, id)
}

func (r *repository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Delete(&Ticket{})
	if result.Error != nil {
		return WrapStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (r *repository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}
