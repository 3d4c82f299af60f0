package clinics

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateClinic(ctx context.Context, clinic *Clinic) error
	GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	GetClinicByEmail(ctx context.Context, email string) (*Clinic, error)
	GetClinicByDomain(ctx context.Context, domain string) (*Clinic, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	DomainExists(ctx context.Context, domain string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClinic(ctx context.Context, clinic *Clinic) error {
	return r.db.WithContext(ctx).Create(clinic).Error
}

func (r *repository) GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	var clinic Clinic
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *repository) GetClinicByEmail(ctx context.Context, email string) (*Clinic, error) {
	var clinic Clinic
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *repository) GetClinicByDomain(ctx context.Context, domain string) (*Clinic, error) {
	var clinic Clinic
	err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Clinic{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *repository) DomainExists(ctx context.Context, domain string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Clinic{}).Where("domain = ?", domain).Count(&count).Error
	return count > 0, err
}
