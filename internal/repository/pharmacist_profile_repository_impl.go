package repository

import (
	"context"
	"errors"

	"pharmacy-clinic/internal/domain/entity"
	domainRepo "pharmacy-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pharmacistProfileRepository struct{}

func NewPharmacistProfileRepository() domainRepo.PharmacistProfileRepository {
	return &pharmacistProfileRepository{}
}

func (r *pharmacistProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.PharmacistProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *pharmacistProfileRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.PharmacistProfile, error) {
	var profile entity.PharmacistProfile
	err := db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *pharmacistProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PharmacistProfile, error) {
	var profile entity.PharmacistProfile
	err := db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *pharmacistProfileRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.PharmacistProfile, error) {
	var profiles []entity.PharmacistProfile
	err := db.WithContext(ctx).Preload("User").Order("created_at").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *pharmacistProfileRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PharmacistProfile{})
	return result.RowsAffected, result.Error
}
