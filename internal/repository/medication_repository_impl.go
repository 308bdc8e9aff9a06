package repository

import (
	"context"
	"errors"

	"pharmacy-clinic/internal/domain/entity"
	domainRepo "pharmacy-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicationRepository struct{}

func NewMedicationRepository() domainRepo.MedicationRepository {
	return &medicationRepository{}
}

func (r *medicationRepository) Create(ctx context.Context, db *gorm.DB, medication *entity.Medication) error {
	return db.WithContext(ctx).Create(medication).Error
}

func (r *medicationRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.MedicationFilter) ([]entity.Medication, int64, error) {
	var medications []entity.Medication
	var total int64

	query := db.WithContext(ctx).Model(&entity.Medication{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := query.Order("name").Find(&medications).Error; err != nil {
		return nil, 0, err
	}

	return medications, total, nil
}

func (r *medicationRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Medication, error) {
	var medication entity.Medication
	err := db.WithContext(ctx).Where("id = ?", id).First(&medication).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &medication, nil
}

func (r *medicationRepository) FindByIDs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]entity.Medication, error) {
	var medications []entity.Medication
	if len(ids) == 0 {
		return medications, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&medications).Error
	if err != nil {
		return nil, err
	}
	return medications, nil
}

func (r *medicationRepository) Update(ctx context.Context, db *gorm.DB, medication *entity.Medication) error {
	return db.WithContext(ctx).Save(medication).Error
}

func (r *medicationRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Medication{})
	return result.RowsAffected, result.Error
}
