package repository

import (
	"context"

	"pharmacy-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicationRepository interface {
	Create(ctx context.Context, db *gorm.DB, medication *entity.Medication) error
	FindAll(ctx context.Context, db *gorm.DB, filter entity.MedicationFilter) ([]entity.Medication, int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Medication, error)
	// FindByIDs returns the subset of ids that exist.
	FindByIDs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]entity.Medication, error)
	Update(ctx context.Context, db *gorm.DB, medication *entity.Medication) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
