package repository

import (
	"context"

	"pharmacy-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	// Create inserts the header and its details in one statement batch; callers pass a tx.
	Create(ctx context.Context, db *gorm.DB, prescription *entity.Prescription) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Prescription, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.PrescriptionFilter) ([]entity.Prescription, int64, error)
	UpdateComments(ctx context.Context, db *gorm.DB, id uuid.UUID, comments *string) error
	// MarkDelivered flips pendiente to entregada. It returns 0 affected rows when the
	// prescription is missing or already delivered.
	MarkDelivered(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
