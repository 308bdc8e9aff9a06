package repository

import (
	"context"

	"pharmacy-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, db *gorm.DB, notification *entity.Notification) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Notification, error)
	FindByPatientProfileID(ctx context.Context, db *gorm.DB, patientProfileID uuid.UUID) ([]entity.Notification, error)
	CountByPrescription(ctx context.Context, db *gorm.DB, prescriptionID uuid.UUID, status entity.NotificationStatus) (int64, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status entity.NotificationStatus) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
