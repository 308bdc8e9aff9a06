package repository

import (
	"context"

	"pharmacy-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PharmacistProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.PharmacistProfile) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.PharmacistProfile, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PharmacistProfile, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.PharmacistProfile, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
