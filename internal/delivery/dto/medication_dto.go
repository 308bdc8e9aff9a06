package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateMedicationRequest struct {
	Name  string           `json:"nombre" validate:"required,max=255"`
	Stock *int             `json:"stock" validate:"required,gte=0"`
	Price *decimal.Decimal `json:"precio" validate:"omitempty"`
}

type UpdateMedicationRequest struct {
	Name  *string          `json:"nombre" validate:"omitempty,min=1,max=255"`
	Stock *int             `json:"stock" validate:"omitempty,gte=0"`
	Price *decimal.Decimal `json:"precio" validate:"omitempty"`
}

type MedicationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"nombre"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"precio"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type MedicationListQuery struct {
	Page   int    `schema:"page" validate:"omitempty,gte=1"`
	Limit  int    `schema:"limit" validate:"omitempty,gte=1,lte=100"`
	Search string `schema:"search" validate:"omitempty,max=100"`
}
