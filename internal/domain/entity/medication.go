package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Medication struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Stock     int             `gorm:"not null;default:0"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (Medication) TableName() string {
	return "medications"
}

// MedicationFilter narrows catalog listings.
type MedicationFilter struct {
	Search string
	Limit  int
	Offset int
}
