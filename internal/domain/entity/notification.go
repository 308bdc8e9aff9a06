package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusSent NotificationStatus = "enviada"
	NotificationStatusRead NotificationStatus = "leida"
)

func (s NotificationStatus) IsValid() bool {
	return s == NotificationStatusSent || s == NotificationStatusRead
}

// Notification tells a patient that something happened to one of their prescriptions
type Notification struct {
	ID               uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrescriptionID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	PatientProfileID uuid.UUID          `gorm:"type:uuid;not null;index"`
	Status           NotificationStatus `gorm:"type:varchar(20);not null"`
	CreatedAt        time.Time          `gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime"`

	Prescription *Prescription `gorm:"foreignKey:PrescriptionID"`
}

func (Notification) TableName() string {
	return "notifications"
}
