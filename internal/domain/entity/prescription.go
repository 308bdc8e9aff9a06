package entity

import (
	"time"

	"github.com/google/uuid"
)

// PrescriptionStatus represents the status of a prescription
type PrescriptionStatus string

const (
	PrescriptionStatusPending   PrescriptionStatus = "pendiente"
	PrescriptionStatusDelivered PrescriptionStatus = "entregada"
)

// IsValid reports whether s is a known status value.
func (s PrescriptionStatus) IsValid() bool {
	return s == PrescriptionStatusPending || s == PrescriptionStatusDelivered
}

// Prescription is the header row; Details are created together with it.
type Prescription struct {
	ID               uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IssueDate        time.Time          `gorm:"not null;index"`
	Status           PrescriptionStatus `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Comments         *string            `gorm:"type:text"`
	DoctorProfileID  uuid.UUID          `gorm:"type:uuid;not null;index"`
	PatientProfileID uuid.UUID          `gorm:"type:uuid;not null;index"`
	CreatedAt        time.Time          `gorm:"autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime"`

	// Relationships
	Doctor  DoctorProfile        `gorm:"foreignKey:DoctorProfileID"`
	Patient PatientProfile       `gorm:"foreignKey:PatientProfileID"`
	Details []PrescriptionDetail `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// IsPending checks if the prescription is still waiting to be dispensed
func (p *Prescription) IsPending() bool {
	return p.Status == PrescriptionStatusPending
}

// IsDelivered checks if the prescription has been dispensed
func (p *Prescription) IsDelivered() bool {
	return p.Status == PrescriptionStatusDelivered
}

// Deliver moves the prescription to its terminal state
func (p *Prescription) Deliver() {
	p.Status = PrescriptionStatusDelivered
}

type PrescriptionDetail struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position       int       `gorm:"not null"`
	Dose           string    `gorm:"type:varchar(100);not null"`
	Frequency      string    `gorm:"type:varchar(100);not null"`
	Duration       string    `gorm:"type:varchar(100);not null"`
	Quantity       int       `gorm:"not null"`
	MedicationID   uuid.UUID `gorm:"type:uuid;not null;index"`

	Medication Medication `gorm:"foreignKey:MedicationID"`
}

func (PrescriptionDetail) TableName() string {
	return "prescription_details"
}

// PrescriptionFilter narrows prescription listings.
type PrescriptionFilter struct {
	Status           PrescriptionStatus
	PatientProfileID *uuid.UUID
	DoctorProfileID  *uuid.UUID
	Limit            int
	Offset           int
}
