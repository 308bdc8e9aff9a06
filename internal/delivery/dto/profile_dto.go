package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDoctorRequest struct {
	Specialty string `json:"especialidad" validate:"required,max=100"`
}

type UpdateDoctorRequest struct {
	Specialty string `json:"especialidad" validate:"required,max=100"`
}

type DoctorResponse struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"idUsuario"`
	Specialty string       `json:"especialidad"`
	User      UserResponse `json:"usuario"`
	CreatedAt time.Time    `json:"created_at"`
}

// CreatePatientRequest accepts fechaNacimiento as YYYY-MM-DD or RFC3339.
type CreatePatientRequest struct {
	BirthDate *string `json:"fechaNacimiento" validate:"omitempty"`
}

type UpdatePatientRequest struct {
	BirthDate *string `json:"fechaNacimiento" validate:"omitempty"`
}

type PatientResponse struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"idUsuario"`
	BirthDate *string      `json:"fechaNacimiento,omitempty"`
	User      UserResponse `json:"usuario"`
	CreatedAt time.Time    `json:"created_at"`
}

type PharmacistResponse struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"idUsuario"`
	User      UserResponse `json:"usuario"`
	CreatedAt time.Time    `json:"created_at"`
}
