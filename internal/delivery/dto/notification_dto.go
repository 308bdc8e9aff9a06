package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNotificationRequest struct {
	PrescriptionID   uuid.UUID `json:"idReceta" validate:"required"`
	PatientProfileID uuid.UUID `json:"idPaciente" validate:"required"`
	Status           string    `json:"estado" validate:"required,oneof=enviada leida"`
}

type UpdateNotificationRequest struct {
	Status string `json:"estado" validate:"required,oneof=enviada leida"`
}

type NotificationResponse struct {
	ID                 uuid.UUID `json:"id"`
	PrescriptionID     uuid.UUID `json:"idReceta"`
	PatientProfileID   uuid.UUID `json:"idPaciente"`
	Status             string    `json:"estado"`
	PrescriptionStatus string    `json:"estadoReceta,omitempty"`
	CreatedAt          time.Time `json:"fecha"`
}
