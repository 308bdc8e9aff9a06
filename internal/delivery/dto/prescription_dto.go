package dto

import (
	"time"

	"github.com/google/uuid"
)

type PrescriptionDetailRequest struct {
	Dose         string    `json:"dosis" validate:"required,max=100"`
	Frequency    string    `json:"frecuencia" validate:"required,max=100"`
	Duration     string    `json:"duracion" validate:"required,max=100"`
	Quantity     int       `json:"cantidad" validate:"required,gt=0"`
	MedicationID uuid.UUID `json:"idMedicamento" validate:"required"`
}

// CreatePrescriptionRequest: idMedico is taken from the caller when a doctor prescribes.
type CreatePrescriptionRequest struct {
	DoctorProfileID  *uuid.UUID                  `json:"idMedico" validate:"omitempty"`
	PatientProfileID uuid.UUID                   `json:"idPaciente" validate:"required"`
	Comments         *string                     `json:"comentarios" validate:"omitempty"`
	Details          []PrescriptionDetailRequest `json:"detalles" validate:"required,min=1,dive"`
}

type UpdatePrescriptionRequest struct {
	Status   *string `json:"estado" validate:"omitempty,oneof=pendiente entregada"`
	Comments *string `json:"comentarios" validate:"omitempty"`
}

type PrescriptionDetailResponse struct {
	ID           uuid.UUID `json:"id"`
	Dose         string    `json:"dosis"`
	Frequency    string    `json:"frecuencia"`
	Duration     string    `json:"duracion"`
	Quantity     int       `json:"cantidad"`
	MedicationID uuid.UUID `json:"idMedicamento"`
	Medication   string    `json:"medicamento,omitempty"`
}

type PrescriptionResponse struct {
	ID               uuid.UUID                    `json:"id"`
	IssueDate        time.Time                    `json:"fecha"`
	Status           string                       `json:"estado"`
	Comments         *string                      `json:"comentarios,omitempty"`
	DoctorProfileID  uuid.UUID                    `json:"idMedico"`
	PatientProfileID uuid.UUID                    `json:"idPaciente"`
	DoctorName       string                       `json:"medico,omitempty"`
	PatientName      string                       `json:"paciente,omitempty"`
	Details          []PrescriptionDetailResponse `json:"detalles"`
}

type PrescriptionListQuery struct {
	Status string `schema:"estado" validate:"omitempty,oneof=pendiente entregada"`
	Page   int    `schema:"page" validate:"omitempty,gte=1"`
	Limit  int    `schema:"limit" validate:"omitempty,gte=1,lte=100"`
}

// DispenseResponse returns the delivered prescription and the notification written with it.
type DispenseResponse struct {
	Prescription *PrescriptionResponse `json:"receta"`
	Notification *NotificationResponse `json:"notificacion"`
}
