package service

import (
	"context"
	"time"

	"pharmacy-clinic/internal/domain/entity"
	"pharmacy-clinic/internal/infrastructure/messaging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventPrescriptionCreated   = "prescription.created"
	EventPrescriptionDispensed = "prescription.dispensed"
)

type PrescriptionEvent struct {
	Type             string                    `json:"type"`
	PrescriptionID   uuid.UUID                 `json:"idReceta"`
	DoctorProfileID  uuid.UUID                 `json:"idMedico"`
	PatientProfileID uuid.UUID                 `json:"idPaciente"`
	Status           entity.PrescriptionStatus `json:"estado"`
	Lines            int                       `json:"lineas"`
	OccurredAt       time.Time                 `json:"occurredAt"`
}

// EventPublisher emits prescription events after the owning transaction has committed.
// Failures are logged and never surface to the caller.
type EventPublisher interface {
	PrescriptionCreated(ctx context.Context, prescription *entity.Prescription)
	PrescriptionDispensed(ctx context.Context, prescription *entity.Prescription)
}

type eventPublisher struct {
	log       *logrus.Logger
	publisher messaging.Publisher
}

func NewEventPublisher(log *logrus.Logger, publisher messaging.Publisher) EventPublisher {
	return &eventPublisher{log: log, publisher: publisher}
}

func (p *eventPublisher) PrescriptionCreated(ctx context.Context, prescription *entity.Prescription) {
	p.publish(ctx, EventPrescriptionCreated, prescription)
}

func (p *eventPublisher) PrescriptionDispensed(ctx context.Context, prescription *entity.Prescription) {
	p.publish(ctx, EventPrescriptionDispensed, prescription)
}

func (p *eventPublisher) publish(ctx context.Context, eventType string, prescription *entity.Prescription) {
	event := PrescriptionEvent{
		Type:             eventType,
		PrescriptionID:   prescription.ID,
		DoctorProfileID:  prescription.DoctorProfileID,
		PatientProfileID: prescription.PatientProfileID,
		Status:           prescription.Status,
		Lines:            len(prescription.Details),
		OccurredAt:       time.Now().UTC(),
	}

	if err := p.publisher.Publish(ctx, prescription.ID.String(), event); err != nil {
		p.log.Warnf("Failed to publish %s event: %+v", eventType, err)
	}
}
