package usecase

import (
	"context"
	"errors"
	"time"

	"pharmacy-clinic/internal/converter"
	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/domain/entity"
	"pharmacy-clinic/internal/domain/repository"
	"pharmacy-clinic/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound         = errors.New("prescription not found")
	ErrPrescriptionAlreadyDelivered = errors.New("prescription has already been dispensed")
	ErrInvalidStatusTransition      = errors.New("a dispensed prescription cannot go back to pending")
	ErrDoctorRequired               = errors.New("idMedico is required when an admin prescribes")
	ErrMedicationNotFound           = errors.New("medication not found")
)

type PrescriptionUsecase interface {
	Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetAll(ctx context.Context, status string, page, limit int) ([]dto.PrescriptionResponse, int64, error)
	GetPending(ctx context.Context, page, limit int) ([]dto.PrescriptionResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error)
	GetByPatient(ctx context.Context, patientProfileID uuid.UUID) ([]dto.PrescriptionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	Dispense(ctx context.Context, id uuid.UUID) (*dto.DispenseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type prescriptionUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	prescriptionRepo   repository.PrescriptionRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	medicationRepo     repository.MedicationRepository
	notificationRepo   repository.NotificationRepository
	auditService       service.AuditService
	events             service.EventPublisher
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	medicationRepo repository.MedicationRepository,
	notificationRepo repository.NotificationRepository,
	auditService service.AuditService,
	events service.EventPublisher,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:                 db,
		log:                log,
		prescriptionRepo:   prescriptionRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		medicationRepo:     medicationRepo,
		notificationRepo:   notificationRepo,
		auditService:       auditService,
		events:             events,
	}
}

// Create writes the header and every detail line in one transaction. Initial status is pendiente.
func (u *prescriptionUsecase) Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.resolvePrescriber(ctx, tx, c, req.DoctorProfileID)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientProfileRepo.FindByID(ctx, tx, req.PatientProfileID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	medications, err := u.loadMedications(ctx, tx, req.Details)
	if err != nil {
		return nil, err
	}

	prescription := &entity.Prescription{
		ID:               uuid.New(),
		IssueDate:        time.Now().UTC(),
		Status:           entity.PrescriptionStatusPending,
		Comments:         req.Comments,
		DoctorProfileID:  doctor.ID,
		PatientProfileID: patient.ID,
	}
	for i, line := range req.Details {
		prescription.Details = append(prescription.Details, entity.PrescriptionDetail{
			ID:             uuid.New(),
			PrescriptionID: prescription.ID,
			Position:       i + 1,
			Dose:           line.Dose,
			Frequency:      line.Frequency,
			Duration:       line.Duration,
			Quantity:       line.Quantity,
			MedicationID:   line.MedicationID,
		})
	}

	if err := u.prescriptionRepo.Create(ctx, tx, prescription); err != nil {
		if isForeignKeyError(err, "medication_id") {
			return nil, ErrMedicationNotFound
		}
		if isForeignKeyError(err, "doctor_profile_id") {
			return nil, ErrDoctorNotFound
		}
		if isForeignKeyError(err, "patient_profile_id") {
			return nil, ErrPatientNotFound
		}
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	prescription.Doctor = *doctor
	prescription.Patient = *patient
	for i := range prescription.Details {
		prescription.Details[i].Medication = medications[prescription.Details[i].MedicationID]
	}

	resp := converter.PrescriptionToResponse(prescription)
	if err := u.auditService.LogCreate(ctx, tx, &c.UserID, entity.AuditActionPrescriptionCreate, "prescription", prescription.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.events.PrescriptionCreated(ctx, prescription)

	return resp, nil
}

// resolvePrescriber: doctors always prescribe as themselves, admins must name the doctor.
func (u *prescriptionUsecase) resolvePrescriber(ctx context.Context, tx *gorm.DB, c caller, requested *uuid.UUID) (*entity.DoctorProfile, error) {
	switch c.Role {
	case entity.RoleDoctor:
		doctor, err := u.doctorProfileRepo.FindByUserID(ctx, tx, c.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor profile: %+v", err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}
		if requested != nil && *requested != doctor.ID {
			return nil, ErrForbidden
		}
		return doctor, nil
	case entity.RoleAdmin:
		if requested == nil {
			return nil, ErrDoctorRequired
		}
		doctor, err := u.doctorProfileRepo.FindByID(ctx, tx, *requested)
		if err != nil {
			u.log.Warnf("Failed to find doctor profile: %+v", err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}
		return doctor, nil
	default:
		return nil, ErrForbidden
	}
}

func (u *prescriptionUsecase) loadMedications(ctx context.Context, tx *gorm.DB, lines []dto.PrescriptionDetailRequest) (map[uuid.UUID]entity.Medication, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.MedicationID] {
			seen[line.MedicationID] = true
			ids = append(ids, line.MedicationID)
		}
	}

	found, err := u.medicationRepo.FindByIDs(ctx, tx, ids)
	if err != nil {
		u.log.Warnf("Failed to find medications: %+v", err)
		return nil, err
	}

	byID := make(map[uuid.UUID]entity.Medication, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}
	if len(byID) != len(ids) {
		return nil, ErrMedicationNotFound
	}
	return byID, nil
}

func (u *prescriptionUsecase) GetAll(ctx context.Context, status string, page, limit int) ([]dto.PrescriptionResponse, int64, error) {
	_, limit, offset := normalizePage(page, limit)

	prescriptions, total, err := u.prescriptionRepo.FindAll(ctx, u.db, entity.PrescriptionFilter{
		Status: entity.PrescriptionStatus(status),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		u.log.Warnf("Failed to find prescriptions: %+v", err)
		return nil, 0, err
	}

	return converter.PrescriptionsToResponses(prescriptions), total, nil
}

func (u *prescriptionUsecase) GetPending(ctx context.Context, page, limit int) ([]dto.PrescriptionResponse, int64, error) {
	return u.GetAll(ctx, string(entity.PrescriptionStatusPending), page, limit)
}

func (u *prescriptionUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	if err := u.authorizePatientAccess(ctx, prescription.PatientProfileID); err != nil {
		return nil, err
	}

	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) GetByPatient(ctx context.Context, patientProfileID uuid.UUID) ([]dto.PrescriptionResponse, error) {
	if err := u.authorizePatientAccess(ctx, patientProfileID); err != nil {
		return nil, err
	}

	patient, err := u.patientProfileRepo.FindByID(ctx, u.db, patientProfileID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	prescriptions, _, err := u.prescriptionRepo.FindAll(ctx, u.db, entity.PrescriptionFilter{PatientProfileID: &patientProfileID})
	if err != nil {
		u.log.Warnf("Failed to find prescriptions: %+v", err)
		return nil, err
	}

	return converter.PrescriptionsToResponses(prescriptions), nil
}

// Update changes comments and, when estado is entregada, dispenses within the same transaction.
func (u *prescriptionUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	// only dispensers may deliver through the generic update
	if req.Status != nil && entity.PrescriptionStatus(*req.Status) == entity.PrescriptionStatusDelivered {
		c, err := callerFromContext(ctx)
		if err != nil {
			return nil, err
		}
		if c.Role != entity.RoleAdmin && c.Role != entity.RolePharmacist {
			return nil, ErrForbidden
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	oldValue := converter.PrescriptionToResponse(prescription)

	if req.Comments != nil {
		if err := u.prescriptionRepo.UpdateComments(ctx, tx, id, req.Comments); err != nil {
			u.log.Warnf("Failed to update prescription comments: %+v", err)
			return nil, err
		}
		prescription.Comments = req.Comments
	}

	dispensed := false
	if req.Status != nil {
		switch entity.PrescriptionStatus(*req.Status) {
		case entity.PrescriptionStatusDelivered:
			if _, err := u.dispense(ctx, tx, prescription); err != nil {
				return nil, err
			}
			dispensed = true
		case entity.PrescriptionStatusPending:
			if prescription.IsDelivered() {
				return nil, ErrInvalidStatusTransition
			}
		}
	}

	newValue := converter.PrescriptionToResponse(prescription)
	if !dispensed {
		if err := u.auditService.LogUpdate(ctx, tx, auditUserID(ctx), entity.AuditActionPrescriptionUpdate, "prescription", id.String(), oldValue, newValue); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if dispensed {
		u.events.PrescriptionDispensed(ctx, prescription)
	}

	return newValue, nil
}

// Dispense moves a pending prescription to entregada and notifies the patient. The status change,
// the notification and the audit row commit together.
func (u *prescriptionUsecase) Dispense(ctx context.Context, id uuid.UUID) (*dto.DispenseResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	notification, err := u.dispense(ctx, tx, prescription)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.events.PrescriptionDispensed(ctx, prescription)

	return &dto.DispenseResponse{
		Prescription: converter.PrescriptionToResponse(prescription),
		Notification: converter.NotificationToResponse(notification),
	}, nil
}

func (u *prescriptionUsecase) dispense(ctx context.Context, tx *gorm.DB, prescription *entity.Prescription) (*entity.Notification, error) {
	if prescription.IsDelivered() {
		return nil, ErrPrescriptionAlreadyDelivered
	}

	affected, err := u.prescriptionRepo.MarkDelivered(ctx, tx, prescription.ID)
	if err != nil {
		u.log.Warnf("Failed to mark prescription delivered: %+v", err)
		return nil, err
	}
	if affected == 0 {
		// another request dispensed it between our read and the update
		return nil, ErrPrescriptionAlreadyDelivered
	}
	prescription.Deliver()

	notification := &entity.Notification{
		ID:               uuid.New(),
		PrescriptionID:   prescription.ID,
		PatientProfileID: prescription.PatientProfileID,
		Status:           entity.NotificationStatusSent,
	}
	if err := u.notificationRepo.Create(ctx, tx, notification); err != nil {
		u.log.Warnf("Failed to create notification: %+v", err)
		return nil, err
	}
	notification.Prescription = prescription

	metadata := entity.JSON{
		"prescription_id": prescription.ID.String(),
		"notification_id": notification.ID.String(),
		"old_status":      string(entity.PrescriptionStatusPending),
		"new_status":      string(entity.PrescriptionStatusDelivered),
	}
	if err := u.auditService.LogEvent(ctx, tx, auditUserID(ctx), entity.AuditActionPrescriptionDispense, metadata); err != nil {
		return nil, err
	}

	return notification, nil
}

func (u *prescriptionUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return err
	}
	if prescription == nil {
		return ErrPrescriptionNotFound
	}

	if _, err := u.prescriptionRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete prescription: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, auditUserID(ctx), entity.AuditActionPrescriptionDelete, "prescription", id.String(), converter.PrescriptionToResponse(prescription)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// authorizePatientAccess limits patients to their own prescriptions; other roles see everything.
func (u *prescriptionUsecase) authorizePatientAccess(ctx context.Context, patientProfileID uuid.UUID) error {
	return authorizePatientAccess(ctx, u.db, u.patientProfileRepo, patientProfileID)
}

func authorizePatientAccess(ctx context.Context, db *gorm.DB, patientProfileRepo repository.PatientProfileRepository, patientProfileID uuid.UUID) error {
	c, err := callerFromContext(ctx)
	if err != nil {
		return err
	}
	if c.Role != entity.RolePatient {
		return nil
	}

	own, err := patientProfileRepo.FindByUserID(ctx, db, c.UserID)
	if err != nil {
		return err
	}
	if own == nil || own.ID != patientProfileID {
		return ErrForbidden
	}
	return nil
}
