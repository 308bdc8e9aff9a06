package usecase

import (
	"context"
	"errors"

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
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPatientMismatch      = errors.New("patient does not match the prescription")
	ErrNotificationExists   = errors.New("prescription already has a notification with this status")
)

type NotificationUsecase interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	GetByPatient(ctx context.Context, patientProfileID uuid.UUID) ([]dto.NotificationResponse, error)
	GetMine(ctx context.Context) ([]dto.NotificationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.NotificationResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateNotificationRequest) (*dto.NotificationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type notificationUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	notificationRepo   repository.NotificationRepository
	prescriptionRepo   repository.PrescriptionRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	prescriptionRepo repository.PrescriptionRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) NotificationUsecase {
	return &notificationUsecase{
		db:                 db,
		log:                log,
		notificationRepo:   notificationRepo,
		prescriptionRepo:   prescriptionRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
	}
}

func (u *notificationUsecase) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByID(ctx, tx, req.PrescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	if prescription.PatientProfileID != req.PatientProfileID {
		return nil, ErrPatientMismatch
	}

	// one notification per prescription and status, so a retried request cannot notify twice
	status := entity.NotificationStatus(req.Status)
	existing, err := u.notificationRepo.CountByPrescription(ctx, tx, prescription.ID, status)
	if err != nil {
		u.log.Warnf("Failed to count notifications: %+v", err)
		return nil, err
	}
	if existing > 0 {
		return nil, ErrNotificationExists
	}

	notification := &entity.Notification{
		ID:               uuid.New(),
		PrescriptionID:   prescription.ID,
		PatientProfileID: prescription.PatientProfileID,
		Status:           status,
	}
	if err := u.notificationRepo.Create(ctx, tx, notification); err != nil {
		u.log.Warnf("Failed to create notification: %+v", err)
		return nil, err
	}
	notification.Prescription = prescription

	resp := converter.NotificationToResponse(notification)
	if err := u.auditService.LogCreate(ctx, tx, auditUserID(ctx), entity.AuditActionNotificationCreate, "notification", notification.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *notificationUsecase) GetByPatient(ctx context.Context, patientProfileID uuid.UUID) ([]dto.NotificationResponse, error) {
	if err := authorizePatientAccess(ctx, u.db, u.patientProfileRepo, patientProfileID); err != nil {
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

	return u.listFor(ctx, patientProfileID)
}

// GetMine lists the notifications of the calling patient.
func (u *notificationUsecase) GetMine(ctx context.Context) ([]dto.NotificationResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientProfileRepo.FindByUserID(ctx, u.db, c.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return u.listFor(ctx, patient.ID)
}

func (u *notificationUsecase) listFor(ctx context.Context, patientProfileID uuid.UUID) ([]dto.NotificationResponse, error) {
	notifications, err := u.notificationRepo.FindByPatientProfileID(ctx, u.db, patientProfileID)
	if err != nil {
		u.log.Warnf("Failed to find notifications: %+v", err)
		return nil, err
	}

	return converter.NotificationsToResponses(notifications), nil
}

func (u *notificationUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.NotificationResponse, error) {
	notification, err := u.find(ctx, u.db, id)
	if err != nil {
		return nil, err
	}

	return converter.NotificationToResponse(notification), nil
}

// UpdateStatus is how a patient marks a notification as leida.
func (u *notificationUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateNotificationRequest) (*dto.NotificationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	notification, err := u.find(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	oldValue := converter.NotificationToResponse(notification)

	status := entity.NotificationStatus(req.Status)
	affected, err := u.notificationRepo.UpdateStatus(ctx, tx, id, status)
	if err != nil {
		u.log.Warnf("Failed to update notification: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotificationNotFound
	}
	notification.Status = status

	newValue := converter.NotificationToResponse(notification)
	if err := u.auditService.LogUpdate(ctx, tx, auditUserID(ctx), entity.AuditActionNotificationUpdate, "notification", id.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *notificationUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	notification, err := u.find(ctx, tx, id)
	if err != nil {
		return err
	}

	if _, err := u.notificationRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete notification: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, auditUserID(ctx), entity.AuditActionNotificationDelete, "notification", id.String(), converter.NotificationToResponse(notification)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// find loads a notification and hides other patients' notifications behind ErrForbidden.
func (u *notificationUsecase) find(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Notification, error) {
	notification, err := u.notificationRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find notification: %+v", err)
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}

	if err := authorizePatientAccess(ctx, db, u.patientProfileRepo, notification.PatientProfileID); err != nil {
		return nil, err
	}

	return notification, nil
}
