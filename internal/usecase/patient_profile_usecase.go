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
	ErrPatientNotFound = errors.New("patient not found")
)

type PatientProfileUsecase interface {
	CreatePatient(ctx context.Context, userID uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, profileID uuid.UUID) (*dto.PatientResponse, error)
	GetAllPatients(ctx context.Context) ([]dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, profileID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	UpdateSelfProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	UnassignPatient(ctx context.Context, profileID uuid.UUID) error
}

type patientProfileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
	}
}

func (u *patientProfileUsecase) CreatePatient(ctx context.Context, userID uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := profileOwner(ctx, tx, u.userRepo, userID, entity.RolePatient)
	if err != nil {
		return nil, err
	}

	existing, err := u.patientProfileRepo.FindByUserID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileAlreadyExists
	}

	profile := &entity.PatientProfile{
		ID:        uuid.New(),
		UserID:    user.ID,
		BirthDate: birthDate,
	}
	if err := u.patientProfileRepo.Create(ctx, tx, profile); err != nil {
		if isDuplicateKeyError(err, "user_id") {
			return nil, ErrProfileAlreadyExists
		}
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}
	profile.User = *user

	resp := converter.PatientProfileToResponse(profile)
	if err := u.auditService.LogCreate(ctx, tx, auditUserID(ctx), entity.AuditActionProfileCreate, "patient_profile", profile.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *patientProfileUsecase) GetPatient(ctx context.Context, profileID uuid.UUID) (*dto.PatientResponse, error) {
	profile, err := u.patientProfileRepo.FindByID(ctx, u.db, profileID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientProfileToResponse(profile), nil
}

func (u *patientProfileUsecase) GetAllPatients(ctx context.Context) ([]dto.PatientResponse, error) {
	profiles, err := u.patientProfileRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all patient profiles: %+v", err)
		return nil, err
	}

	return converter.PatientProfilesToResponses(profiles), nil
}

func (u *patientProfileUsecase) UpdatePatient(ctx context.Context, profileID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	return u.update(ctx, req, func(tx *gorm.DB) (*entity.PatientProfile, error) {
		return u.patientProfileRepo.FindByID(ctx, tx, profileID)
	})
}

func (u *patientProfileUsecase) UpdateSelfProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	return u.update(ctx, req, func(tx *gorm.DB) (*entity.PatientProfile, error) {
		return u.patientProfileRepo.FindByUserID(ctx, tx, userID)
	})
}

func (u *patientProfileUsecase) update(ctx context.Context, req *dto.UpdatePatientRequest, find func(tx *gorm.DB) (*entity.PatientProfile, error)) (*dto.PatientResponse, error) {
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := find(tx)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}

	oldValue := converter.PatientProfileToResponse(profile)
	profile.BirthDate = birthDate

	if err := u.patientProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}

	newValue := converter.PatientProfileToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, auditUserID(ctx), entity.AuditActionProfileUpdate, "patient_profile", profile.ID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *patientProfileUsecase) UnassignPatient(ctx context.Context, profileID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.patientProfileRepo.FindByID(ctx, tx, profileID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrPatientNotFound
	}

	if _, err := u.patientProfileRepo.Delete(ctx, tx, profileID); err != nil {
		if isForeignKeyError(err, "patient_profile_id") {
			return ErrProfileInUse
		}
		u.log.Warnf("Failed to delete patient profile: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, auditUserID(ctx), entity.AuditActionProfileUnassign, "patient_profile", profileID.String(), converter.PatientProfileToResponse(profile)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
