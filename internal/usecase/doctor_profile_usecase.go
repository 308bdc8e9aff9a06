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
	ErrDoctorNotFound = errors.New("doctor not found")
)

type DoctorProfileUsecase interface {
	CreateDoctor(ctx context.Context, userID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, profileID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) ([]dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, profileID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateSelfProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	UnassignDoctor(ctx context.Context, profileID uuid.UUID) error
}

type doctorProfileUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

func (u *doctorProfileUsecase) CreateDoctor(ctx context.Context, userID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := profileOwner(ctx, tx, u.userRepo, userID, entity.RoleDoctor)
	if err != nil {
		return nil, err
	}

	existing, err := u.doctorProfileRepo.FindByUserID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileAlreadyExists
	}

	profile := &entity.DoctorProfile{
		ID:        uuid.New(),
		UserID:    user.ID,
		Specialty: req.Specialty,
	}
	if err := u.doctorProfileRepo.Create(ctx, tx, profile); err != nil {
		if isDuplicateKeyError(err, "user_id") {
			return nil, ErrProfileAlreadyExists
		}
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}
	profile.User = *user

	resp := converter.DoctorProfileToResponse(profile)
	if err := u.auditService.LogCreate(ctx, tx, auditUserID(ctx), entity.AuditActionProfileCreate, "doctor_profile", profile.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, profileID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorProfileRepo.FindByID(ctx, u.db, profileID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) GetAllDoctors(ctx context.Context) ([]dto.DoctorResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all doctor profiles: %+v", err)
		return nil, err
	}

	return converter.DoctorProfilesToResponses(profiles), nil
}

func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, profileID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	return u.update(ctx, req, func(tx *gorm.DB) (*entity.DoctorProfile, error) {
		return u.doctorProfileRepo.FindByID(ctx, tx, profileID)
	})
}

func (u *doctorProfileUsecase) UpdateSelfProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	return u.update(ctx, req, func(tx *gorm.DB) (*entity.DoctorProfile, error) {
		return u.doctorProfileRepo.FindByUserID(ctx, tx, userID)
	})
}

func (u *doctorProfileUsecase) update(ctx context.Context, req *dto.UpdateDoctorRequest, find func(tx *gorm.DB) (*entity.DoctorProfile, error)) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := find(tx)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorProfileToResponse(profile)
	profile.Specialty = req.Specialty

	if err := u.doctorProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorProfileToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, auditUserID(ctx), entity.AuditActionProfileUpdate, "doctor_profile", profile.ID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// UnassignDoctor removes the profile row only; the account and its role stay as they are.
func (u *doctorProfileUsecase) UnassignDoctor(ctx context.Context, profileID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByID(ctx, tx, profileID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrDoctorNotFound
	}

	if _, err := u.doctorProfileRepo.Delete(ctx, tx, profileID); err != nil {
		if isForeignKeyError(err, "doctor_profile_id") {
			return ErrProfileInUse
		}
		u.log.Warnf("Failed to delete doctor profile: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, auditUserID(ctx), entity.AuditActionProfileUnassign, "doctor_profile", profileID.String(), converter.DoctorProfileToResponse(profile)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
