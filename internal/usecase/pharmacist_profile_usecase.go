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
	ErrPharmacistNotFound = errors.New("pharmacist not found")
)

type PharmacistProfileUsecase interface {
	CreatePharmacist(ctx context.Context, userID uuid.UUID) (*dto.PharmacistResponse, error)
	GetPharmacist(ctx context.Context, profileID uuid.UUID) (*dto.PharmacistResponse, error)
	GetAllPharmacists(ctx context.Context) ([]dto.PharmacistResponse, error)
	UnassignPharmacist(ctx context.Context, profileID uuid.UUID) error
}

type pharmacistProfileUsecase struct {
	db                    *gorm.DB
	log                   *logrus.Logger
	userRepo              repository.UserRepository
	pharmacistProfileRepo repository.PharmacistProfileRepository
	auditService          service.AuditService
}

func NewPharmacistProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	pharmacistProfileRepo repository.PharmacistProfileRepository,
	auditService service.AuditService,
) PharmacistProfileUsecase {
	return &pharmacistProfileUsecase{
		db:                    db,
		log:                   log,
		userRepo:              userRepo,
		pharmacistProfileRepo: pharmacistProfileRepo,
		auditService:          auditService,
	}
}

func (u *pharmacistProfileUsecase) CreatePharmacist(ctx context.Context, userID uuid.UUID) (*dto.PharmacistResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := profileOwner(ctx, tx, u.userRepo, userID, entity.RolePharmacist)
	if err != nil {
		return nil, err
	}

	existing, err := u.pharmacistProfileRepo.FindByUserID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacist profile: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileAlreadyExists
	}

	profile := &entity.PharmacistProfile{
		ID:     uuid.New(),
		UserID: user.ID,
	}
	if err := u.pharmacistProfileRepo.Create(ctx, tx, profile); err != nil {
		if isDuplicateKeyError(err, "user_id") {
			return nil, ErrProfileAlreadyExists
		}
		u.log.Warnf("Failed to create pharmacist profile: %+v", err)
		return nil, err
	}
	profile.User = *user

	resp := converter.PharmacistProfileToResponse(profile)
	if err := u.auditService.LogCreate(ctx, tx, auditUserID(ctx), entity.AuditActionProfileCreate, "pharmacist_profile", profile.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *pharmacistProfileUsecase) GetPharmacist(ctx context.Context, profileID uuid.UUID) (*dto.PharmacistResponse, error) {
	profile, err := u.pharmacistProfileRepo.FindByID(ctx, u.db, profileID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacist profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPharmacistNotFound
	}

	return converter.PharmacistProfileToResponse(profile), nil
}

func (u *pharmacistProfileUsecase) GetAllPharmacists(ctx context.Context) ([]dto.PharmacistResponse, error) {
	profiles, err := u.pharmacistProfileRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all pharmacist profiles: %+v", err)
		return nil, err
	}

	return converter.PharmacistProfilesToResponses(profiles), nil
}

func (u *pharmacistProfileUsecase) UnassignPharmacist(ctx context.Context, profileID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.pharmacistProfileRepo.FindByID(ctx, tx, profileID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacist profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrPharmacistNotFound
	}

	if _, err := u.pharmacistProfileRepo.Delete(ctx, tx, profileID); err != nil {
		u.log.Warnf("Failed to delete pharmacist profile: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, auditUserID(ctx), entity.AuditActionProfileUnassign, "pharmacist_profile", profileID.String(), converter.PharmacistProfileToResponse(profile)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
