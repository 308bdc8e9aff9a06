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
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMedicationInUse = errors.New("medication is referenced by prescriptions")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

type MedicationUsecase interface {
	Create(ctx context.Context, req *dto.CreateMedicationRequest) (*dto.MedicationResponse, error)
	GetAll(ctx context.Context, page, limit int, search string) ([]dto.MedicationResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicationRequest) (*dto.MedicationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type medicationUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	medicationRepo repository.MedicationRepository
	auditService   service.AuditService
}

func NewMedicationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	medicationRepo repository.MedicationRepository,
	auditService service.AuditService,
) MedicationUsecase {
	return &medicationUsecase{
		db:             db,
		log:            log,
		medicationRepo: medicationRepo,
		auditService:   auditService,
	}
}

func (u *medicationUsecase) Create(ctx context.Context, req *dto.CreateMedicationRequest) (*dto.MedicationResponse, error) {
	price := decimal.Zero
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		price = *req.Price
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	medication := &entity.Medication{
		ID:    uuid.New(),
		Name:  req.Name,
		Stock: *req.Stock,
		Price: price,
	}
	if err := u.medicationRepo.Create(ctx, tx, medication); err != nil {
		u.log.Warnf("Failed to create medication: %+v", err)
		return nil, err
	}

	resp := converter.MedicationToResponse(medication)
	if err := u.auditService.LogCreate(ctx, tx, auditUserID(ctx), entity.AuditActionMedicationCreate, "medication", medication.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *medicationUsecase) GetAll(ctx context.Context, page, limit int, search string) ([]dto.MedicationResponse, int64, error) {
	_, limit, offset := normalizePage(page, limit)

	medications, total, err := u.medicationRepo.FindAll(ctx, u.db, entity.MedicationFilter{
		Search: search,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		u.log.Warnf("Failed to find medications: %+v", err)
		return nil, 0, err
	}

	return converter.MedicationsToResponses(medications), total, nil
}

func (u *medicationUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicationResponse, error) {
	medication, err := u.medicationRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find medication: %+v", err)
		return nil, err
	}
	if medication == nil {
		return nil, ErrMedicationNotFound
	}

	return converter.MedicationToResponse(medication), nil
}

func (u *medicationUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicationRequest) (*dto.MedicationResponse, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	medication, err := u.medicationRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medication: %+v", err)
		return nil, err
	}
	if medication == nil {
		return nil, ErrMedicationNotFound
	}
	oldValue := converter.MedicationToResponse(medication)

	if req.Name != nil {
		medication.Name = *req.Name
	}
	if req.Stock != nil {
		medication.Stock = *req.Stock
	}
	if req.Price != nil {
		medication.Price = *req.Price
	}

	if err := u.medicationRepo.Update(ctx, tx, medication); err != nil {
		u.log.Warnf("Failed to update medication: %+v", err)
		return nil, err
	}

	newValue := converter.MedicationToResponse(medication)
	if err := u.auditService.LogUpdate(ctx, tx, auditUserID(ctx), entity.AuditActionMedicationUpdate, "medication", id.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *medicationUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	medication, err := u.medicationRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medication: %+v", err)
		return err
	}
	if medication == nil {
		return ErrMedicationNotFound
	}

	if _, err := u.medicationRepo.Delete(ctx, tx, id); err != nil {
		if isForeignKeyError(err, "medication_id") {
			return ErrMedicationInUse
		}
		u.log.Warnf("Failed to delete medication: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, auditUserID(ctx), entity.AuditActionMedicationDelete, "medication", id.String(), converter.MedicationToResponse(medication)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
