package repository

import (
	"context"
	"errors"

	"pharmacy-clinic/internal/domain/entity"
	domainRepo "pharmacy-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type prescriptionRepository struct{}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{}
}

func (r *prescriptionRepository) Create(ctx context.Context, db *gorm.DB, prescription *entity.Prescription) error {
	// Doctor and Patient are looked up by the caller; only the details are inserted alongside.
	return db.WithContext(ctx).Omit("Doctor", "Patient", "Details.Medication").Create(prescription).Error
}

func (r *prescriptionRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := r.withRelations(db.WithContext(ctx)).Where("id = ?", id).First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.PrescriptionFilter) ([]entity.Prescription, int64, error) {
	var prescriptions []entity.Prescription
	var total int64

	query := db.WithContext(ctx).Model(&entity.Prescription{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PatientProfileID != nil {
		query = query.Where("patient_profile_id = ?", *filter.PatientProfileID)
	}
	if filter.DoctorProfileID != nil {
		query = query.Where("doctor_profile_id = ?", *filter.DoctorProfileID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	err := r.withRelations(query).Order("issue_date DESC").Find(&prescriptions).Error
	if err != nil {
		return nil, 0, err
	}

	return prescriptions, total, nil
}

func (r *prescriptionRepository) UpdateComments(ctx context.Context, db *gorm.DB, id uuid.UUID, comments *string) error {
	return db.WithContext(ctx).Model(&entity.Prescription{}).
		Where("id = ?", id).
		Update("comments", comments).Error
}

// MarkDelivered only matches pending rows, so two concurrent dispenses cannot both succeed.
func (r *prescriptionRepository) MarkDelivered(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Prescription{}).
		Where("id = ? AND status = ?", id, entity.PrescriptionStatusPending).
		Update("status", entity.PrescriptionStatusDelivered)
	return result.RowsAffected, result.Error
}

func (r *prescriptionRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Prescription{})
	return result.RowsAffected, result.Error
}

func (r *prescriptionRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Doctor.User").
		Preload("Patient.User").
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Details.Medication")
}
