package repository

import (
	"context"
	"errors"

	"pharmacy-clinic/internal/domain/entity"
	domainRepo "pharmacy-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct{}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, db *gorm.DB, notification *entity.Notification) error {
	return db.WithContext(ctx).Omit("Prescription").Create(notification).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Notification, error) {
	var notification entity.Notification
	err := db.WithContext(ctx).Preload("Prescription").Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByPatientProfileID(ctx context.Context, db *gorm.DB, patientProfileID uuid.UUID) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := db.WithContext(ctx).
		Preload("Prescription").
		Where("patient_profile_id = ?", patientProfileID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) CountByPrescription(ctx context.Context, db *gorm.DB, prescriptionID uuid.UUID, status entity.NotificationStatus) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Notification{}).
		Where("prescription_id = ? AND status = ?", prescriptionID, status).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status entity.NotificationStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Notification{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Notification{})
	return result.RowsAffected, result.Error
}
