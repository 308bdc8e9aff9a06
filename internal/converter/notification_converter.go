package converter

import (
	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/domain/entity"
)

func NotificationToResponse(notification *entity.Notification) *dto.NotificationResponse {
	if notification == nil {
		return nil
	}

	resp := &dto.NotificationResponse{
		ID:               notification.ID,
		PrescriptionID:   notification.PrescriptionID,
		PatientProfileID: notification.PatientProfileID,
		Status:           string(notification.Status),
		CreatedAt:        notification.CreatedAt,
	}
	if notification.Prescription != nil {
		resp.PrescriptionStatus = string(notification.Prescription.Status)
	}
	return resp
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = *NotificationToResponse(&notifications[i])
	}
	return responses
}
