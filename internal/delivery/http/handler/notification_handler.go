package handler

import (
	"net/http"

	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/usecase"
	"pharmacy-clinic/pkg/response"
	"pharmacy-clinic/pkg/validator"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	validator           *validator.CustomValidator
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, validator *validator.CustomValidator) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		validator:           validator,
	}
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateNotificationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	notification, err := h.notificationUsecase.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to create notification")
		return
	}

	response.Success(w, http.StatusCreated, "Notification created successfully", notification)
}

func (h *NotificationHandler) GetByPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	notifications, err := h.notificationUsecase.GetByPatient(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", notifications)
}

func (h *NotificationHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationUsecase.GetMine(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", notifications)
}

func (h *NotificationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "notification")
	if !ok {
		return
	}

	notification, err := h.notificationUsecase.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to get notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification retrieved successfully", notification)
}

func (h *NotificationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "notification")
	if !ok {
		return
	}

	var req dto.UpdateNotificationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	notification, err := h.notificationUsecase.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		respondError(w, err, "Failed to update notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification updated successfully", notification)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationUsecase.Delete(r.Context(), id); err != nil {
		respondError(w, err, "Failed to delete notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification deleted successfully", nil)
}
