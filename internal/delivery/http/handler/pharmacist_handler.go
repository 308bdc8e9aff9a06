package handler

import (
	"net/http"

	"pharmacy-clinic/internal/delivery/http/middleware"
	"pharmacy-clinic/internal/usecase"
	"pharmacy-clinic/pkg/response"

	"github.com/google/uuid"
)

// PharmacistHandler has no request bodies; a pharmacist profile carries no fields of its own.
type PharmacistHandler struct {
	pharmacistUsecase usecase.PharmacistProfileUsecase
}

func NewPharmacistHandler(pharmacistUsecase usecase.PharmacistProfileUsecase) *PharmacistHandler {
	return &PharmacistHandler{
		pharmacistUsecase: pharmacistUsecase,
	}
}

func (h *PharmacistHandler) CreateSelf(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	h.create(w, r, userID)
}

func (h *PharmacistHandler) CreateForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "idUsuario", "user")
	if !ok {
		return
	}
	h.create(w, r, userID)
}

func (h *PharmacistHandler) create(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	pharmacist, err := h.pharmacistUsecase.CreatePharmacist(r.Context(), userID)
	if err != nil {
		respondError(w, err, "Failed to create pharmacist")
		return
	}

	response.Success(w, http.StatusCreated, "Pharmacist created successfully", pharmacist)
}

func (h *PharmacistHandler) GetPharmacist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "pharmacist")
	if !ok {
		return
	}

	pharmacist, err := h.pharmacistUsecase.GetPharmacist(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to get pharmacist")
		return
	}

	response.Success(w, http.StatusOK, "Pharmacist retrieved successfully", pharmacist)
}

func (h *PharmacistHandler) GetAllPharmacists(w http.ResponseWriter, r *http.Request) {
	pharmacists, err := h.pharmacistUsecase.GetAllPharmacists(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get pharmacists")
		return
	}

	response.Success(w, http.StatusOK, "Pharmacists retrieved successfully", pharmacists)
}

func (h *PharmacistHandler) UnassignPharmacist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "pharmacist")
	if !ok {
		return
	}

	if err := h.pharmacistUsecase.UnassignPharmacist(r.Context(), id); err != nil {
		respondError(w, err, "Failed to unassign pharmacist")
		return
	}

	response.Success(w, http.StatusOK, "Pharmacist unassigned successfully", nil)
}
