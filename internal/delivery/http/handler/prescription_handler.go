package handler

import (
	"net/http"

	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/usecase"
	"pharmacy-clinic/pkg/response"
	"pharmacy-clinic/pkg/validator"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

// Create handles prescription creation
// @Summary Create a prescription with its detail lines
// @Description Doctors prescribe as their own profile; admins must send idMedico
// @Tags Prescriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePrescriptionRequest true "Create Prescription Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /prescriptions/create [post]
func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	prescription, err := h.prescriptionUsecase.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to create prescription")
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", prescription)
}

// GetAll handles getting prescriptions
// @Summary List prescriptions
// @Tags Prescriptions
// @Security BearerAuth
// @Produce json
// @Param estado query string false "pendiente or entregada"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /prescriptions [get]
func (h *PrescriptionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var query dto.PrescriptionListQuery
	if !decodeQuery(w, r, h.validator, &query) {
		return
	}
	page, limit := pageOrDefault(query.Page, query.Limit)

	prescriptions, total, err := h.prescriptionUsecase.GetAll(r.Context(), query.Status, page, limit)
	if err != nil {
		respondError(w, err, "Failed to get prescriptions")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions, response.NewMeta(page, limit, total))
}

// GetPending is the pharmacist work queue.
func (h *PrescriptionHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	var query dto.PrescriptionListQuery
	if !decodeQuery(w, r, h.validator, &query) {
		return
	}
	page, limit := pageOrDefault(query.Page, query.Limit)

	prescriptions, total, err := h.prescriptionUsecase.GetPending(r.Context(), page, limit)
	if err != nil {
		respondError(w, err, "Failed to get pending prescriptions")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Pending prescriptions retrieved successfully", prescriptions, response.NewMeta(page, limit, total))
}

func (h *PrescriptionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	prescription, err := h.prescriptionUsecase.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to get prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

func (h *PrescriptionHandler) GetByPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	prescriptions, err := h.prescriptionUsecase.GetByPatient(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

// Update changes comentarios and/or estado. estado=entregada dispenses the prescription.
func (h *PrescriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	var req dto.UpdatePrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	prescription, err := h.prescriptionUsecase.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, err, "Failed to update prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription updated successfully", prescription)
}

// Dispense handles prescription dispensing
// @Summary Dispense a pending prescription
// @Description Marks the prescription entregada and notifies the patient in one transaction
// @Tags Prescriptions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Prescription ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /prescriptions/{id}/dispense [post]
func (h *PrescriptionHandler) Dispense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	result, err := h.prescriptionUsecase.Dispense(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to dispense prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription dispensed successfully", result)
}

func (h *PrescriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	if err := h.prescriptionUsecase.Delete(r.Context(), id); err != nil {
		respondError(w, err, "Failed to delete prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription deleted successfully", nil)
}
