package handler

import (
	"net/http"

	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/usecase"
	"pharmacy-clinic/pkg/response"
	"pharmacy-clinic/pkg/validator"
)

type MedicationHandler struct {
	medicationUsecase usecase.MedicationUsecase
	validator         *validator.CustomValidator
}

func NewMedicationHandler(medicationUsecase usecase.MedicationUsecase, validator *validator.CustomValidator) *MedicationHandler {
	return &MedicationHandler{
		medicationUsecase: medicationUsecase,
		validator:         validator,
	}
}

// Create handles medication creation
// @Summary Add a medication to the catalog
// @Tags Medicines
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMedicationRequest true "Create Medication Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /medicines/create [post]
func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMedicationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	medication, err := h.medicationUsecase.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to create medication")
		return
	}

	response.Success(w, http.StatusCreated, "Medication created successfully", medication)
}

// GetAll handles getting all medications
// @Summary List medications
// @Tags Medicines
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param search query string false "Name filter"
// @Success 200 {object} response.Response
// @Router /medicines [get]
func (h *MedicationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var query dto.MedicationListQuery
	if !decodeQuery(w, r, h.validator, &query) {
		return
	}
	page, limit := pageOrDefault(query.Page, query.Limit)

	medications, total, err := h.medicationUsecase.GetAll(r.Context(), page, limit, query.Search)
	if err != nil {
		respondError(w, err, "Failed to get medications")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Medications retrieved successfully", medications, response.NewMeta(page, limit, total))
}

func (h *MedicationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "medication")
	if !ok {
		return
	}

	medication, err := h.medicationUsecase.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to get medication")
		return
	}

	response.Success(w, http.StatusOK, "Medication retrieved successfully", medication)
}

func (h *MedicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "medication")
	if !ok {
		return
	}

	var req dto.UpdateMedicationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	medication, err := h.medicationUsecase.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, err, "Failed to update medication")
		return
	}

	response.Success(w, http.StatusOK, "Medication updated successfully", medication)
}

func (h *MedicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "medication")
	if !ok {
		return
	}

	if err := h.medicationUsecase.Delete(r.Context(), id); err != nil {
		respondError(w, err, "Failed to delete medication")
		return
	}

	response.Success(w, http.StatusOK, "Medication deleted successfully", nil)
}
