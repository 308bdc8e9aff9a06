package handler

import (
	"net/http"
	"strconv"

	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/usecase"
	"pharmacy-clinic/pkg/response"
	"pharmacy-clinic/pkg/validator"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		respondError(w, err, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	var query dto.AuditLogListQuery
	if !decodeQuery(w, r, h.validator, &query) {
		return
	}
	query.Page, query.Limit = pageOrDefault(query.Page, query.Limit)

	auditLogs, total, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), &query)
	if err != nil {
		respondError(w, err, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs, response.NewMeta(query.Page, query.Limit, total))
}
