package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"pharmacy-clinic/internal/usecase"
	"pharmacy-clinic/pkg/response"
	"pharmacy-clinic/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
)

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// errorStatus maps usecase sentinels to HTTP status codes. Anything else is a 500.
var errorStatus = []struct {
	status int
	errs   []error
}{
	{http.StatusBadRequest, []error{
		usecase.ErrInvalidRole,
		usecase.ErrInvalidDateFormat,
		usecase.ErrDoctorRequired,
		usecase.ErrInvalidPrice,
		usecase.ErrInvalidUserID,
	}},
	{http.StatusUnauthorized, []error{
		usecase.ErrInvalidCredentials,
		usecase.ErrInvalidToken,
		usecase.ErrTokenRevoked,
		usecase.ErrUnauthenticated,
	}},
	{http.StatusForbidden, []error{
		usecase.ErrForbidden,
	}},
	{http.StatusNotFound, []error{
		usecase.ErrUserNotFound,
		usecase.ErrDoctorNotFound,
		usecase.ErrPatientNotFound,
		usecase.ErrPharmacistNotFound,
		usecase.ErrPrescriptionNotFound,
		usecase.ErrMedicationNotFound,
		usecase.ErrNotificationNotFound,
		usecase.ErrAuditLogNotFound,
	}},
	{http.StatusConflict, []error{
		usecase.ErrDNIAlreadyExists,
		usecase.ErrProfileAlreadyExists,
		usecase.ErrRoleMismatch,
		usecase.ErrRoleLocked,
		usecase.ErrProfileInUse,
		usecase.ErrUserHasReferences,
		usecase.ErrPrescriptionAlreadyDelivered,
		usecase.ErrInvalidStatusTransition,
		usecase.ErrPatientMismatch,
		usecase.ErrNotificationExists,
		usecase.ErrMedicationInUse,
	}},
}

func statusFor(err error) int {
	for _, group := range errorStatus {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the sentinel's message, or fallback when the error is unexpected.
func respondError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		response.InternalServerError(w, fallback)
		return
	}
	response.Error(w, status, err.Error(), nil)
}

// decodeAndValidate reads a JSON body into req. It writes the 400 itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func decodeQuery(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, query interface{}) bool {
	if err := queryDecoder.Decode(query, r.URL.Query()); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameters", nil)
		return false
	}

	if err := v.Validate(query); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func pageOrDefault(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
