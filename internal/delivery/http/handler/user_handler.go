package handler

import (
	"net/http"

	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/delivery/http/middleware"
	"pharmacy-clinic/internal/usecase"
	"pharmacy-clinic/pkg/response"
	"pharmacy-clinic/pkg/validator"

	"github.com/google/uuid"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

// Register handles public registration. The role is always paciente.
// @Summary Register a patient account
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.RegisterUserRequest true "Register Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to register user")
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", user)
}

// RegisterSpecial handles admin registration of any role
// @Summary Register a user with an explicit role
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RegisterSpecialUserRequest true "Register Request"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/register-special [post]
func (h *UserHandler) RegisterSpecial(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterSpecialUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.RegisterSpecialUser(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to register user")
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", user)
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.GetAll(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.userUsecase.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

// UpdateSelf handles PATCH /users/update for the caller's own account.
func (h *UserHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	h.update(w, r, userID)
}

// UpdateByID handles PATCH /users/update/{id} (admin).
func (h *UserHandler) UpdateByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	h.update(w, r, id)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req dto.UpdateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) DeleteSelf(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	h.delete(w, r, userID)
}

func (h *UserHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	h.delete(w, r, id)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.userUsecase.Delete(r.Context(), id); err != nil {
		respondError(w, err, "Failed to delete user")
		return
	}

	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}

// GetDirectory lists every user with its role profile joined in.
func (h *UserHandler) GetDirectory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.userUsecase.GetDirectory(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get user directory")
		return
	}

	response.Success(w, http.StatusOK, "Directory retrieved successfully", entries)
}

// GetPending lists users of ?rol= that still have no profile.
func (h *UserHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	var query dto.PendingUsersQuery
	if !decodeQuery(w, r, h.validator, &query) {
		return
	}

	entries, err := h.userUsecase.GetPending(r.Context(), query.Role)
	if err != nil {
		respondError(w, err, "Failed to get pending users")
		return
	}

	response.Success(w, http.StatusOK, "Pending users retrieved successfully", entries)
}

func (h *UserHandler) GetRegistered(w http.ResponseWriter, r *http.Request) {
	var query dto.PendingUsersQuery
	if !decodeQuery(w, r, h.validator, &query) {
		return
	}

	entries, err := h.userUsecase.GetRegistered(r.Context(), query.Role)
	if err != nil {
		respondError(w, err, "Failed to get registered users")
		return
	}

	response.Success(w, http.StatusOK, "Registered users retrieved successfully", entries)
}
