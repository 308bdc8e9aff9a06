package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterUserRequest is the public sign-up body; rol is ignored and forced to paciente.
type RegisterUserRequest struct {
	DNI       string  `json:"dni" validate:"required,max=20"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"contraseña" validate:"required"`
	FirstName string  `json:"nombre" validate:"required,max=100"`
	LastName  string  `json:"apellido" validate:"required,max=100"`
	Phone     *string `json:"telefono" validate:"omitempty,max=30"`
	Role      string  `json:"rol" validate:"omitempty"`
}

type RegisterSpecialUserRequest struct {
	DNI       string  `json:"dni" validate:"required,max=20"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"contraseña" validate:"required"`
	FirstName string  `json:"nombre" validate:"required,max=100"`
	LastName  string  `json:"apellido" validate:"required,max=100"`
	Phone     *string `json:"telefono" validate:"omitempty,max=30"`
	Role      string  `json:"rol" validate:"required,oneof=paciente medico farmaceutico admin"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"contraseña" validate:"omitempty,min=1"`
	FirstName *string `json:"nombre" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"apellido" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"telefono" validate:"omitempty,max=30"`
	Role      *string `json:"rol" validate:"omitempty,oneof=paciente medico farmaceutico admin"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	DNI       string    `json:"dni"`
	Email     string    `json:"email"`
	FirstName string    `json:"nombre"`
	LastName  string    `json:"apellido"`
	Role      string    `json:"rol"`
	Phone     *string   `json:"telefono,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DirectoryEntryResponse is a user decorated with its role profile, if any.
type DirectoryEntryResponse struct {
	UserResponse
	ProfileID  *uuid.UUID `json:"idEspecifico,omitempty"`
	Specialty  *string    `json:"especialidad,omitempty"`
	BirthDate  *string    `json:"fechaNacimiento,omitempty"`
	HasProfile bool       `json:"registrado"`
	Pending    bool       `json:"pendiente"`
}

type PendingUsersQuery struct {
	Role string `schema:"rol" validate:"required,oneof=paciente medico farmaceutico"`
}
