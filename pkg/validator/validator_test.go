package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Quantity int `json:"cantidad" validate:"required,gt=0"`
}

type sample struct {
	DNI    string `json:"dni" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"rol" validate:"required,oneof=paciente medico"`
	Lines  []line `json:"detalles" validate:"required,min=1,dive"`
	Secret string `json:"-" validate:"omitempty"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Email: "nope", Role: "admin", Lines: []line{{Quantity: 0}}})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "dni is required", errs["dni"])
	assert.Equal(t, "email must be a valid email address", errs["email"])
	assert.Equal(t, "rol must be one of: paciente, medico", errs["rol"])
	assert.Contains(t, errs, "detalles[0].cantidad")
}

func TestValidate_EmptySlice(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{DNI: "1", Email: "a@b.co", Role: "medico", Lines: []line{}})
	require.Error(t, err)
	assert.Equal(t, "detalles must contain at least 1 item(s)", v.FormatValidationErrors(err)["detalles"])
}

func TestValidate_OK(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&sample{DNI: "1", Email: "a@b.co", Role: "paciente", Lines: []line{{Quantity: 2}}}))
}
