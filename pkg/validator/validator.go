package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	// report fields by their JSON names so errors line up with the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			// query DTOs are decoded by gorilla/schema
			name = strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := fieldPath(e.Namespace())
			switch e.Tag() {
			case "required":
				errs[field] = field + " is required"
			case "email":
				errs[field] = field + " must be a valid email address"
			case "uuid", "uuid4":
				errs[field] = field + " must be a valid UUID"
			case "oneof":
				errs[field] = field + " must be one of: " + strings.Join(strings.Fields(e.Param()), ", ")
			case "min":
				if e.Kind() == reflect.Slice {
					errs[field] = field + " must contain at least " + e.Param() + " item(s)"
				} else {
					errs[field] = field + " must be at least " + e.Param() + " characters"
				}
			case "max":
				errs[field] = field + " must be at most " + e.Param() + " characters"
			case "gt":
				errs[field] = field + " must be greater than " + e.Param()
			case "gte":
				errs[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errs[field] = field + " must be less than or equal to " + e.Param()
			default:
				errs[field] = field + " is invalid"
			}
		}
	}

	return errs
}

// fieldPath drops the root struct name: "CreatePrescriptionRequest.detalles[0].cantidad" -> "detalles[0].cantidad".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
