package auth

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
)

const CodeValidationFailed = "VALIDATION_FAILED"

// Validator is the echo.Validator for request bodies. The reset_code tag
// checks length and alphabet against the configured generator.
type Validator struct {
	validate *validator.Validate
}

func NewValidator(gen *resetcode.Generator) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("reset_code", func(fl validator.FieldLevel) bool {
		return gen.Valid(fl.Field().String())
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

type validationResponse struct {
	envelope
	Errors map[string]string `json:"errors,omitempty"`
}

// fieldErrors flattens validator errors into field -> failed rule.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// bind decodes and validates req. When it reports false the error response
// has already been written and its write error is returned.
func bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, fail(c, http.StatusBadRequest, "Invalid request body", CodeValidationFailed)
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, validationResponse{
			envelope: envelope{Success: false, Message: "Validation errors", Code: CodeValidationFailed},
			Errors:   fieldErrors(err),
		})
	}
	return true, nil
}
