package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"param,omitempty"`
}

// Message renders the failure as a short human readable reason.
func (e *ErrorResponse) Message() string {
	field := e.FailedField
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch e.Tag {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Value)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Value)
	default:
		return fmt.Sprintf("%s failed on '%s'", field, e.Tag)
	}
}

var validate = validator.New()

func init() {
	// notblank rejects strings that are empty after trimming whitespace.
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: "input", Tag: "invalid", Value: err.Error()}}
	}
	for _, fe := range verrs {
		errs = append(errs, &ErrorResponse{
			FailedField: fe.StructNamespace(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}
	return errs
}
