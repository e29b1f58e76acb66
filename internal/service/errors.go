package service

import (
	"errors"
	"fmt"
	"strings"

	"go-inventory-crm/pkg/database"
	"go-inventory-crm/pkg/validator"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrAccountNotFound  = fmt.Errorf("account %w", ErrNotFound)

	ErrDuplicateModel     = errors.New("model already exists")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// invalid wraps ErrValidation with a reason.
func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// validateInput runs struct tag validation and reports the first failure.
func validateInput(v interface{}) error {
	errs := validator.ValidateStruct(v)
	if len(errs) == 0 {
		return nil
	}
	return invalid("%s", errs[0].Message())
}

// notFoundAs replaces gorm's record-not-found with target.
func notFoundAs(err, target error) error {
	if database.IsNotFound(err) {
		return target
	}
	return err
}

// optional trims s and turns blank values into nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
