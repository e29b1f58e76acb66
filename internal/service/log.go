package service

import (
	"errors"

	"go-inventory-crm/internal/logger"
)

var expectedErrors = []error{
	ErrValidation,
	ErrNotFound,
	ErrDuplicateModel,
	ErrInsufficientStock,
	ErrInvalidCredentials,
}

// logFailure logs business rejections at info level and everything else as an error.
func logFailure(msg string, err error, kv ...interface{}) {
	kv = append(kv, "error", err)
	for _, target := range expectedErrors {
		if errors.Is(err, target) {
			logger.Infow(msg, kv...)
			return
		}
	}
	logger.Errorw(msg, kv...)
}
