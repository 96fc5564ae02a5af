package service

import (
	"errors"
	"fmt"
)

var (
	ErrFailedValidation   = errors.New("failed validation")
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateRecord    = errors.New("duplicate record")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// failedValidation turns a validation error map into an error that wraps
// ErrFailedValidation, carrying the first violated field and its message.
func failedValidation(errorMap map[string]string) error {
	for k, v := range errorMap {
		return fmt.Errorf("%w: %q %s", ErrFailedValidation, k, v)
	}
	return ErrFailedValidation
}
