package services

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeDuplicateKey  ErrorCode = "DUPLICATE_KEY"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeConnectivity  ErrorCode = "CONNECTIVITY_ERROR"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeForbidden     ErrorCode = "FORBIDDEN"
)

type ServiceError struct {
	Status  int
	Code    ErrorCode
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Code: CodeNotFound, Message: msg}
}

func ErrDuplicateKey(msg string) error {
	return ServiceError{Status: 409, Code: CodeDuplicateKey, Message: msg}
}

func ErrValidation(msg string) error {
	return ServiceError{Status: 400, Code: CodeValidation, Message: msg}
}

func ErrConnectivity(msg string) error {
	return ServiceError{Status: 503, Code: CodeConnectivity, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: 401, Code: CodeUnauthorized, Message: msg}
}

func ErrForbidden(msg string) error {
	return ServiceError{Status: 403, Code: CodeForbidden, Message: msg}
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code ErrorCode) bool {
	var serr ServiceError
	return errors.As(err, &serr) && serr.Code == code
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
