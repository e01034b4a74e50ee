package validate_appointment

import (
	"errors"
	"strings"
)

var (
	// ErrValidation возвращается (через ValidationError), когда запись не прошла проверки
	ErrValidation = errors.New("validate_appointment: validation failed")

	// ErrInternal возвращается при внутренних ошибках (недоступность хранилища)
	ErrInternal = errors.New("validate_appointment: internal error")
)

// ValidationError содержит все причины, по которым запись невозможна
type ValidationError struct {
	Reasons []string
}

// Error реализует error
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError создает ошибку валидации с указанными причинами
func NewValidationError(reasons ...string) *ValidationError {
	return &ValidationError{Reasons: reasons}
}

// Reasons извлекает причины из ошибки валидации (nil, если это не она)
func Reasons(err error) []string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Reasons
	}
	return nil
}
