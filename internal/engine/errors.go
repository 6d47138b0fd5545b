package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/iogen/internal/compiler"
)

// GenerateErrorCode categorizes generation failures.
type GenerateErrorCode string

const (
	// ErrCodeLintFailed indicates the batch has validation errors.
	ErrCodeLintFailed GenerateErrorCode = "LINT_FAILED"

	// ErrCodeDuplicateDeclaration indicates two declarations share a name.
	ErrCodeDuplicateDeclaration GenerateErrorCode = "DUPLICATE_DECLARATION"

	// ErrCodeRecordFailed indicates the document was generated but the
	// run could not be written to history.
	ErrCodeRecordFailed GenerateErrorCode = "RECORD_FAILED"
)

// GenerateError is returned by Engine.Generate.
type GenerateError struct {
	// Code identifies the error category.
	Code GenerateErrorCode

	// Message is a human-readable description.
	Message string

	// Lint holds every validation error for ErrCodeLintFailed.
	Lint []compiler.ValidationError

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *GenerateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *GenerateError) Unwrap() error {
	return e.Err
}

// IsLintError returns true if the error is a validation failure.
// Uses errors.As to handle wrapped errors.
func IsLintError(err error) bool {
	var ge *GenerateError
	if errors.As(err, &ge) {
		return ge.Code == ErrCodeLintFailed
	}
	return false
}

// IsDuplicateError returns true if two declarations share a name.
func IsDuplicateError(err error) bool {
	var ge *GenerateError
	if errors.As(err, &ge) {
		return ge.Code == ErrCodeDuplicateDeclaration
	}
	return false
}

func newDuplicateError(err error) *GenerateError {
	msg := "duplicate declaration"
	var dup *compiler.DuplicateDeclarationError
	if errors.As(err, &dup) {
		msg = fmt.Sprintf("declaration %q is declared twice", dup.Name)
	}
	return &GenerateError{Code: ErrCodeDuplicateDeclaration, Message: msg, Err: err}
}

// NewLintError creates a GenerateError carrying validation errors.
func NewLintError(errs []compiler.ValidationError) *GenerateError {
	return &GenerateError{
		Code:    ErrCodeLintFailed,
		Message: fmt.Sprintf("%d validation error(s)", len(errs)),
		Lint:    errs,
	}
}
