package compiler

import (
	"errors"
	"fmt"
)

// ErrDuplicateDeclaration is the sentinel matched by errors.Is for every
// DuplicateDeclarationError.
var ErrDuplicateDeclaration = errors.New("duplicate declaration")

// DuplicateDeclarationError reports two declarations sharing a name.
// First and Second are the input positions of the clashing declarations.
type DuplicateDeclarationError struct {
	Name   string `json:"name"`
	First  int    `json:"first"`
	Second int    `json:"second"`
}

// Error implements the error interface.
func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("duplicate declaration %q at positions %d and %d", e.Name, e.First, e.Second)
}

// Unwrap lets errors.Is match ErrDuplicateDeclaration.
func (e *DuplicateDeclarationError) Unwrap() error {
	return ErrDuplicateDeclaration
}
