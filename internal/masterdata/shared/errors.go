package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("resource not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrValidation = errors.New("validation failed")
	ErrInvalidID  = errors.New("invalid ID")

	// ErrRequiredField matches ErrValidation too, so handlers cover
	// both with a single check.
	ErrRequiredField = fmt.Errorf("%w: field is required", ErrValidation)
)
