package domain

import (
	"errors"
	"fmt"
)

// Fatal errors abort a generation request.
var (
	ErrTemplateMissing          = errors.New("template missing")
	ErrTemplateCapacityExceeded = errors.New("template capacity exceeded")
	ErrInvalidMappingField      = errors.New("invalid mapping field")
)

// Degraded errors are absorbed by the generator and surface as warnings.
var (
	ErrSignatureNotFound    = errors.New("signature not found")
	ErrNoSignatureAvailable = errors.New("no signature available")
	ErrPDFConversionFailed  = errors.New("pdf conversion failed")
)

// CapacityError reports a repeating group with more entries than the
// template (inline plus overflow) can hold.
type CapacityError struct {
	Group string
	Count int
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %d entries, template holds %d", e.Group, e.Count, e.Limit)
}

func (e *CapacityError) Unwrap() error {
	return ErrTemplateCapacityExceeded
}

// FieldError reports a payload field the layout has no cell for.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("field %q has no cell in layout", e.Field)
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidMappingField
}

// IsDegraded reports whether err belongs to the non-fatal class.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrSignatureNotFound) ||
		errors.Is(err, ErrNoSignatureAvailable) ||
		errors.Is(err, ErrPDFConversionFailed)
}
