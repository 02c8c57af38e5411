package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrImportNotFound    = errors.New("import not found")
	ErrExportNotFound    = errors.New("export not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("user identity required")
	ErrForbidden         = errors.New("caller does not own this record")
	ErrInvalidInput      = errors.New("invalid input")
)

// ValidationError carries one message per rejected field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func newValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
