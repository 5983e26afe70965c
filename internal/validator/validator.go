package validator

import (
	"maps"
	"slices"
	"strings"

	"github.com/emerrafter1/nc-news/internal/apperror"
	"github.com/emerrafter1/nc-news/internal/utils/functional"
)

type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) IsValid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

func (v *Validator) CheckNotBlank(value, key, message string) {
	v.Check(strings.TrimSpace(value) != "", key, message)
}

// PermittedValue reports whether value is one of permittedValues.
func PermittedValue[T comparable](value T, permittedValues ...T) bool {
	return slices.Contains(permittedValues, value)
}

// Err returns nil when no checks failed, otherwise an *Error carrying the
// collected field messages.
func (v *Validator) Err() error {
	if v.IsValid() {
		return nil
	}
	return &Error{Fields: maps.Clone(v.Errors)}
}

// Error is a failed validation. It unwraps to apperror.BadRequest so the
// client always sees a plain 400.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	parts := functional.Map(slices.Sorted(maps.Keys(e.Fields)), func(k string) string {
		return k + ": " + e.Fields[k]
	})
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return apperror.BadRequest
}
