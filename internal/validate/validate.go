// Package validate is a thin wrapper around go-playground/validator
// sharing one validator instance across the application.
package validate

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns the process-wide validator singleton.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInst
}

// Struct validates a struct's `validate` tags.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
