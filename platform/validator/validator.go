// Package validator wraps go-playground/validator behind a small injectable
// type so handlers validate request DTOs without touching the library
// directly.
package validator

import "github.com/go-playground/validator/v10"

// Validator validates structs against their `validate` tags.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the default tag-based rule set.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates a struct based on its validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}
