package utils

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapta o go-playground/validator para a interface
// echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func NewValidator(v *validator.Validate) *Validator {
	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
