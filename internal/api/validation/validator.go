// Package validation checks request DTOs against their struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

// Validator wraps a shared validator instance that reports JSON field names.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return &Validator{validate: v}
}

// Struct validates s and converts the first failure into a BadRequest error.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewBadRequest("Bad Request. Invalid payload")
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.NewBadRequest(fmt.Sprintf("Bad Request. Field (%s) cannot be empty", fe.Field()))
	case "email":
		return apperrors.NewBadRequest(fmt.Sprintf("Bad Request. Field (%s) must be a valid email", fe.Field()))
	case "oneof":
		return apperrors.NewBadRequest(fmt.Sprintf("Bad Request. Field (%s) must be one of [%s]", fe.Field(), fe.Param()))
	case "min", "gte":
		return apperrors.NewBadRequest(fmt.Sprintf("Bad Request. Field (%s) must be at least %s", fe.Field(), fe.Param()))
	case "max", "lte":
		return apperrors.NewBadRequest(fmt.Sprintf("Bad Request. Field (%s) must be at most %s", fe.Field(), fe.Param()))
	}
	return apperrors.NewBadRequest(fmt.Sprintf("Bad Request. Field (%s) is invalid", fe.Field()))
}
