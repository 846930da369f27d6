package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// Validator wraps the go-playground validator and reports failures as
// validation DomainErrors keyed by JSON field name.
type Validator struct {
	validator *validator.Validate
}

// New creates a validator that names fields by their json tag.
func New() *Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validator: validate}
}

// Validate checks a struct. The returned error is a 400 DomainError whose
// details map each failing field to a message.
func (v *Validator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return apperrors.NewValidationError("validation failed", fieldMessages(verrs))
}

func fieldMessages(errs validator.ValidationErrors) map[string]any {
	out := make(map[string]any, len(errs))
	for _, err := range errs {
		field := fieldPath(err)
		switch err.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "email":
			out[field] = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			if err.Kind() == reflect.String {
				out[field] = fmt.Sprintf("%s must be at least %s characters long", field, err.Param())
			} else {
				out[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
			}
		case "max":
			if err.Kind() == reflect.String {
				out[field] = fmt.Sprintf("%s must be at most %s characters long", field, err.Param())
			} else {
				out[field] = fmt.Sprintf("%s must be at most %s", field, err.Param())
			}
		case "gte":
			out[field] = fmt.Sprintf("%s must be %s or more", field, err.Param())
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		case "url":
			out[field] = fmt.Sprintf("%s must be a valid URL", field)
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace, so nested
// fields read "shippingAddress.city".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}
