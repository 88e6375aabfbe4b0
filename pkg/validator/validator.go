// Package validator runs the model structs' validate tags and turns failures
// into messages fit for an API response, so handlers never leak raw tag names.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError is one failed constraint on a model field. It implements error;
// the message names the field in its JSON casing and phrases the bound the way
// the response should read.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required", "uuid_required":
		return fmt.Sprintf("%s is required", e.Field)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", e.Field, e.Param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field, e.Param)
	case "lte":
		return fmt.Sprintf("%s must not exceed %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field, e.Param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	}
	return fmt.Sprintf("%s is invalid", e.Field)
}

var validate = validator.New()

func init() {
	// uuid.UUID zero value is not caught by "required"; models tag foreign
	// keys with uuid_required instead.
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
}

// ValidateStruct checks every tagged field and returns one FieldError per
// failed constraint, in declaration order.
func ValidateStruct(data interface{}) []*FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var errs []*FieldError
	for _, ve := range err.(validator.ValidationErrors) {
		errs = append(errs, &FieldError{
			Field: strings.ToLower(ve.Field()),
			Tag:   ve.Tag(),
			Param: ve.Param(),
		})
	}
	return errs
}
