package render

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(useJSONTagNames)
	return v
}

// Report fields by 'json' tag name instead of struct field name
func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// User friendly message for failed validation tag
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "Value must not be blank"
	case "email":
		return "Value must be a valid email address"
	case "min":
		return "Value is too short (minimum " + fe.Param() + ")"
	case "gte":
		return "Value must be greater than or equal to " + fe.Param()
	case "max":
		return "Value is too long (maximum " + fe.Param() + ")"
	default:
		return "Invalid value"
	}
}
