package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=4") // password minimum length
	}
}

// ToDetails converts validation/binding errors into a map[field]message
// suitable for the errors field of a 422 response.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "pwd", "min":
		switch kind {
		case reflect.String:
			return "must be at least " + minParam(tag, param) + " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			return "must contain at least " + minParam(tag, param) + " items"
		default:
			return "must be " + minParam(tag, param) + " or greater"
		}
	case "max":
		switch kind {
		case reflect.String:
			return "must be at most " + param + " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			return "must contain at most " + param + " items"
		default:
			return "must be " + param + " or less"
		}
	case "len":
		return "must have a length of " + param
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be " + param + " or greater"
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be " + param + " or less"
	case "oneof":
		return "must be one of: " + param
	case "eqfield":
		return "must match " + param
	default:
		if param != "" {
			return "failed validation: " + tag + "=" + param
		}
		return "failed validation: " + tag
	}
}

// minParam resolves the effective parameter for the pwd alias, whose
// underlying tag carries the value.
func minParam(tag, param string) string {
	if param != "" {
		return param
	}
	if tag == "pwd" {
		return "4"
	}
	return param
}
