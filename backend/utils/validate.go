package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags over a request payload and returns
// field-level messages in the shape ValidationError renders, or nil when
// the payload is valid.
func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errs[field] = "this field is required"
		case "email":
			errs[field] = "must be a valid email address"
		case "min":
			errs[field] = fmt.Sprintf("must be at least %s", fe.Param())
		case "gte":
			errs[field] = fmt.Sprintf("must be at least %s", fe.Param())
		default:
			errs[field] = fmt.Sprintf("failed %s validation", fe.Tag())
		}
	}
	return errs
}
