package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report violations under the wire name, not the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}

// Validate checks struct fields and returns a field->rule map of
// violations, or nil when the value passes.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Tag()
	}
	return errors
}
