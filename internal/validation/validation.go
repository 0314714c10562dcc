// Package validation turns raw request input into field errors before it reaches the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a request field to its validation messages
type FieldErrors map[string][]string

// Add records a message for field
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether at least one message was recorded
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// Error joins every message in field order
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var messages []string
	for _, field := range fields {
		messages = append(messages, e[field]...)
	}
	return strings.Join(messages, " ")
}

// RegisterTagNames makes binding errors report form/json names instead of Go field names
func RegisterTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// FromBinding converts an error from gin's ShouldBind into field errors.
// Errors that are not validation failures (malformed JSON, wrong types) come back under "body".
func FromBinding(err error) FieldErrors {
	fieldErrors := FieldErrors{}
	if err == nil {
		return fieldErrors
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrors.Add("body", "The request body is invalid.")
		return fieldErrors
	}

	for _, fe := range verrs {
		field := fe.Field()
		fieldErrors.Add(field, message(field, fe))
	}
	return fieldErrors
}

func message(field string, fe validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
