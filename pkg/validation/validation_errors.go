package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single client-facing validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages.
// The validator walks struct fields in declaration order, so the output keeps that order.
func FormatValidationErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Field: "value", Message: err.Error()}}
	}

	messages := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) FieldError {
	field := e.Field()
	param := e.Param()

	var msg string
	switch e.Tag() {
	case "required":
		msg = fmt.Sprintf("%q is required", field)

	case "min":
		if e.Kind() == reflect.String {
			msg = fmt.Sprintf("%q length must be at least %s characters long", field, param)
		} else {
			msg = fmt.Sprintf("%q must be greater than or equal to %s", field, param)
		}

	case "max":
		if e.Kind() == reflect.String {
			msg = fmt.Sprintf("%q length must be less than or equal to %s characters long", field, param)
		} else {
			msg = fmt.Sprintf("%q must be less than or equal to %s", field, param)
		}

	case "email":
		msg = fmt.Sprintf("%q must be a valid email", field)

	case "oneof":
		msg = fmt.Sprintf("%q must be one of [%s]", field, strings.Join(strings.Fields(param), ", "))

	default:
		// Fallback for unknown tags
		msg = fmt.Sprintf("%q failed on the %q rule", field, e.Tag())
	}

	return FieldError{Field: field, Message: msg}
}

// FromDecodeError turns a JSON type mismatch into a field error. Syntax errors are not
// handled here: they are malformed bodies, not invalid submissions.
func FromDecodeError(err error) ([]FieldError, bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return nil, false
	}

	if typeErr.Field == "" {
		return []FieldError{{Field: "value", Message: `"value" must be of type object`}}, true
	}

	expected := "a string"
	if typeErr.Type != nil && typeErr.Type.Kind() != reflect.String {
		expected = "of type " + typeErr.Type.Kind().String()
	}
	return []FieldError{TypeMismatch(typeErr.Field, expected)}, true
}

// NullFields reports the members of a JSON object that are explicitly null, in the
// declaration order of target's fields. encoding/json leaves those fields untouched,
// which would otherwise read as "missing".
func NullFields(raw []byte, target interface{}) []FieldError {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil
	}

	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var out []FieldError
	for i := 0; i < t.NumField(); i++ {
		fld := t.Field(i)
		name := jsonFieldName(fld)
		if name == "" || !fld.IsExported() {
			continue
		}
		if v, ok := members[name]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			expected := "a string"
			if fld.Type.Kind() != reflect.String {
				expected = "of type " + fld.Type.Kind().String()
			}
			out = append(out, TypeMismatch(name, expected))
		}
	}
	return out
}

// TypeMismatch builds the error reported when a field carries the wrong JSON type.
func TypeMismatch(field, expected string) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("%q must be %s", field, expected)}
}

// Fields lists the failing field names, for logging.
func Fields(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}
