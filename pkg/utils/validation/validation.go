package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")
)

// emailPattern is deliberately loose: something@something.tld with no spaces.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// Field is a named input value, kept in the order the form declares it.
type Field struct {
	Name  string
	Value string
}

// RequiredFields returns one FieldError per blank field.
func RequiredFields(fields ...Field) []FieldError {
	var errs []FieldError
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			errs = append(errs, FieldError{Field: f.Name, Msg: "required"})
		}
	}
	return errs
}

// Email checks s against the address pattern.
func Email(s string) error {
	if !emailPattern.MatchString(s) {
		return ErrInvalidEmail
	}
	return nil
}

// Fields flattens validation errors into the problem map shape used by handlers.
func Fields(errs []FieldError) map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for _, fe := range errs {
		out[fe.Field] = append(out[fe.Field], fe.Msg)
	}
	return out
}
