package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingRequiredField      = errors.New("missing required field")
	ErrInvalidAddressFormat      = errors.New("invalid address format")
	ErrInconsistentNetworkConfig = errors.New("inconsistent network config")
	ErrInvalidPort               = errors.New("invalid port")
	ErrInvalidTopicFormat        = errors.New("invalid topic format")
	ErrInvalidSecretFormat       = errors.New("invalid secret format")
)

// FieldError ties a validation failure to the field that caused it. Value is
// left empty for secret fields.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationError aggregates every FieldError found while building a Store.
type ValidationError struct {
	Errors []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	noun := "errors"
	if len(msgs) == 1 {
		noun = "error"
	}
	return fmt.Sprintf("config: %d validation %s: %s", len(msgs), noun, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures so errors.Is and errors.As see
// through the aggregate.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}
	return errs
}

// Fields lists the names of the failing fields in the order they were checked.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fields
}
