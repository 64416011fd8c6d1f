// Package validate implements declarative validation of request arguments.
// A method declares its arguments as a list of field descriptors bound to a
// typed argument bag; Fields walks the descriptors against the raw argument
// mapping and either fills the bag or reports every failing field at once.
package validate

import (
	"fmt"
	"strings"
)

// Reason classifies why a field failed validation.
type Reason int

const (
	// ReasonMissing means a required key is absent from the input.
	ReasonMissing Reason = iota
	// ReasonEmpty means the value is the type's empty form and the field
	// does not tolerate emptiness.
	ReasonEmpty
	// ReasonFormat means the value does not satisfy the declared type or format.
	ReasonFormat
)

// FieldError describes one failed field.
type FieldError struct {
	Field  string
	Reason Reason
	Detail string
}

func (fe FieldError) Error() string {
	return fe.Field + ": " + fe.Detail
}

// Errors aggregates failures across fields of a single request.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// CrossFieldError is a requirement spanning multiple fields, checked by a
// method after all individual fields have passed.
type CrossFieldError string

func (e CrossFieldError) Error() string {
	return string(e)
}

// Rule checks the format of a raw value and stores the typed result into the
// argument bag location it was constructed with. Set is only called for
// values which are present and not the type's empty form.
type Rule interface {
	// Empty reports whether raw is the empty form of the rule's type.
	Empty(raw interface{}) bool
	// Set validates raw and stores the typed value.
	Set(raw interface{}) error
}

// Field is a declarative rule for one argument.
type Field struct {
	// Argument name as it appears on the wire.
	Name string
	// Required means the key must be present in the input. Emptiness of the
	// value is tolerated independently, controlled by Nullable.
	Required bool
	// Nullable means an empty value (null, "", [], {}) passes validation.
	Nullable bool
	// Rule is the type/format validator bound to the bag.
	Rule Rule
}

// Fields applies the descriptors to the raw argument mapping. Unknown keys in
// args are ignored. A key present with a null or empty value counts as
// "present but empty", distinct from "absent". Failures do not short-circuit
// across fields: the returned Errors lists every failing field.
func Fields(fields []Field, args map[string]interface{}) error {
	var errs Errors
	for _, f := range fields {
		raw, present := args[f.Name]
		if !present {
			if f.Required {
				errs = append(errs, FieldError{f.Name, ReasonMissing, "required field is missing"})
			}
			continue
		}
		if raw == nil || f.Rule.Empty(raw) {
			if !f.Nullable {
				errs = append(errs, FieldError{f.Name, ReasonEmpty, "value is empty"})
			}
			// Present but empty: the bag location stays unset.
			continue
		}
		if err := f.Rule.Set(raw); err != nil {
			errs = append(errs, FieldError{f.Name, ReasonFormat, err.Error()})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// asString extracts a JSON string.
func asString(raw interface{}) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("must be a string, got %T", raw)
	}
	return s, nil
}
