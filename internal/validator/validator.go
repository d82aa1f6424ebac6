// Package validator collects field-level validation errors into a map,
// letting callers run every check before deciding a request is bad.
package validator

import (
	"regexp"
)

// EmailRX is a permissive pattern for email sanity checking.
var EmailRX = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// Validator holds field validation errors keyed by field name.
type Validator struct {
	Errors map[string]string
}

// New creates a Validator with an empty error map.
func New() *Validator {
	return &Validator{
		Errors: make(map[string]string),
	}
}

// Valid returns true if no errors were recorded.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records an error for a field, keeping the first message only.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check records an error when the condition does not hold.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// In returns true if value appears in the list.
func In(value string, list ...string) bool {
	for i := range list {
		if value == list[i] {
			return true
		}
	}
	return false
}

// Matches returns true if value matches the pattern.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}
