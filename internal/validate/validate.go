// Package validate implements required-field checks and merge-patch helpers
// shared by the request handlers.
package validate

import (
	"strings"

	"github.com/farmwise/backend/pkg/apperr"
)

// Check is the result of testing one required field.
type Check struct {
	Name string
	OK   bool
}

// Set passes when v was supplied.
func Set[T any](name string, v *T) Check {
	return Check{Name: name, OK: v != nil}
}

// NonBlank passes when s was supplied and is not only whitespace.
func NonBlank(name string, s *string) Check {
	return Check{Name: name, OK: s != nil && strings.TrimSpace(*s) != ""}
}

// Required returns a BadRequest naming every failed check, or nil.
func Required(checks ...Check) error {
	if missing := failed(checks); len(missing) > 0 {
		return apperr.MissingFields(missing...)
	}
	return nil
}

// Kept passes when s was omitted or is not only whitespace. Updates use it for
// fields that create requires.
func Kept(name string, s *string) Check {
	return Check{Name: name, OK: s == nil || strings.TrimSpace(*s) != ""}
}

// NotBlank returns a BadRequest naming every supplied field that is blank, or nil.
func NotBlank(checks ...Check) error {
	if bad := failed(checks); len(bad) > 0 {
		return apperr.BadRequest("fields cannot be blank: " + strings.Join(bad, ", "))
	}
	return nil
}

func failed(checks []Check) []string {
	var names []string
	for _, c := range checks {
		if !c.OK {
			names = append(names, c.Name)
		}
	}
	return names
}

// Patch copies *src into *dst when src was supplied. Omitted fields keep their stored value.
func Patch[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
