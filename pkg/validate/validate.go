// Package validate checks request fields against declarative rule tables.
// Each entity declares a Rules map (presence, type, length/range bounds,
// pattern, enumeration); Check walks it and returns every violation rather
// than stopping at the first. Expected bad input never panics.
package validate

import (
	"fmt"
	"regexp"
	"sort"
)

// Kind is the expected type of a field value.
type Kind int

const (
	String Kind = iota
	Number
)

// Rule describes the constraints on a single field.
type Rule struct {
	Required bool
	Kind     Kind
	// MinLen/MaxLen bound string length; Min/Max bound numeric values.
	// A nil bound is unchecked.
	MinLen  *int
	MaxLen  *int
	Min     *float64
	Max     *float64
	Pattern *regexp.Regexp
	Enum    []string
	// AllowEmpty permits a present-but-empty string (e.g. optional remarks).
	AllowEmpty bool
}

// Rules maps field name to its rule.
type Rules map[string]Rule

// FieldError is a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of checking a field set.
type Result struct {
	Valid  bool
	Errors []FieldError
}

// First returns the first error message, or "" when valid. Handlers use it
// for the human-readable 400 body.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// IntPtr, FloatPtr are small helpers for building rule tables.
func IntPtr(v int) *int         { return &v }
func FloatPtr(v float64) *float64 { return &v }

// Check validates fields against rules. Fields not named in the rule table
// are ignored. Rule order in the result is deterministic (sorted by field).
func Check(fields map[string]interface{}, rules Rules) Result {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []FieldError
	for _, name := range names {
		rule := rules[name]
		value, present := fields[name]
		if !present || value == nil {
			if rule.Required {
				errs = append(errs, FieldError{name, fmt.Sprintf("%s is required", name)})
			}
			continue
		}
		switch rule.Kind {
		case String:
			errs = append(errs, checkString(name, rule, value)...)
		case Number:
			errs = append(errs, checkNumber(name, rule, value)...)
		}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func checkString(name string, rule Rule, value interface{}) []FieldError {
	s, ok := value.(string)
	if !ok {
		return []FieldError{{name, fmt.Sprintf("%s must be a string", name)}}
	}
	if s == "" {
		if rule.Required && !rule.AllowEmpty {
			return []FieldError{{name, fmt.Sprintf("%s must not be empty", name)}}
		}
		return nil
	}
	var errs []FieldError
	if rule.MinLen != nil && len(s) < *rule.MinLen {
		errs = append(errs, FieldError{name, fmt.Sprintf("%s must be at least %d characters", name, *rule.MinLen)})
	}
	if rule.MaxLen != nil && len(s) > *rule.MaxLen {
		errs = append(errs, FieldError{name, fmt.Sprintf("%s must be at most %d characters", name, *rule.MaxLen)})
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(s) {
		errs = append(errs, FieldError{name, fmt.Sprintf("%s has an invalid format", name)})
	}
	if len(rule.Enum) > 0 {
		found := false
		for _, allowed := range rule.Enum {
			if s == allowed {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, FieldError{name, fmt.Sprintf("%s must be one of the allowed values", name)})
		}
	}
	return errs
}

func checkNumber(name string, rule Rule, value interface{}) []FieldError {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	default:
		return []FieldError{{name, fmt.Sprintf("%s must be a number", name)}}
	}
	var errs []FieldError
	if rule.Min != nil && n < *rule.Min {
		errs = append(errs, FieldError{name, fmt.Sprintf("%s must be at least %v", name, *rule.Min)})
	}
	if rule.Max != nil && n > *rule.Max {
		errs = append(errs, FieldError{name, fmt.Sprintf("%s must be at most %v", name, *rule.Max)})
	}
	return errs
}

// SearchTerm reports whether q is usable as a name-search term: non-empty
// and free of the query metacharacters '&', '?' and '='.
func SearchTerm(q string) bool {
	if q == "" {
		return false
	}
	for _, r := range q {
		if r == '&' || r == '?' || r == '=' {
			return false
		}
	}
	return true
}

// Error adapts a failed Result to the error interface so services can
// return it across the repository/handler boundary.
type Error struct {
	Result Result
}

func (e *Error) Error() string { return e.Result.First() }

// NewError builds a single-field validation error.
func NewError(field, message string) *Error {
	return &Error{Result: Result{Errors: []FieldError{{Field: field, Message: message}}}}
}

// AsError returns res as an *Error when invalid, else nil.
func AsError(res Result) error {
	if res.Valid {
		return nil
	}
	return &Error{Result: res}
}
