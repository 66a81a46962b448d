package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	apperrors "loyalty/internal/errors"
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// Validator defines validation methods
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator. The first error per field wins.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks if a value is not empty
func (v *Validator) Required(field string, value interface{}) {
	if value == nil {
		v.AddError(field, "must not be nil")
		return
	}

	switch val := value.(type) {
	case string:
		trimmed := strings.TrimSpace(val)
		v.Check(trimmed != "", field, "must not be empty")
	case int64:
		v.Check(val != 0, field, "must not be zero")
	case int:
		v.Check(val != 0, field, "must not be zero")
	case uint:
		v.Check(val != 0, field, "must not be zero")
	}
}

// MinLength checks if a string has at least n characters
func (v *Validator) MinLength(field string, value string, n int) {
	v.Check(len(value) >= n, field, fmt.Sprintf("must be at least %d characters long", n))
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// NonNegative checks an optional amount.
func (v *Validator) NonNegative(field string, value *int64) {
	if value != nil {
		v.Check(*value >= 0, field, "must not be negative")
	}
}

// Code checks a coupon code after normalization.
func (v *Validator) Code(field, code string) {
	v.MinLength(field, code, MinCodeLength)
	v.MaxLength(field, code, MaxCodeLength)
	v.Check(codeRegex.MatchString(code), field, "must contain only letters, digits, '-' or '_'")
}

// Err returns nil when valid, otherwise an invalid-input DomainError listing
// every failing field in a stable order.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	fields := make([]string, 0, len(v.Errors))
	for f := range v.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+v.Errors[f])
	}
	return apperrors.ErrInvalidCoupon.WithMessage("invalid coupon: %s", strings.Join(parts, "; "))
}
