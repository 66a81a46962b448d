// Package errors defines the domain error taxonomy shared by the ledger,
// catalog and redemption services. Every business-rule failure is a
// *DomainError with a stable Code so clients can render specific guidance.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind groups error codes into the categories callers branch on.
type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindAlreadyExists        Kind = "already_exists"
	KindInvalidAmount        Kind = "invalid_amount"
	KindInvalidInput         Kind = "invalid_input"
	KindInsufficientBalance  Kind = "insufficient_balance"
	KindNotValidNow          Kind = "not_valid_now"
	KindBelowMinimum         Kind = "below_minimum"
	KindAboveMaximum         Kind = "above_maximum"
	KindInactive             Kind = "inactive"
	KindRedemptionCapReached Kind = "redemption_cap_reached"
	KindUnauthorized         Kind = "unauthorized"
	KindConflict             Kind = "conflict"
	KindStoreFailure         Kind = "store_failure"
)

// DomainError is the single error type returned across service boundaries.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code, so a wrapped or re-created error still compares equal
// to its sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// KindOf reports the Kind of err, or KindStoreFailure for anything that is
// not a DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindStoreFailure
}

// CodeOf reports the stable code of err.
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ErrStoreFailure.Code
}

// Retryable reports whether the caller may safely retry. Only store failures
// qualify; business-rule failures are not transient.
func Retryable(err error) bool {
	return err != nil && KindOf(err) == KindStoreFailure
}

// StoreFailure wraps a durable-store error.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return err
	}
	return &DomainError{
		Kind:    KindStoreFailure,
		Code:    ErrStoreFailure.Code,
		Message: fmt.Sprintf("%s failed", op),
		Err:     err,
	}
}

var (
	ErrStoreFailure = &DomainError{
		Kind:    KindStoreFailure,
		Code:    "STORE_FAILURE",
		Message: "storage temporarily unavailable",
	}
	ErrUnauthorized = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: "actor is not allowed to perform this operation",
	}
	ErrMissingReference = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "MISSING_REFERENCE",
		Message: "a payment reference is required",
	}
	ErrReferenceConflict = &DomainError{
		Kind:    KindConflict,
		Code:    "REFERENCE_CONFLICT",
		Message: "reference already used for a different operation",
	}
)
