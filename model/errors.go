package model

import (
	"errors"
	"fmt"
)

// Kind is the coarse failure class callers branch on.
type Kind string

const (
	KindInvalidInput        Kind = "invalidInput"
	KindResourceUnavailable Kind = "resourceUnavailable"
	KindResourceIncomplete  Kind = "resourceIncomplete"
	KindComputeFailure      Kind = "computeFailure"
	KindCanceled            Kind = "canceled"
	KindSetupNotDone        Kind = "setupNotDone"
	KindUnknown             Kind = "unknown"
)

// Error is the tagged failure returned by every public entry point.
type Error struct {
	Kind    Kind
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Code, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Code, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds an error whose kind is derived from code.
func NewError(code Code, op, messagef string, args ...interface{}) *Error {
	return &Error{
		Kind:    code.Kind(),
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(messagef, args...),
	}
}

// WrapError attaches code to err unless err already carries a typed Error,
// in which case the typed error is returned as is.
func WrapError(code Code, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    code.Kind(),
		Code:    code,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

// KindOf returns the kind of the first typed error in err's chain.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}

// CodeOf returns the code of the first typed error in err's chain.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return CodeUnknown
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
