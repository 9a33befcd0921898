// Package apperr provides the coded errors shared by the workflow components.
//
// Every failure that can reach the user is one of four kinds. Components catch
// errors at their own boundary and surface UserMessage; nothing is retried
// automatically.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for display and recovery.
type Kind string

const (
	// KindInput is a missing or invalid user input. No network call was made.
	KindInput Kind = "INPUT_REQUIRED"
	// KindGateway is a transport, timeout or non-2xx failure of the generation backend.
	KindGateway Kind = "GATEWAY_FAILED"
	// KindMalformed is a backend response that does not have the expected shape.
	KindMalformed Kind = "RESPONSE_MALFORMED"
	// KindStorage is a read or write failure of the local store.
	KindStorage Kind = "STORAGE_FAILED"
)

// Error is a coded application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same action may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindGateway || e.Kind == KindMalformed
}

func Input(message string) *Error {
	return &Error{Kind: KindInput, Message: message}
}

func Gateway(message string, err error) *Error {
	return &Error{Kind: KindGateway, Message: message, Err: err}
}

func Malformed(message string, err error) *Error {
	return &Error{Kind: KindMalformed, Message: message, Err: err}
}

func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// KindOf returns the kind of the first coded error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage is the text shown next to the component that issued the call.
// Backend failures collapse into one generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return "Something went wrong. Please try again."
	}
	switch e.Kind {
	case KindInput:
		return e.Message
	case KindStorage:
		return "Your progress could not be saved; it will be kept for this session only."
	default:
		return "Something went wrong with the AI request. Please try again."
	}
}
