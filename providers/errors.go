// Package providers defines the error types shared by the voice, assets and
// timestamps provider families.
package providers

import (
	"errors"
	"fmt"
)

// Error describes a failure inside a concrete provider backend.
type Error struct {
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrUnavailable marks a provider that cannot serve requests (missing
// credentials, network failure). Fallback wrappers treat it as a signal to
// degrade, never as a caller-visible failure.
var ErrUnavailable = errors.New("provider unavailable")

// Unavailable builds a provider-unavailable error with a reason.
func Unavailable(provider, reason string) error {
	return &Error{Provider: provider, Message: reason, Err: ErrUnavailable}
}

// Errorf builds a provider error with a formatted message.
func Errorf(provider, format string, args ...any) error {
	return &Error{Provider: provider, Message: fmt.Sprintf(format, args...)}
}
