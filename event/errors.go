package event

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotInitialized is returned when the registry is used before InitializeThreading
	ErrNotInitialized = errors.New("event registry not initialized")

	// ErrAlreadyInitialized is returned by a second InitializeThreading call
	ErrAlreadyInitialized = errors.New("event registry already initialized")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("event registry closed")

	// ErrHandlerPanic wraps a recovered handler panic
	ErrHandlerPanic = errors.New("event handler panicked")
)

// HandlerFailure is one failed or skipped subscriber of a dispatch pass
type HandlerFailure struct {
	Subscription Subscription
	Err          error
}

// PartialDispatchError aggregates subscriber failures of one dispatch pass
// Every subscriber in the snapshot was attempted unless the pass deadline expired
type PartialDispatchError struct {
	Type        EventType
	Subscribers int // snapshot size of the pass
	Failures    []HandlerFailure
}

func (e *PartialDispatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dispatch %s: %d of %d subscriber(s) failed", e.Type, len(e.Failures), e.Subscribers)
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; #%d: %v", f.Subscription.id, f.Err)
	}
	return b.String()
}

// Unwrap exposes the individual handler errors to errors.Is/As
func (e *PartialDispatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Failed reports whether sub is among the failures
func (e *PartialDispatchError) Failed(sub Subscription) bool {
	for _, f := range e.Failures {
		if f.Subscription == sub {
			return true
		}
	}
	return false
}
