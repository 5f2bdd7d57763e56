package swizzle

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a selector has no implementation on a
	// class or any of its ancestors.
	ErrNotFound = errors.New("method not found")

	// ErrDoesNotRespond is returned when a message is sent to a receiver
	// that has no implementation for the selector.
	ErrDoesNotRespond = errors.New("does not respond to selector")

	// ErrSignatureMismatch is returned when two implementations cannot be
	// exchanged because their signatures differ.
	ErrSignatureMismatch = errors.New("method signatures do not match")

	// ErrBadImplementation is returned when an implementation is not a
	// function taking *Object as its first parameter.
	ErrBadImplementation = errors.New("invalid method implementation")

	// ErrBadArguments is returned when a message's arguments don't fit the
	// implementation's parameters.
	ErrBadArguments = errors.New("invalid message arguments")

	// ErrMethodExists is returned by AddMethod when the class already
	// defines the selector itself.
	ErrMethodExists = errors.New("method already defined")

	// ErrProtocolNotSatisfied is returned when a class adopts a protocol
	// without implementing all of its selectors.
	ErrProtocolNotSatisfied = errors.New("protocol not satisfied")

	// ErrNoTarget is returned when a proxy forwards a message but its target
	// is nil or has been collected. It also matches ErrDoesNotRespond.
	ErrNoTarget error = noTargetError{}
)

type noTargetError struct{}

func (noTargetError) Error() string {
	return "proxy has no target"
}

func (noTargetError) Is(target error) bool {
	return target == ErrDoesNotRespond
}

// MessageError describes a message that could not be delivered.
type MessageError struct {
	// Class is the name of the receiver's class, or "nil" for a proxy
	// without a target.
	Class    string
	Selector Selector
	Err      error
}

func (e *MessageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Class, e.Selector, e.Err)
}

func (e *MessageError) Unwrap() error {
	return e.Err
}
