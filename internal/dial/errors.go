package dial

import (
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned by On for event names other than set/change.
var ErrUnknownEvent = errors.New("dial: unknown event")

// ConfigurationError reports an invalid construction option.
type ConfigurationError struct {
	// Field is the option name (e.g. "min", "radius").
	Field string
	// Value is the rejected value.
	Value any
	// Reason says what the option must satisfy.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dial: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// InvalidMountError reports a host that cannot carry a dial: no renderer, no
// scheduler, or a renderer that refused the mount.
type InvalidMountError struct {
	Reason string
	Err    error
}

func (e *InvalidMountError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dial: invalid mount: %s: %v", e.Reason, e.Err)
	}
	return "dial: invalid mount: " + e.Reason
}

func (e *InvalidMountError) Unwrap() error {
	return e.Err
}

// ObserverPanicError is reported when an observer panics during delivery.
type ObserverPanicError struct {
	Event      Event
	Value      float64
	Recovered  any
	StackTrace string
}

func (e *ObserverPanicError) Error() string {
	return fmt.Sprintf("dial: %s observer panicked at value %g: %v", e.Event, e.Value, e.Recovered)
}

// Unwrap exposes the panic value when it was an error.
func (e *ObserverPanicError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}
