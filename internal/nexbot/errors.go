package nexbot

import (
	"errors"
	"fmt"
)

// ErrNoHandle means the sending chat participant has no username configured.
// No provisioning happens; the user is told to set one.
var ErrNoHandle = errors.New("sender has no username")

// ErrNoSender means the platform delivered a message without sender identity.
var ErrNoSender = errors.New("sender information unavailable")

// ValidationError rejects user input before any write happens.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// DeliveryError means a private-channel send failed after any identity or
// project writes already committed. Those writes are not rolled back;
// credentials are re-fetchable once a private session exists.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("private delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// PersistenceError means the store rejected an operation. The user gets a
// generic failure reply; the core does not retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
