package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the module. Repository implementations map
// driver-level failures onto these so callers can errors.Is without knowing
// the backend.
var (
	// ErrNotFound no row matched
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate a unique constraint rejected the write
	ErrDuplicate = errors.New("duplicate record")

	// ErrRestricted a delete-restrict foreign key rejected the delete
	ErrRestricted = errors.New("record is referenced and cannot be deleted")

	// ErrInvalidInput the caller supplied data the schema cannot hold
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTransition the subscription state machine forbids the move
	ErrInvalidTransition = errors.New("invalid status transition")
)

// NotFoundError carries the entity and id that were looked up.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// DuplicateError carries the entity and conflicting field/value pair.
type DuplicateError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s '%s' already exists", e.Entity, e.Field, e.Value)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// NewDuplicateError creates a DuplicateError.
func NewDuplicateError(entity, field, value string) *DuplicateError {
	return &DuplicateError{Entity: entity, Field: field, Value: value}
}

// RestrictedError reports a delete blocked by a referencing row.
type RestrictedError struct {
	Entity string
	ID     string
}

func (e *RestrictedError) Error() string {
	return fmt.Sprintf("%s with ID %s is still referenced", e.Entity, e.ID)
}

func (e *RestrictedError) Is(target error) bool {
	return target == ErrRestricted
}

// NewRestrictedError creates a RestrictedError.
func NewRestrictedError(entity, id string) *RestrictedError {
	return &RestrictedError{Entity: entity, ID: id}
}

// TransitionError reports a forbidden subscription status change.
type TransitionError struct {
	From SubscriptionStatus
	To   SubscriptionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition subscription from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
