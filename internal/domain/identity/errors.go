package identity

import (
	"errors"
	"fmt"
)

var (
	ErrConflict       = errors.New("already exists")
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrUnguardedField = errors.New("field has no uniqueness guard")
)

// ConflictError reports which natural key collided.
type ConflictError struct {
	Entity Entity
	Field  string
	Value  any
}

func (e *ConflictError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
	}
	return fmt.Sprintf("%s with %s %v already exists", e.Entity, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func NewConflict(entity Entity, field string, value any) error {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}
