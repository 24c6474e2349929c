package field

import (
	"errors"
	"fmt"
)

// ErrFieldInactive is returned when an operation is attempted on a field that
// has not been activated or has already been torn down.
var ErrFieldInactive = errors.New("field is not active")

// DuplicateResourceError is returned by Field.AddResource when a resource of
// the same name is already a member of the field.
type DuplicateResourceError struct {
	Field    string
	Resource string
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("resource %q already exists in field %q", e.Resource, e.Field)
}

// NotMemberError is returned by relationship operations referencing a
// resource that is not a member of the field.
type NotMemberError struct {
	Field    string
	Resource string
}

func (e *NotMemberError) Error() string {
	return fmt.Sprintf("resource %q is not a member of field %q", e.Resource, e.Field)
}

// ResourceLockedError is surfaced by adapters (and Field.UnlockResource
// callers) when a resource is held by another party.
type ResourceLockedError struct {
	Resource string
	Holder   string
}

func (e *ResourceLockedError) Error() string {
	return fmt.Sprintf("resource %q is locked by %q", e.Resource, e.Holder)
}

// ResourceStateError is surfaced when a resource is in no state to carry out
// an operation, most commonly because it has no owning field.
type ResourceStateError struct {
	Resource string
	Reason   string
}

func (e *ResourceStateError) Error() string {
	return fmt.Sprintf("resource %q: %s", e.Resource, e.Reason)
}
