package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// EditStatus is the lifecycle state of an optimistic edit.
type EditStatus string

const (
	EditQueued     EditStatus = "queued"
	EditPending    EditStatus = "pending"
	EditCommitted  EditStatus = "committed"
	EditRolledBack EditStatus = "rolledback"
	EditDiscarded  EditStatus = "discarded"
)

func (s EditStatus) String() string { return string(s) }

// IsResolved reports whether the edit has reached a terminal state.
func (s EditStatus) IsResolved() bool {
	switch s {
	case EditCommitted, EditRolledBack, EditDiscarded:
		return true
	}
	return false
}

// Field names of per-entity state that optimistic edits target.
const (
	FieldLike = "like"
	FieldSave = "save"
	FieldVote = "vote"

	// FieldInbox covers every read and delete edit of a viewer's inbox.
	FieldInbox = "inbox"
)

// EditKey identifies the (entity, field) pair an optimistic edit targets.
// At most one edit per key is pending at a time.
type EditKey struct {
	EntityID uuid.UUID
	Field    string
}

func (k EditKey) String() string {
	return fmt.Sprintf("%s/%s", k.EntityID, k.Field)
}

// OptimisticEdit is the observable record of one local change awaiting remote confirmation.
type OptimisticEdit struct {
	Key           EditKey
	PreviousValue any
	PendingValue  any
	Status        EditStatus
	Err           error
}
