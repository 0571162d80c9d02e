package changekit

import (
	"time"
)

// FieldOp is the type of change made to a record field
type FieldOp string

const (
	// FieldOpReplace indicates that a field value was replaced
	FieldOpReplace FieldOp = "replace"
	// FieldOpAdd indicates that a field value was added
	FieldOpAdd FieldOp = "add"
	// FieldOpRemove indicates that a field value was removed
	FieldOpRemove FieldOp = "remove"
)

// FieldChange is a change to a single record field
type FieldChange struct {
	Op          FieldOp `json:"op" validate:"required,oneof='replace' 'add' 'remove'"`
	Path        string  `json:"path" validate:"required"`
	Value       any     `json:"value,omitempty"`
	ValueBefore any     `json:"valueBefore,omitempty"`
}

// CDC is a change data capture event describing a committed mutation. Events
// broadcast to change stream consumers when their transaction commits - they
// are not persisted.
type CDC struct {
	ID         string        `json:"id" validate:"required"`
	Collection string        `json:"collection" validate:"required"`
	Action     Action        `json:"action" validate:"required,oneof='create' 'update' 'delete' 'set'"`
	RecordID   string        `json:"recordID" validate:"required"`
	Record     *Record       `json:"record" validate:"required"`
	Diff       []FieldChange `json:"diff" validate:"required"`
	Timestamp  time.Time     `json:"timestamp" validate:"required"`
	Metadata   *Metadata     `json:"metadata" validate:"required"`
}
