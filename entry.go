package changekit

import (
	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/util"
)

// Action is the kind of mutation a modification carries
type Action string

const (
	// CreateAction creates a new record
	CreateAction Action = "create"
	// DeleteAction removes the record matching the modification key(s)
	DeleteAction Action = "delete"
	// UpdateAction merges the modification's values into the record matching
	// the modification key(s)
	UpdateAction Action = "update"
	// SetAction fully replaces the record matching the modification key(s) -
	// fields it omits reset to their defaults
	SetAction Action = "set"
)

// Modification is a single protocol neutral mutation against a collection
type Modification struct {
	// Collection is the collection the modification targets
	Collection string `json:"collection" validate:"required"`
	// Action is the kind of mutation
	Action Action `json:"action" validate:"required"`
	// Key identifies the record the modification targets - every key value
	// must match exactly one record
	Key Values `json:"key,omitempty"`
	// Values are the field values the modification carries
	Values Values `json:"values,omitempty"`

	record *Record
}

// IsCreate returns true for create modifications
func (m *Modification) IsCreate() bool {
	return m.Action == CreateAction
}

// IsDelete returns true for delete modifications
func (m *Modification) IsDelete() bool {
	return m.Action == DeleteAction
}

// IsUpdate returns true for update modifications
func (m *Modification) IsUpdate() bool {
	return m.Action == UpdateAction
}

// IsSet returns true for set modifications
func (m *Modification) IsSet() bool {
	return m.Action == SetAction
}

// Validate checks the modification's shape
func (m *Modification) Validate() error {
	if err := util.ValidateStruct(m); err != nil {
		return err
	}
	switch m.Action {
	case DeleteAction, UpdateAction, SetAction:
		if len(m.Key) == 0 {
			return errors.New(errors.Validation, "%s modifications require at least one key value", m.Action)
		}
	}
	return nil
}

// ApplyTo appends the modification's key values to the query as equality
// clauses
func (m *Modification) ApplyTo(query Query) Query {
	for _, k := range m.Key {
		query.Where = append(query.Where, Where{Field: k.Name, Op: WhereOpEq, Value: k.Scalar})
	}
	return query
}

// Record returns the record the modification produced - nil until the
// modification has been applied
func (m *Modification) Record() *Record {
	return m.record
}

// setRecord stores the modification's result - the slot is write once
func (m *Modification) setRecord(record *Record) {
	if m.record == nil {
		m.record = record
	}
}

// ChangeSet is an ordered list of modifications applied as a unit
type ChangeSet struct {
	// Modifications are applied strictly in order - later modifications see
	// the staged effects of earlier ones
	Modifications []*Modification `json:"modifications" validate:"required,min=1,dive"`
	// Metadata is attached to every command the change set produces
	Metadata *Metadata `json:"metadata,omitempty"`
}
