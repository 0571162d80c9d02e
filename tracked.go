package changekit

import (
	"github.com/autom8ter/changekit/errors"
)

// Tracked is a handle to an existing record attached to a transaction.
// Writes through the handle apply to the record immediately and are buffered
// for the transaction to flush as a single merge.
type Tracked struct {
	typ   *EntityType
	rec   *Record
	dirty Values
}

func newTracked(typ *EntityType, rec *Record) *Tracked {
	return &Tracked{typ: typ, rec: rec}
}

// Collection returns the collection the tracked record belongs to
func (t *Tracked) Collection() string {
	return t.typ.Collection()
}

// Record returns the tracked record
func (t *Tracked) Record() *Record {
	return t.rec
}

// FieldDef returns the definition of the named field
func (t *Tracked) FieldDef(name string) (FieldDef, bool) {
	return t.typ.FieldDef(name)
}

// IsDirty returns true if the handle holds unflushed writes
func (t *Tracked) IsDirty() bool {
	return len(t.dirty) > 0
}

// SetField sets a field to a value already matching the field's kind.
// Immutable and primary key fields reject writes.
func (t *Tracked) SetField(name string, value any) error {
	def, ok := t.typ.FieldDef(name)
	if !ok {
		return errors.New(errors.UnknownField, "unknown field: %s", name)
	}
	if def.Immutable {
		return errors.New(errors.Forbidden, "field %s is immutable", name)
	}
	if def.Primary {
		return errors.New(errors.Forbidden, "field %s is the primary key", name)
	}
	if err := t.rec.SetField(name, value); err != nil {
		return err
	}
	t.dirty = append(t.dirty, NewValue(name, value))
	return nil
}

// Set sets a field value, coercing it into the field's kind
func (t *Tracked) Set(name string, value any) error {
	return applyValue(t, NewValue(name, value))
}

// SetAll sets the given values in order
func (t *Tracked) SetAll(vals Values) error {
	return applyValues(t, vals)
}

// Property returns a handle to a single field of the tracked record
func (t *Tracked) Property(name string) (*Property, error) {
	def, ok := t.typ.FieldDef(name)
	if !ok {
		return nil, errors.New(errors.UnknownField, "unknown field: %s", name)
	}
	return &Property{tracked: t, def: def}, nil
}

// Property is a handle to a single field of a tracked record
type Property struct {
	tracked *Tracked
	def     FieldDef
}

// Def returns the field's definition
func (p *Property) Def() FieldDef {
	return p.def
}

// Current returns the field's current value
func (p *Property) Current() any {
	return p.tracked.Record().Get(p.def.Name)
}

// Set sets the field's value, coercing it into the field's kind
func (p *Property) Set(value any) error {
	return p.tracked.Set(p.def.Name, value)
}
