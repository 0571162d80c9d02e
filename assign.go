package changekit

import (
	"github.com/autom8ter/changekit/errors"
)

// FieldTarget is a destination for field assignment
type FieldTarget interface {
	// FieldDef returns the definition of the named field
	FieldDef(name string) (FieldDef, bool)
	// SetField sets a field to a value already matching the field's kind
	SetField(name string, value any) error
}

// applyValues assigns the given values to the target in order
func applyValues(target FieldTarget, vals Values) error {
	for _, val := range vals {
		if err := applyValue(target, val); err != nil {
			return err
		}
	}
	return nil
}

// applyValue assigns a single value to the target, coercing it into the
// field's kind. A nested value materializes a blank nested record - fields
// the value omits reset to their defaults.
func applyValue(target FieldTarget, val Value) error {
	def, ok := target.FieldDef(val.Name)
	if !ok {
		return errors.New(errors.UnknownField, "unknown field: %s", val.Name)
	}
	nested, isNested := nestedValues(val)
	if isNested {
		if def.Kind != KindObject {
			return errors.New(errors.UnsupportedFieldType, "field %s: nested values do not match kind %s", val.Name, def.Kind)
		}
		record := newRecord(def.Fields)
		if err := applyValues(record, nested); err != nil {
			return errors.Wrap(err, 0, "field %s", val.Name)
		}
		return target.SetField(val.Name, record)
	}
	coerced, err := coerceValue(def, val.Scalar)
	if err != nil {
		return err
	}
	return target.SetField(val.Name, coerced)
}

// nestedValues returns the value's nested values - a scalar map is treated as
// a nested value
func nestedValues(val Value) (Values, bool) {
	if val.IsNested() {
		return val.Nested, true
	}
	if m, ok := val.Scalar.(map[string]any); ok {
		return valuesFromMap(m), true
	}
	return nil, false
}
