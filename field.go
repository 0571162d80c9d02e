package changekit

import (
	"time"

	"github.com/autom8ter/changekit/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// FieldDef describes a single field of an entity type
type FieldDef struct {
	// Name is the field's name
	Name string `json:"name" validate:"required"`
	// Description is an optional human readable description of the field
	Description string `json:"description,omitempty"`
	// Kind is the type of value the field holds
	Kind Kind `json:"kind" validate:"required,oneof=string integer float boolean enum datetime date time duration object"`
	// Primary marks the field as the collection's primary key - exactly one field must be primary
	Primary bool `json:"primary,omitempty"`
	// Required makes an empty value fail record validation
	Required bool `json:"required,omitempty"`
	// Immutable rejects writes to the field on existing records
	Immutable bool `json:"immutable,omitempty"`
	// Default overrides the kind's zero value on new records
	Default any `json:"default,omitempty"`
	// Values are the members of an enum field - order matters, the first member is the field's default
	Values []string `json:"values,omitempty"`
	// Fields are the nested fields of an object field
	Fields []FieldDef `json:"fields,omitempty" validate:"dive"`
}

func lookupField(fields []FieldDef, name string) (FieldDef, bool) {
	return lo.Find(fields, func(f FieldDef) bool {
		return f.Name == name
	})
}

// normalize checks kind specific constraints and casts the declared default
// to the kind's canonical representation
func (f *FieldDef) normalize() error {
	switch f.Kind {
	case KindEnum:
		if len(f.Values) == 0 {
			return errors.New(errors.Validation, "enum field %s requires at least one member", f.Name)
		}
	case KindObject:
		if len(f.Fields) == 0 {
			return errors.New(errors.Validation, "object field %s requires nested fields", f.Name)
		}
		if f.Default != nil {
			return errors.New(errors.Validation, "object field %s cannot declare a default", f.Name)
		}
		for i := range f.Fields {
			if err := f.Fields[i].normalize(); err != nil {
				return errors.Wrap(err, 0, "field %s", f.Name)
			}
		}
	}
	if f.Default != nil {
		def, err := f.castDefault(f.Default)
		if err != nil {
			return err
		}
		f.Default = def
	}
	return nil
}

func (f *FieldDef) castDefault(value any) (any, error) {
	switch f.Kind {
	case KindString:
		v, err := cast.ToStringE(value)
		return v, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
	case KindEnum:
		v, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
		}
		return coerceValue(*f, v)
	case KindInteger:
		v, err := cast.ToInt64E(value)
		return v, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
	case KindFloat:
		v, err := cast.ToFloat64E(value)
		return v, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
	case KindBoolean:
		v, err := cast.ToBoolE(value)
		return v, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
	case KindDatetime:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
		}
		return parseDatetime(s)
	case KindDate:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
		}
		return ParseDate(s)
	case KindTime:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
		}
		return ParseTimeOfDay(s)
	case KindDuration:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
		}
		d, err := time.ParseDuration(s)
		return d, errors.Wrap(err, errors.Validation, "field %s: invalid default", f.Name)
	}
	return nil, errors.New(errors.Validation, "field %s: defaults are not supported for kind %s", f.Name, f.Kind)
}

// ZeroValue returns the value a new record holds for the field - the declared
// default when one exists, the kind's zero value otherwise. Enum fields
// default to their first member.
func (f FieldDef) ZeroValue() any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Kind {
	case KindString:
		return ""
	case KindInteger:
		return int64(0)
	case KindFloat:
		return float64(0)
	case KindBoolean:
		return false
	case KindEnum:
		return f.Values[0]
	case KindDatetime:
		return time.Time{}
	case KindDate:
		return DateOf(time.Time{})
	case KindTime:
		return TimeOfDay{}
	case KindDuration:
		return time.Duration(0)
	case KindObject:
		return newRecord(f.Fields)
	}
	return nil
}
