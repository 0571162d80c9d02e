package changekit

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/util"
	"github.com/spf13/cast"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed entity_schema.json
var entitySchema []byte

// EntityType is the validated definition of a collection - its fields, its
// primary key and its triggers. Entity types are immutable once parsed.
type EntityType struct {
	name     string
	readOnly bool
	fields   []FieldDef
	primary  FieldDef
	triggers []Trigger
	raw      []byte
}

type entityTypeDef struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description,omitempty"`
	ReadOnly    bool       `json:"read_only,omitempty"`
	Fields      []FieldDef `json:"fields" validate:"required,min=1,dive"`
	Triggers    []Trigger  `json:"triggers,omitempty" validate:"dive"`
}

// NewEntityType parses and validates a yaml entity type definition
func NewEntityType(yamlDef []byte) (*EntityType, error) {
	if len(bytes.TrimSpace(yamlDef)) == 0 {
		return nil, errors.New(errors.Validation, "empty entity type definition")
	}
	jsonDef, err := util.YAMLToJSON(yamlDef)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "invalid entity type definition")
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(entitySchema), gojsonschema.NewBytesLoader(jsonDef))
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "invalid entity type definition")
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.New(errors.Validation, "invalid entity type definition: %s", strings.Join(msgs, "; "))
	}
	var def entityTypeDef
	if err := json.Unmarshal(jsonDef, &def); err != nil {
		return nil, errors.Wrap(err, errors.Validation, "invalid entity type definition")
	}
	if err := util.ValidateStruct(&def); err != nil {
		return nil, err
	}
	for i := range def.Fields {
		if err := def.Fields[i].normalize(); err != nil {
			return nil, errors.Wrap(err, 0, "entity type %s", def.Name)
		}
	}
	var primary []FieldDef
	for _, f := range def.Fields {
		if f.Primary {
			primary = append(primary, f)
		}
	}
	if len(primary) != 1 {
		return nil, errors.New(errors.Validation, "entity type %s requires exactly one primary key field", def.Name)
	}
	if primary[0].Kind != KindString && primary[0].Kind != KindInteger {
		return nil, errors.New(errors.Validation, "entity type %s: primary key field %s must be a string or integer", def.Name, primary[0].Name)
	}
	return &EntityType{
		name:     def.Name,
		readOnly: def.ReadOnly,
		fields:   def.Fields,
		primary:  primary[0],
		triggers: def.Triggers,
		raw:      jsonDef,
	}, nil
}

// Collection returns the entity type's name
func (e *EntityType) Collection() string {
	return e.name
}

// IsReadOnly returns true if the collection rejects all mutations
func (e *EntityType) IsReadOnly() bool {
	return e.readOnly
}

// Fields returns the entity type's field definitions
func (e *EntityType) Fields() []FieldDef {
	return e.fields
}

// Triggers returns the entity type's triggers
func (e *EntityType) Triggers() []Trigger {
	return e.triggers
}

// FieldDef returns the definition of the named top level field
func (e *EntityType) FieldDef(name string) (FieldDef, bool) {
	return lookupField(e.fields, name)
}

// PrimaryKey returns the name of the primary key field
func (e *EntityType) PrimaryKey() string {
	return e.primary.Name
}

// NewRecord returns a blank record with every field at its zero value
func (e *EntityType) NewRecord() *Record {
	return newRecord(e.fields)
}

// GetPrimaryKey returns the record's primary key as a string - empty when a
// string primary key is unset
func (e *EntityType) GetPrimaryKey(record *Record) string {
	return cast.ToString(record.Get(e.primary.Name))
}

// SetPrimaryKey sets the record's primary key
func (e *EntityType) SetPrimaryKey(record *Record, id string) error {
	if e.primary.Kind == KindInteger {
		value, err := cast.ToInt64E(id)
		if err != nil {
			return errors.Wrap(err, errors.Validation, "%s: invalid primary key: %s", e.name, id)
		}
		return record.SetField(e.primary.Name, value)
	}
	return record.SetField(e.primary.Name, id)
}

// Bytes returns the entity type definition as yaml
func (e *EntityType) Bytes() ([]byte, error) {
	return util.JSONToYAML(e.raw)
}

// ValidateRecord checks every field of the record against the entity type's
// field definitions
func (e *EntityType) ValidateRecord(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New(errors.Validation, "%s: empty record", e.name)
	}
	return validateFields(e.name, e.fields, record)
}

func validateFields(collection string, fields []FieldDef, record *Record) error {
	for _, def := range fields {
		value := record.Get(def.Name)
		normalized, ok := normalizeValue(def.Kind, value)
		if !ok {
			return errors.New(errors.UnsupportedFieldType, "%s: field %s: value of type %T does not match kind %s", collection, def.Name, value, def.Kind)
		}
		if def.Kind == KindEnum {
			if _, err := coerceValue(def, normalized); err != nil {
				return errors.Wrap(err, 0, "%s", collection)
			}
		}
		if def.Required {
			zeroDef := def
			zeroDef.Default = nil
			if reflect.DeepEqual(normalized, zeroDef.ZeroValue()) {
				return errors.New(errors.Validation, "%s: field %s is required", collection, def.Name)
			}
		}
		if def.Kind == KindObject {
			if err := validateFields(collection, def.Fields, normalized.(*Record)); err != nil {
				return err
			}
		}
	}
	return nil
}
