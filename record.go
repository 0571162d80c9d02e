package changekit

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/util"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// datetimeLayout is the offset naive timestamp form records marshal to
const datetimeLayout = "2006-01-02T15:04:05.999999999"

// Record is a typed set of field values. A record always holds a value for
// every field its definitions declare, and every value matches its field's
// kind.
type Record struct {
	fields []FieldDef
	values map[string]any
}

// newRecord returns a record with every field at its zero value
func newRecord(fields []FieldDef) *Record {
	values := make(map[string]any, len(fields))
	for _, def := range fields {
		values[def.Name] = def.ZeroValue()
	}
	return &Record{fields: fields, values: values}
}

// DecodeRecord decodes a json record against the given field definitions -
// fields the json omits keep their zero values
func DecodeRecord(fields []FieldDef, data []byte) (*Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.Validation, "invalid json record")
	}
	record := newRecord(fields)
	for _, def := range fields {
		result := gjson.GetBytes(data, def.Name)
		if !result.Exists() {
			continue
		}
		value, err := decodeField(def, result)
		if err != nil {
			return nil, err
		}
		record.values[def.Name] = value
	}
	return record, nil
}

func decodeField(def FieldDef, result gjson.Result) (any, error) {
	switch def.Kind {
	case KindString, KindEnum:
		return result.String(), nil
	case KindInteger:
		return result.Int(), nil
	case KindFloat:
		return result.Float(), nil
	case KindBoolean:
		return result.Bool(), nil
	case KindDatetime:
		return parseDatetime(result.String())
	case KindDate:
		return ParseDate(result.String())
	case KindTime:
		return ParseTimeOfDay(result.String())
	case KindDuration:
		d, err := time.ParseDuration(result.String())
		return d, errors.Wrap(err, errors.Validation, "field %s: invalid duration: %s", def.Name, result.String())
	case KindObject:
		nested, err := DecodeRecord(def.Fields, []byte(result.Raw))
		if err != nil {
			return nil, errors.Wrap(err, 0, "field %s", def.Name)
		}
		return nested, nil
	}
	return nil, errors.New(errors.UnsupportedFieldType, "field %s: unsupported kind %s", def.Name, def.Kind)
}

// parseDatetime parses an offset naive timestamp - an offset aware rfc3339
// timestamp is accepted and reduced to its wall clock reading
func parseDatetime(value string) (time.Time, error) {
	if t, err := time.Parse(datetimeLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return stripOffset(t), nil
	}
	return time.Time{}, errors.New(errors.Validation, "invalid datetime: %s", value)
}

// FieldDef returns the definition of the named top level field
func (r *Record) FieldDef(name string) (FieldDef, bool) {
	return lookupField(r.fields, name)
}

// Fields returns the record's field definitions
func (r *Record) Fields() []FieldDef {
	return r.fields
}

// SetField sets a field to the given value without coercion - the value must
// already match the field's kind. Dot notation addresses nested object fields.
func (r *Record) SetField(name string, value any) error {
	if head, rest, ok := strings.Cut(name, "."); ok {
		nested, err := r.nestedRecord(head)
		if err != nil {
			return err
		}
		return errors.Wrap(nested.SetField(rest, value), 0, "field %s", head)
	}
	def, exists := lookupField(r.fields, name)
	if !exists {
		return errors.New(errors.UnknownField, "unknown field: %s", name)
	}
	normalized, ok := normalizeValue(def.Kind, value)
	if !ok {
		return errors.New(errors.UnsupportedFieldType, "field %s: value of type %T does not match kind %s", name, value, def.Kind)
	}
	r.values[name] = normalized
	return nil
}

// Set sets a field value, coercing it into the field's kind where a lossless
// conversion exists. Dot notation addresses nested object fields.
func (r *Record) Set(name string, value any) error {
	if head, rest, ok := strings.Cut(name, "."); ok {
		nested, err := r.nestedRecord(head)
		if err != nil {
			return err
		}
		return errors.Wrap(nested.Set(rest, value), 0, "field %s", head)
	}
	return applyValue(r, NewValue(name, value))
}

// SetAll sets the given values in order
func (r *Record) SetAll(vals Values) error {
	return applyValues(r, vals)
}

// Patch sets the given values in sorted key order - dot notation addresses
// nested object fields
func (r *Record) Patch(patch map[string]any) error {
	keys := lo.Keys(patch)
	sort.Strings(keys)
	for _, k := range keys {
		if err := r.Set(k, patch[k]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Record) nestedRecord(name string) (*Record, error) {
	def, exists := lookupField(r.fields, name)
	if !exists {
		return nil, errors.New(errors.UnknownField, "unknown field: %s", name)
	}
	if def.Kind != KindObject {
		return nil, errors.New(errors.UnsupportedFieldType, "field %s: nested values do not match kind %s", name, def.Kind)
	}
	nested, _ := r.values[name].(*Record)
	if nested == nil {
		nested = newRecord(def.Fields)
		r.values[name] = nested
	}
	return nested, nil
}

// Get returns a field's value - nil when the field is unknown. Dot notation
// addresses nested object fields.
func (r *Record) Get(name string) any {
	if head, rest, ok := strings.Cut(name, "."); ok {
		if nested, ok := r.values[head].(*Record); ok {
			return nested.Get(rest)
		}
		return nil
	}
	return r.values[name]
}

// GetString returns a field's value as a string
func (r *Record) GetString(name string) string {
	return cast.ToString(r.Get(name))
}

// GetBool returns a field's value as a bool
func (r *Record) GetBool(name string) bool {
	return cast.ToBool(r.Get(name))
}

// GetFloat returns a field's value as a float
func (r *Record) GetFloat(name string) float64 {
	return cast.ToFloat64(r.Get(name))
}

// GetInt returns a field's value as an int
func (r *Record) GetInt(name string) int64 {
	return cast.ToInt64(r.Get(name))
}

// Value returns the record as a nested map
func (r *Record) Value() map[string]any {
	data := map[string]any{}
	for k, v := range r.values {
		if nested, ok := v.(*Record); ok {
			data[k] = nested.Value()
			continue
		}
		data[k] = v
	}
	return data
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	clone := &Record{fields: r.fields, values: make(map[string]any, len(r.values))}
	for k, v := range r.values {
		if nested, ok := v.(*Record); ok {
			clone.values[k] = nested.Clone()
			continue
		}
		clone.values[k] = v
	}
	return clone
}

// MarshalJSON returns the record as json with fields in definition order.
// Datetimes marshal offset naive, dates as YYYY-MM-DD, times as HH:MM:SS and
// durations in go duration form.
func (r *Record) MarshalJSON() ([]byte, error) {
	bits := []byte("{}")
	var err error
	for _, def := range r.fields {
		value := r.values[def.Name]
		switch def.Kind {
		case KindDatetime:
			bits, err = sjson.SetBytes(bits, def.Name, value.(time.Time).Format(datetimeLayout))
		case KindDate:
			bits, err = sjson.SetBytes(bits, def.Name, value.(Date).String())
		case KindTime:
			bits, err = sjson.SetBytes(bits, def.Name, value.(TimeOfDay).String())
		case KindDuration:
			bits, err = sjson.SetBytes(bits, def.Name, value.(time.Duration).String())
		case KindObject:
			nested, nerr := value.(*Record).MarshalJSON()
			if nerr != nil {
				return nil, nerr
			}
			bits, err = sjson.SetRawBytes(bits, def.Name, nested)
		default:
			bits, err = sjson.SetBytes(bits, def.Name, value)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.Internal, "failed to marshal field: %s", def.Name)
		}
	}
	return bits, nil
}

// Bytes returns the record as json
func (r *Record) Bytes() []byte {
	bits, _ := r.MarshalJSON()
	return bits
}

// String returns the record as a json string
func (r *Record) String() string {
	return string(r.Bytes())
}

// Equal returns true if both records marshal to the same json
func (r *Record) Equal(other *Record) bool {
	if other == nil {
		return false
	}
	return r.String() == other.String()
}

// Scan decodes the record into the given value
func (r *Record) Scan(dest any) error {
	return util.Decode(r.Value(), dest)
}

// Where returns true if the record passes every where clause
func (r *Record) Where(wheres []Where) (bool, error) {
	for _, w := range wheres {
		value := normalizeCompare(r.Get(w.Field))
		expected := normalizeCompare(w.Value)
		switch w.Op {
		case WhereOpEq:
			if !equalValues(value, expected) {
				return false, nil
			}
		case WhereOpNeq:
			if equalValues(value, expected) {
				return false, nil
			}
		case WhereOpGt:
			cmp, err := compareValues(value, expected)
			if err != nil {
				return false, errors.Wrap(err, 0, "field %s", w.Field)
			}
			if cmp <= 0 {
				return false, nil
			}
		case WhereOpGte:
			cmp, err := compareValues(value, expected)
			if err != nil {
				return false, errors.Wrap(err, 0, "field %s", w.Field)
			}
			if cmp < 0 {
				return false, nil
			}
		case WhereOpLt:
			cmp, err := compareValues(value, expected)
			if err != nil {
				return false, errors.Wrap(err, 0, "field %s", w.Field)
			}
			if cmp >= 0 {
				return false, nil
			}
		case WhereOpLte:
			cmp, err := compareValues(value, expected)
			if err != nil {
				return false, errors.Wrap(err, 0, "field %s", w.Field)
			}
			if cmp > 0 {
				return false, nil
			}
		case WhereOpIn:
			members := cast.ToSlice(w.Value)
			if !lo.ContainsBy(members, func(m any) bool {
				return equalValues(value, normalizeCompare(m))
			}) {
				return false, nil
			}
		case WhereOpContains:
			if !strings.Contains(cast.ToString(value), cast.ToString(expected)) {
				return false, nil
			}
		default:
			return false, errors.New(errors.Validation, "invalid where operator: '%s'", w.Op)
		}
	}
	return true, nil
}

// normalizeCompare reduces engine value types to comparable primitives
func normalizeCompare(value any) any {
	switch v := value.(type) {
	case *Record:
		return v.String()
	case time.Time:
		return stripOffset(v)
	case Date:
		return v.Midnight()
	case TimeOfDay:
		return v.SinceMidnight()
	case time.Duration:
		return int64(v)
	}
	return value
}

func isNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// equalValues compares two values for equality - numbers compare by value
// across numeric types, times by instant
func equalValues(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	if isNumber(a) && isNumber(b) {
		return cast.ToFloat64(a) == cast.ToFloat64(b)
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values - times by instant, numbers by value,
// strings lexically
func compareValues(a, b any) (int, error) {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1, nil
			case at.After(bt):
				return 1, nil
			}
			return 0, nil
		}
	}
	if isNumber(a) && isNumber(b) {
		af, bf := cast.ToFloat64(a), cast.ToFloat64(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		}
		return 0, nil
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), nil
		}
	}
	return 0, errors.New(errors.Validation, "values of types %T and %T are not comparable", a, b)
}

// Diff returns the field level changes between the record and a prior
// version - a nil prior version yields an add per field path
func (r *Record) Diff(before *Record) []FieldChange {
	paths := fieldPaths(r.fields, "")
	var changes []FieldChange
	if before == nil {
		for _, path := range paths {
			changes = append(changes, FieldChange{Op: FieldOpAdd, Path: path, Value: r.Get(path)})
		}
		return changes
	}
	for _, path := range paths {
		after := r.Get(path)
		prior := before.Get(path)
		if !equalValues(normalizeCompare(after), normalizeCompare(prior)) {
			changes = append(changes, FieldChange{Op: FieldOpReplace, Path: path, Value: after, ValueBefore: prior})
		}
	}
	return changes
}

// fieldPaths returns the dot separated leaf paths of the field definitions
func fieldPaths(fields []FieldDef, prefix string) []string {
	var paths []string
	for _, def := range fields {
		path := def.Name
		if prefix != "" {
			path = prefix + "." + def.Name
		}
		if def.Kind == KindObject {
			paths = append(paths, fieldPaths(def.Fields, path)...)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// Records is a list of records
type Records []*Record

// Slice slices the records from start to end
func (records Records) Slice(start, end int) Records {
	return lo.Slice(records, start, end)
}

// Filter returns the records passing the predicate
func (records Records) Filter(predicate func(record *Record, i int) bool) Records {
	return lo.Filter(records, predicate)
}

// Map transforms each record with the mapper
func (records Records) Map(mapper func(record *Record, i int) *Record) Records {
	return lo.Map(records, mapper)
}

// ForEach runs fn against each record
func (records Records) ForEach(fn func(record *Record, i int)) {
	lo.ForEach(records, fn)
}
