package changekit

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/autom8ter/changekit/errors"
	"github.com/samber/lo"
)

// Value is a single named property value carried by a modification. A value
// holds either a scalar or a nested set of values, never both.
type Value struct {
	// Name is the property name
	Name string `json:"name" validate:"required"`
	// Scalar is the property's scalar value. The scalar domain is nil, bool,
	// string, int64 (and narrower ints), float64, time.Time, Date, TimeOfDay
	// and time.Duration
	Scalar any `json:"scalar,omitempty"`
	// Nested holds the values of a nested object property
	Nested Values `json:"nested,omitempty"`
}

// IsNested returns true if the value holds a nested set of values
func (v Value) IsNested() bool {
	return v.Nested != nil
}

// NewValue creates a named value - a Values input becomes a nested value
func NewValue(name string, value any) Value {
	if nested, ok := value.(Values); ok {
		return Value{Name: name, Nested: nested}
	}
	return Value{Name: name, Scalar: value}
}

// Values is an ordered list of named property values
type Values []Value

// Get returns the last value with the given name
func (vals Values) Get(name string) (Value, bool) {
	for i := len(vals) - 1; i >= 0; i-- {
		if vals[i].Name == name {
			return vals[i], true
		}
	}
	return Value{}, false
}

// Names returns the value names in order
func (vals Values) Names() []string {
	return lo.Map(vals, func(v Value, _ int) string {
		return v.Name
	})
}

// Map returns the values as a nested map - later values override earlier ones
func (vals Values) Map() map[string]any {
	data := map[string]any{}
	for _, v := range vals {
		if v.IsNested() {
			data[v.Name] = v.Nested.Map()
			continue
		}
		if rec, ok := v.Scalar.(*Record); ok {
			data[v.Name] = rec.Value()
			continue
		}
		data[v.Name] = v.Scalar
	}
	return data
}

// NewValues converts a plain nested map to values in sorted key order
func NewValues(m map[string]any) Values {
	return valuesFromMap(m)
}

// valuesFromMap converts a plain nested map to values in sorted key order
func valuesFromMap(m map[string]any) Values {
	keys := lo.Keys(m)
	sort.Strings(keys)
	var vals Values
	for _, k := range keys {
		if nested, ok := m[k].(map[string]any); ok {
			vals = append(vals, Value{Name: k, Nested: valuesFromMap(nested)})
			continue
		}
		vals = append(vals, Value{Name: k, Scalar: m[k]})
	}
	return vals
}

// Date is a calendar date without a time component or location
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// NewDate creates a date
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the date the given time falls on
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a date in YYYY-MM-DD form
func ParseDate(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, errors.New(errors.Validation, "invalid date: %s", value)
	}
	return DateOf(t), nil
}

// Midnight returns the moment the date begins as a UTC wall clock reading
func (d Date) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the date in YYYY-MM-DD form
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON returns the date as a YYYY-MM-DD json string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

// UnmarshalJSON decodes the date from a YYYY-MM-DD json string
func (d *Date) UnmarshalJSON(bits []byte) error {
	var value string
	if err := unquote(bits, &value); err != nil {
		return err
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall clock reading without a date or location
type TimeOfDay struct {
	Hour       int `json:"hour"`
	Minute     int `json:"minute"`
	Second     int `json:"second"`
	Nanosecond int `json:"nanosecond"`
}

// NewTimeOfDay creates a time of day
func NewTimeOfDay(hour, minute, second, nanosecond int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute, Second: second, Nanosecond: nanosecond}
}

// TimeOfDayOf returns the wall clock reading of the given time
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

// ParseTimeOfDay parses a time of day in HH:MM:SS form with an optional
// fractional second
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		return TimeOfDay{}, errors.New(errors.Validation, "invalid time of day: %s", value)
	}
	return TimeOfDayOf(t), nil
}

// SinceMidnight returns the elapsed time between midnight and the reading
func (t TimeOfDay) SinceMidnight() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nanosecond)
}

// String returns the reading in HH:MM:SS form, with the fractional second
// when one is present
func (t TimeOfDay) String() string {
	if t.Nanosecond == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%09d", t.Hour, t.Minute, t.Second, t.Nanosecond)
}

// MarshalJSON returns the reading as an HH:MM:SS json string
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

// UnmarshalJSON decodes the reading from an HH:MM:SS json string
func (t *TimeOfDay) UnmarshalJSON(bits []byte) error {
	var value string
	if err := unquote(bits, &value); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func unquote(bits []byte, value *string) error {
	if err := json.Unmarshal(bits, value); err != nil {
		return errors.Wrap(err, errors.Validation, "expected a json string: %s", string(bits))
	}
	return nil
}
