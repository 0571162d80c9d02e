package changekit

import (
	"math"
	"time"
)

// Kind is the type of value a field holds
type Kind string

const (
	// KindString is a utf8 string field
	KindString Kind = "string"
	// KindInteger is a 64 bit signed integer field
	KindInteger Kind = "integer"
	// KindFloat is a 64 bit floating point field
	KindFloat Kind = "float"
	// KindBoolean is a true/false field
	KindBoolean Kind = "boolean"
	// KindEnum is a string field restricted to a fixed set of members
	KindEnum Kind = "enum"
	// KindDatetime is an offset naive timestamp field
	KindDatetime Kind = "datetime"
	// KindDate is a calendar date field
	KindDate Kind = "date"
	// KindTime is a wall clock time field
	KindTime Kind = "time"
	// KindDuration is an elapsed time field
	KindDuration Kind = "duration"
	// KindObject is a nested record field
	KindObject Kind = "object"
)

// normalizeValue widens the given value to the kind's canonical representation.
// It matches on the value's type - it never parses or truncates - so a value
// that normalizes is guaranteed to round trip through the record codec.
func normalizeValue(kind Kind, value any) (any, bool) {
	switch kind {
	case KindString, KindEnum:
		if v, ok := value.(string); ok {
			return v, true
		}
	case KindInteger:
		switch v := value.(type) {
		case int:
			return int64(v), true
		case int8:
			return int64(v), true
		case int16:
			return int64(v), true
		case int32:
			return int64(v), true
		case int64:
			return v, true
		case float32:
			if math.Trunc(float64(v)) == float64(v) {
				return int64(v), true
			}
		case float64:
			if math.Trunc(v) == v {
				return int64(v), true
			}
		}
	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int8:
			return float64(v), true
		case int16:
			return float64(v), true
		case int32:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	case KindBoolean:
		if v, ok := value.(bool); ok {
			return v, true
		}
	case KindDatetime:
		if v, ok := value.(time.Time); ok {
			return v, true
		}
	case KindDate:
		if v, ok := value.(Date); ok {
			return v, true
		}
	case KindTime:
		if v, ok := value.(TimeOfDay); ok {
			return v, true
		}
	case KindDuration:
		if v, ok := value.(time.Duration); ok {
			return v, true
		}
	case KindObject:
		if v, ok := value.(*Record); ok {
			return v, true
		}
	}
	return nil, false
}
