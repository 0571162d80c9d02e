package changekit

import (
	"strings"
	"time"

	"github.com/autom8ter/changekit/errors"
	"github.com/samber/lo"
)

// coerceValue converts a value into the field's kind where a lossless
// conversion exists. Exactly four conversions apply:
//
//	enum     - a string is resolved against the field's members
//	datetime - a Date becomes its midnight instant, an offset aware time is
//	           reduced to its wall clock reading
//	duration - a TimeOfDay becomes the elapsed time since midnight
//
// Anything else passes through untouched for normalizeValue to judge.
func coerceValue(def FieldDef, value any) (any, error) {
	switch def.Kind {
	case KindEnum:
		if v, ok := value.(string); ok {
			if !lo.Contains(def.Values, v) {
				return nil, errors.New(errors.EnumParse, "field %s: %q is not a member of enum [%s]", def.Name, v, strings.Join(def.Values, ", "))
			}
			return v, nil
		}
	case KindDatetime:
		switch v := value.(type) {
		case Date:
			return v.Midnight(), nil
		case time.Time:
			return stripOffset(v), nil
		}
	case KindDuration:
		if v, ok := value.(TimeOfDay); ok {
			return v.SinceMidnight(), nil
		}
	}
	return value, nil
}

// stripOffset drops the time's location, keeping its wall clock reading
func stripOffset(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
