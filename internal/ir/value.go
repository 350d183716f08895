package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"time"
)

// Value is a sealed interface over filter values.
// Implementations are the Scalar types below and List.
type Value interface {
	irValue()
}

// Scalar is a Value that is not a list.
type Scalar interface {
	Value
	scalar()
}

// Null is an explicit null scalar.
type Null struct{}

func (Null) irValue() {}
func (Null) scalar()  {}

// String is a text scalar.
type String string

func (String) irValue() {}
func (String) scalar()  {}

// Int is an integer scalar.
type Int int64

func (Int) irValue() {}
func (Int) scalar()  {}

// Float is a floating point scalar.
type Float float64

func (Float) irValue() {}
func (Float) scalar()  {}

// Bool is a boolean scalar.
type Bool bool

func (Bool) irValue() {}
func (Bool) scalar()  {}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (Date) irValue() {}
func (Date) scalar()  {}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(time.DateOnly)
}

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Timestamp is an instant, always held in UTC.
type Timestamp struct {
	t time.Time
}

func (Timestamp) irValue() {}
func (Timestamp) scalar()  {}

// NewTimestamp converts t to UTC and wraps it.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC()}
}

// Time returns the wrapped instant in UTC.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// String formats the instant as RFC 3339 in UTC.
func (ts Timestamp) String() string {
	return ts.t.Format(time.RFC3339Nano)
}

// List is an ordered list of scalars. Nested lists are not representable.
type List []Scalar

func (List) irValue() {}

// IsList reports whether v is the list variant.
func IsList(v Value) bool {
	_, ok := v.(List)
	return ok
}

// FromAny converts a decoded JSON/YAML/CUE value into a Value.
// A nil input becomes Null. Lists may contain scalars only.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case []any:
		list := make(List, 0, len(val))
		for i, elem := range val {
			s, err := ScalarFromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			list = append(list, s)
		}
		return list, nil
	case []string:
		list := make(List, len(val))
		for i, s := range val {
			list[i] = String(s)
		}
		return list, nil
	case List:
		return val, nil
	default:
		return ScalarFromAny(v)
	}
}

// ScalarFromAny converts a decoded value into a Scalar, rejecting lists and maps.
func ScalarFromAny(v any) (Scalar, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Scalar:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("integer out of range: %d", val)
		}
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer out of range: %d", val)
		}
		return Int(val), nil
	case float32:
		return floatScalar(float64(val)), nil
	case float64:
		return floatScalar(val), nil
	case *big.Int:
		if !val.IsInt64() {
			return nil, fmt.Errorf("integer out of range: %s", val)
		}
		return Int(val.Int64()), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", val.String())
		}
		return Float(f), nil
	case time.Time:
		return NewTimestamp(val), nil
	case []any, []string, List:
		return nil, fmt.Errorf("nested lists are not supported")
	case map[string]any:
		return nil, fmt.Errorf("objects are not supported as filter values")
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// floatScalar keeps integral floats as Int so that YAML/JSON numbers like 3
// and 3.0 compare the same way.
func floatScalar(f float64) Scalar {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Int(int64(f))
	}
	return Float(f)
}

// ToAny converts a Value back to plain Go data for encoding.
func ToAny(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Date:
		return val.String()
	case Timestamp:
		return val.String()
	case List:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = ToAny(s)
		}
		return out
	default:
		return nil
	}
}
