package scoring

import "strings"

type kind int

const (
	kindString kind = iota
	kindNumber
	kindBool
	kindCount
)

// Value is one scoreable field. Presence means different things per shape:
// a string counts when non-blank, a number when positive, a bool only when
// true, and a collection when non-empty.
type Value struct {
	kind  kind
	text  string
	num   float64
	flag  bool
	count int
}

// String wraps a text field.
func String(text string) Value {
	return Value{kind: kindString, text: text}
}

// Number wraps a numeric field. Zero is treated as unset: coordinates,
// capacities and foreign keys all use zero as their missing value.
func Number(num float64) Value {
	return Value{kind: kindNumber, num: num}
}

// ID wraps a foreign-key field.
func ID(id int64) Value {
	return Value{kind: kindNumber, num: float64(id)}
}

// Bool wraps a flag field. Only an asserted true counts as present.
func Bool(flag bool) Value {
	return Value{kind: kindBool, flag: flag}
}

// List wraps a collection field by length.
func List[T any](items []T) Value {
	return Value{kind: kindCount, count: len(items)}
}

// Present reports whether the field carries scoreable content.
func (v Value) Present() bool {
	switch v.kind {
	case kindString:
		return strings.TrimSpace(v.text) != ""
	case kindNumber:
		return v.num > 0
	case kindBool:
		return v.flag
	case kindCount:
		return v.count > 0
	default:
		return false
	}
}
