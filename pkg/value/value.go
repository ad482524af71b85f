// Package value implements the universal data type flowing through
// the behavior tree engine: a tagged union of symbol, integer,
// float, list, and a host-chosen external type. Values are immutable
// and cheap to copy; lists share their backing storage.
//
// The type parameter E is the host's external value type. It must be
// comparable so values remain fully comparable for pattern matching
// and memoization.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindSymbol Kind = iota
	KindInt
	KindFloat
	KindList
	KindExt
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	case KindExt:
		return "external"
	default:
		return fmt.Sprintf("<kind %d>", int(k))
	}
}

// Value is a single engine value. The zero value is the empty
// symbol; constructors never produce it.
type Value[E comparable] struct {
	kind Kind
	sym  string
	num  int64
	fnum float64
	list []Value[E]
	ext  E
}

// Sym returns a symbol value.
func Sym[E comparable](s string) Value[E] {
	return Value[E]{kind: KindSymbol, sym: s}
}

// Int returns an integer value.
func Int[E comparable](i int64) Value[E] {
	return Value[E]{kind: KindInt, num: i}
}

// Float returns a floating-point value.
func Float[E comparable](f float64) Value[E] {
	return Value[E]{kind: KindFloat, fnum: f}
}

// List returns a list value sharing the given backing slice. The
// caller must not mutate the slice afterwards.
func List[E comparable](items []Value[E]) Value[E] {
	return Value[E]{kind: KindList, list: items}
}

// ListOf returns a list value of the given items.
func ListOf[E comparable](items ...Value[E]) Value[E] {
	return List(items)
}

// Ext returns an external value.
func Ext[E comparable](e E) Value[E] {
	return Value[E]{kind: KindExt, ext: e}
}

// Kind returns the variant of the value.
func (v Value[E]) Kind() Kind { return v.kind }

// IsSymbol reports whether the value is a symbol.
func (v Value[E]) IsSymbol() bool { return v.kind == KindSymbol }

// IsInt reports whether the value is an integer.
func (v Value[E]) IsInt() bool { return v.kind == KindInt }

// IsFloat reports whether the value is a float.
func (v Value[E]) IsFloat() bool { return v.kind == KindFloat }

// IsList reports whether the value is a list.
func (v Value[E]) IsList() bool { return v.kind == KindList }

// IsExt reports whether the value is an external value.
func (v Value[E]) IsExt() bool { return v.kind == KindExt }

// Symbol returns the symbol text.
func (v Value[E]) Symbol() (string, bool) {
	return v.sym, v.kind == KindSymbol
}

// Int returns the integer value.
func (v Value[E]) Int() (int64, bool) {
	return v.num, v.kind == KindInt
}

// Float returns the float value.
func (v Value[E]) Float() (float64, bool) {
	return v.fnum, v.kind == KindFloat
}

// List returns the list elements. Callers must not mutate the
// returned slice.
func (v Value[E]) List() ([]Value[E], bool) {
	return v.list, v.kind == KindList
}

// Ext returns the external value.
func (v Value[E]) Ext() (E, bool) {
	return v.ext, v.kind == KindExt
}

// AsInt64 coerces a numeric value to int64. Floats truncate. All
// other variants fail.
func (v Value[E]) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.num, true
	case KindFloat:
		return int64(v.fnum), true
	default:
		return 0, false
	}
}

// AsFloat64 coerces a numeric value to float64. All other variants
// fail.
func (v Value[E]) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.num), true
	case KindFloat:
		return v.fnum, true
	default:
		return 0, false
	}
}

// String renders the value in script source form. External values
// render with %v inside angle brackets.
func (v Value[E]) String() string {
	switch v.kind {
	case KindSymbol:
		return v.sym
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.fnum, 'g', -1, 64)
	case KindList:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(item.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindExt:
		return fmt.Sprintf("<%v>", v.ext)
	default:
		return fmt.Sprintf("<invalid kind %d>", int(v.kind))
	}
}
