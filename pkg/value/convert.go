package value

import (
	"fmt"
	"reflect"
)

// FromGo builds a value from a Go value. Supported inputs: string
// (symbol), the signed integer types, float32/float64, []Value[E]
// (list), any other slice or array (list, converted element by
// element), Value[E] itself, and the external type E.
func FromGo[E comparable](v any) (Value[E], error) {
	switch x := v.(type) {
	case Value[E]:
		return x, nil
	case string:
		return Sym[E](x), nil
	case int:
		return Int[E](int64(x)), nil
	case int8:
		return Int[E](int64(x)), nil
	case int16:
		return Int[E](int64(x)), nil
	case int32:
		return Int[E](int64(x)), nil
	case int64:
		return Int[E](x), nil
	case float32:
		return Float[E](float64(x)), nil
	case float64:
		return Float[E](x), nil
	case []Value[E]:
		return List(x), nil
	case []any:
		items, err := FromGoSlice[E](x...)
		if err != nil {
			return Value[E]{}, err
		}
		return List(items), nil
	case E:
		return Ext(x), nil
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Array || rv.Kind() == reflect.Slice {
			items := make([]Value[E], rv.Len())
			for i := range items {
				item, err := FromGo[E](rv.Index(i).Interface())
				if err != nil {
					return Value[E]{}, err
				}
				items[i] = item
			}
			return List(items), nil
		}
		return Value[E]{}, fmt.Errorf("value: cannot convert %T", v)
	}
}

// FromGoSlice converts a heterogeneous Go argument list to values.
// It is the usual way hosts materialize evaluation arguments.
func FromGoSlice[E comparable](vs ...any) ([]Value[E], error) {
	if len(vs) == 0 {
		return nil, nil
	}
	values := make([]Value[E], len(vs))
	for i, v := range vs {
		converted, err := FromGo[E](v)
		if err != nil {
			return nil, err
		}
		values[i] = converted
	}
	return values, nil
}

// Decode destructures an argument slice into Go locals. The arity
// must match exactly and every element must convert to its
// destination type; otherwise no destination is written and Decode
// reports false. Supported destinations: *string (symbol), *int and
// *int64 (integer), *float64 (any numeric), *[]Value[E] (list),
// *Value[E] (anything), and *E (external).
func Decode[E comparable](args []Value[E], dests ...any) bool {
	if len(args) != len(dests) {
		return false
	}
	// Dry run first so a late mismatch leaves no partial binding.
	for i, dest := range dests {
		if !decodeOne(args[i], dest, false) {
			return false
		}
	}
	for i, dest := range dests {
		decodeOne(args[i], dest, true)
	}
	return true
}

func decodeOne[E comparable](v Value[E], dest any, write bool) bool {
	switch d := dest.(type) {
	case *Value[E]:
		if write {
			*d = v
		}
		return true
	case *string:
		s, ok := v.Symbol()
		if ok && write {
			*d = s
		}
		return ok
	case *int64:
		i, ok := v.Int()
		if ok && write {
			*d = i
		}
		return ok
	case *int:
		i, ok := v.Int()
		if ok && write {
			*d = int(i)
		}
		return ok
	case *float64:
		f, ok := v.AsFloat64()
		if ok && write {
			*d = f
		}
		return ok
	case *[]Value[E]:
		list, ok := v.List()
		if ok && write {
			*d = list
		}
		return ok
	case *E:
		e, ok := v.Ext()
		if ok && write {
			*d = e
		}
		return ok
	default:
		return false
	}
}
