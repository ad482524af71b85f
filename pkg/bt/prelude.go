package bt

import (
	"iter"

	"github.com/cwbudde/go-rea/pkg/value"
)

// RegisterCore registers a small domain-independent library of
// conditions and queries usable from any script: variant tests,
// symbol comparison, list membership and iteration, and the trivial
// "ok"/"fail" predicates.
func (b *Builder[C, E, F]) RegisterCore() error {
	conditions := []struct {
		name  string
		arity int
		fn    CondFunc[C, E]
	}{
		{"is-symbol", 1, func(_ C, args []value.Value[E]) bool { return args[0].IsSymbol() }},
		{"is-int", 1, func(_ C, args []value.Value[E]) bool { return args[0].IsInt() }},
		{"is-float", 1, func(_ C, args []value.Value[E]) bool { return args[0].IsFloat() }},
		{"is-list", 1, func(_ C, args []value.Value[E]) bool { return args[0].IsList() }},
		{"is-external", 1, func(_ C, args []value.Value[E]) bool { return args[0].IsExt() }},
		{"symbols=", 2, func(_ C, args []value.Value[E]) bool {
			a, aok := args[0].Symbol()
			b, bok := args[1].Symbol()
			return aok && bok && a == b
		}},
		{"symbol-in-list", 2, func(_ C, args []value.Value[E]) bool {
			symbol, list := args[0], args[1]
			if !symbol.IsSymbol() {
				symbol, list = list, symbol
			}
			if !symbol.IsSymbol() {
				return false
			}
			items, ok := list.List()
			if !ok {
				return false
			}
			for _, item := range items {
				if item.Equal(symbol) {
					return true
				}
			}
			return false
		}},
		{"ok", 0, func(_ C, _ []value.Value[E]) bool { return true }},
		{"fail", 0, func(_ C, _ []value.Value[E]) bool { return false }},
	}
	for _, c := range conditions {
		if err := b.RegisterCondition(c.name, c.arity, c.fn); err != nil {
			return err
		}
	}

	return b.RegisterQuery("list-items", 1, func(_ C, args []value.Value[E]) iter.Seq[value.Value[E]] {
		items, _ := args[0].List()
		return func(yield func(value.Value[E]) bool) {
			for _, item := range items {
				if !yield(item) {
					return
				}
			}
		}
	})
}
