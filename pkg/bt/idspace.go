package bt

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/cwbudde/go-rea/pkg/value"
)

// Kind classifies the entries of the identifier space.
type Kind uint8

const (
	KindGlobal Kind = iota
	KindEffect
	KindCond
	KindQuery
	KindAction
	KindNode
	KindCustom
)

// String returns the kind with its article, for error messages.
func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "a global"
	case KindEffect:
		return "an effect"
	case KindCond:
		return "a condition"
	case KindQuery:
		return "a query"
	case KindAction:
		return "an action"
	case KindNode:
		return "a node"
	case KindCustom:
		return "a custom operator"
	default:
		return fmt.Sprintf("<kind %d>", int(k))
	}
}

// GlobalFunc produces a named constant from the world view.
type GlobalFunc[C any, E comparable] func(view C) value.Value[E]

// CondFunc is a pure predicate over the view and arguments.
type CondFunc[C any, E comparable] func(view C, args []value.Value[E]) bool

// EffectFunc materializes one effect value. Returning ok == false
// fails the containing action.
type EffectFunc[C any, E comparable, F any] func(view C, args []value.Value[E]) (F, bool)

// QueryFunc produces a value stream for query iteration. The engine
// drives the returned iterator and may stop early. Returning a nil
// sequence fails the query node (used for ill-typed arguments).
type QueryFunc[C any, E comparable] func(view C, args []value.Value[E]) iter.Seq[value.Value[E]]

// CustomFunc is a host-registered full-power operator. It receives
// the tree, the current activeness, and a stable per-registration
// seed for intentional nondeterminism.
type CustomFunc[C any, E comparable, F any] func(view C, args []value.Value[E], tree *Tree[C, E, F], active bool, seed uint64) Outcome[E, F]

// ErrUnknownIdentifier reports a name absent from every kind.
var ErrUnknownIdentifier = errors.New("unknown identifier")

// KindError reports a name resolving to the wrong kind.
type KindError struct {
	Expected []Kind
	Given    Kind
}

func (e *KindError) Error() string {
	parts := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		parts[i] = k.String()
	}
	var expected string
	switch len(parts) {
	case 0:
		expected = "none"
	case 1:
		expected = parts[0]
	default:
		expected = strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
	}
	return fmt.Sprintf("expected %s, given %s", expected, e.Given)
}

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Expected int
	Given    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("expected %d arguments, given %d", e.Expected, e.Given)
}

// IdError is the identifier resolution error surfaced by the tree's
// evaluation entry points. It wraps ErrUnknownIdentifier, a
// KindError, or an ArityError.
type IdError struct {
	Name string
	Err  error
}

func (e *IdError) Error() string {
	return fmt.Sprintf("identifier %q: %v", e.Name, e.Err)
}

func (e *IdError) Unwrap() error {
	return e.Err
}

// refKind discriminates the targets a tree reference may call.
type refKind uint8

const (
	refAction refKind = iota
	refKindNode
	refCond
	refCustom
)

// refIdx is a typed reference into the identifier space, usable as a
// call target.
type refIdx struct {
	kind  refKind
	index int
}

// idSpace groups the named entities of one tree. Names are globally
// unique across kinds.
type idSpace[C any, E comparable, F any] struct {
	globals idMap[GlobalFunc[C, E]]
	effects idMap[EffectFunc[C, E, F]]
	conds   idMap[CondFunc[C, E]]
	queries idMap[QueryFunc[C, E]]
	customs idMap[CustomFunc[C, E, F]]
	actions idMap[*actionRoot[E]]
	nodes   idMap[*nodeRoot[E]]
}

// kind returns the kind a name is registered under.
func (s *idSpace[C, E, F]) kind(name string) (Kind, bool) {
	switch {
	case has(&s.globals, name):
		return KindGlobal, true
	case has(&s.effects, name):
		return KindEffect, true
	case has(&s.conds, name):
		return KindCond, true
	case has(&s.queries, name):
		return KindQuery, true
	case has(&s.customs, name):
		return KindCustom, true
	case has(&s.actions, name):
		return KindAction, true
	case has(&s.nodes, name):
		return KindNode, true
	default:
		return 0, false
	}
}

func has[N any](m *idMap[N], name string) bool {
	_, ok := m.find(name)
	return ok
}

// resolve looks a name up in one kind's map, checking arity. The
// error distinguishes unknown names, wrong kinds, and wrong arity.
func resolve[C any, E comparable, F any, N any](
	s *idSpace[C, E, F],
	m *idMap[N],
	kind Kind,
	name string,
	given int,
) (int, error) {
	index, ok := m.find(name)
	if !ok {
		if actual, known := s.kind(name); known {
			return 0, &IdError{Name: name, Err: &KindError{Expected: []Kind{kind}, Given: actual}}
		}
		return 0, &IdError{Name: name, Err: ErrUnknownIdentifier}
	}
	if expected := m.arity(index); expected != given {
		return 0, &IdError{Name: name, Err: &ArityError{Expected: expected, Given: given}}
	}
	return index, nil
}

// resolveRef resolves a call-site name to an action, node, condition,
// or custom operator reference.
func (s *idSpace[C, E, F]) resolveRef(name string, given int) (refIdx, error) {
	kind, ok := s.kind(name)
	if !ok {
		return refIdx{}, &IdError{Name: name, Err: ErrUnknownIdentifier}
	}
	switch kind {
	case KindAction:
		index, err := resolve(s, &s.actions, KindAction, name, given)
		return refIdx{kind: refAction, index: index}, err
	case KindNode:
		index, err := resolve(s, &s.nodes, KindNode, name, given)
		return refIdx{kind: refKindNode, index: index}, err
	case KindCond:
		index, err := resolve(s, &s.conds, KindCond, name, given)
		return refIdx{kind: refCond, index: index}, err
	case KindCustom:
		index, err := resolve(s, &s.customs, KindCustom, name, given)
		return refIdx{kind: refCustom, index: index}, err
	default:
		return refIdx{}, &IdError{Name: name, Err: &KindError{
			Expected: []Kind{KindAction, KindNode, KindCond, KindCustom},
			Given:    kind,
		}}
	}
}

// action resolves a name that must be an action, ignoring arity.
func (s *idSpace[C, E, F]) action(name string) (int, error) {
	if index, ok := s.actions.find(name); ok {
		return index, nil
	}
	if actual, known := s.kind(name); known {
		return 0, &IdError{Name: name, Err: &KindError{Expected: []Kind{KindAction}, Given: actual}}
	}
	return 0, &IdError{Name: name, Err: ErrUnknownIdentifier}
}
