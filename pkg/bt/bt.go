// Package bt implements an embeddable behavior tree engine with a
// declarative scripting language. Hosts register primitives —
// globals, conditions, effects, queries, and custom operators —
// against a Builder, load scripts declaring nodes and actions, and
// compile the result into an immutable Tree.
//
// A Tree answers three kinds of queries against a host world view:
// evaluate a named node or action, enumerate every grounded action
// the world currently admits (discovery), and check a node in a
// purely observational mode that can never produce an action.
//
// Evaluation is single-threaded and synchronous; apart from its
// cache capacity setting a Tree is immutable and may be shared, and
// each evaluation call uses its own memoization cache. The engine knows nothing about the world: the
// view type C, the external value type E, and the effect type F are
// all chosen by the host.
package bt

import (
	"github.com/cwbudde/go-rea/pkg/value"
)

// Tree is a compiled behavior tree: the identifier space holding
// host handlers and compiled roots. Apart from SetCacheCapacity,
// which changes the tree, trees are immutable and safe to share
// across evaluations.
type Tree[C any, E comparable, F any] struct {
	ids      idSpace[C, E, F]
	cacheCap int
}

// SetCacheCapacity overrides the per-evaluation memoization cache
// size. Zero or negative restores DefaultCacheCapacity.
func (t *Tree[C, E, F]) SetCacheCapacity(n int) {
	t.cacheCap = n
}

func (t *Tree[C, E, F]) cacheCapacity() int {
	if t.cacheCap > 0 {
		return t.cacheCap
	}
	return DefaultCacheCapacity
}

// Evaluate evaluates the named node, action, condition, or custom
// operator with the given arguments in active mode. The returned
// error is non-nil only when the name is unknown, of the wrong kind,
// or called with the wrong arity.
func (t *Tree[C, E, F]) Evaluate(view C, name string, args []value.Value[E]) (Outcome[E, F], error) {
	return t.eval(view, name, args, true)
}

// Check evaluates like Evaluate but in inactive mode: no action can
// be produced, so the outcome is success or failure. Used for
// conditions and lookahead.
func (t *Tree[C, E, F]) Check(view C, name string, args []value.Value[E]) (Outcome[E, F], error) {
	return t.eval(view, name, args, false)
}

func (t *Tree[C, E, F]) eval(view C, name string, args []value.Value[E], active bool) (Outcome[E, F], error) {
	ref, err := t.ids.resolveRef(name, len(args))
	if err != nil {
		return Failure[E, F](), err
	}
	ctx := newEvalContext(view, t, active)
	switch ref.kind {
	case refKindNode:
		return evalNodeRoot(ctx, t.ids.nodes.node(ref.index), args), nil
	case refAction:
		return evalActionRoot(ctx, t.ids.actions.node(ref.index), args), nil
	case refCond:
		return BoolOutcome[E, F](t.ids.conds.node(ref.index)(view, args)), nil
	case refCustom:
		handler := t.ids.customs.node(ref.index)
		return handler(view, args, t, active, fnvSeed(name)), nil
	default:
		return Failure[E, F](), nil
	}
}

// Discover runs the named action's discovery subtree and returns the
// grounded actions it produced, in emission order.
func (t *Tree[C, E, F]) Discover(view C, action string) ([]Action[E, F], error) {
	index, err := t.ids.action(action)
	if err != nil {
		return nil, err
	}
	var sink []Action[E, F]
	ctx := newDiscoveryContext(view, t, &sink, index)
	evalDiscovery(ctx, t.ids.actions.node(index))
	return sink, nil
}

// DiscoverAll runs every action's discovery subtree and returns all
// grounded actions, grouped by action in registration order.
func (t *Tree[C, E, F]) DiscoverAll(view C) []Action[E, F] {
	var sink []Action[E, F]
	for index := 0; index < t.ids.actions.len(); index++ {
		ctx := newDiscoveryContext(view, t, &sink, index)
		evalDiscovery(ctx, t.ids.actions.node(index))
	}
	return sink
}

// ActionName returns the declared name of a discovered or produced
// action.
func (t *Tree[C, E, F]) ActionName(action Action[E, F]) string {
	return t.ids.actions.name(action.index)
}
