package bt

import (
	"hash/fnv"
	"math/rand"

	"github.com/cwbudde/go-rea/pkg/value"
)

// The evaluator walks the compiled IR against a context. Evaluation
// is single-threaded, synchronous, and recursive; recursion through
// the same (reference, arguments, activeness) key is cut by the
// cache's tentative-failure placeholder.

func evalSequence[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], branches []node[E]) Outcome[E, F] {
	for _, branch := range branches {
		if out := evalBranch(ctx, fr, branch); out.IsNonSuccess() {
			return out
		}
	}
	return Success[E, F]()
}

func evalSelection[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], branches []node[E]) Outcome[E, F] {
	for _, branch := range branches {
		if out := evalBranch(ctx, fr, branch); out.IsNonFailure() {
			return out
		}
	}
	return Failure[E, F]()
}

func evalBranch[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], n node[E]) Outcome[E, F] {
	switch n := n.(type) {
	case successNode[E]:
		return Success[E, F]()
	case failureNode[E]:
		return Failure[E, F]()
	case dispatchNode[E]:
		return evalDispatch(ctx, fr, n)
	case refNode[E]:
		return evalRef(ctx, fr, n)
	case queryNode[E]:
		return evalQuery(ctx, fr, n)
	case matchNode[E]:
		return evalMatch(ctx, fr, n)
	case randomNode[E]:
		return evalRandom(ctx, fr, n)
	case condNode[E]:
		return evalCond(ctx, fr, n)
	default:
		return Failure[E, F]()
	}
}

func evalDispatch[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], n dispatchNode[E]) Outcome[E, F] {
	switch n.mode {
	case dispatchSequence:
		return evalSequence(ctx, fr, n.branches)
	case dispatchSelection:
		return evalSelection(ctx, fr, n.branches)
	case dispatchNone:
		inactive := ctx.inactive()
		for _, branch := range n.branches {
			if out := evalBranch(inactive, fr, branch); out.IsNonFailure() {
				return Failure[E, F]()
			}
		}
		return Success[E, F]()
	case dispatchVisit:
		for _, branch := range n.branches {
			evalBranch(ctx, fr, branch)
		}
		return Success[E, F]()
	default:
		return Failure[E, F]()
	}
}

func evalRef[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], n refNode[E]) Outcome[E, F] {
	args := reifyProtos(ctx, fr, n.args)
	if n.mode == refQuery {
		ctx = ctx.inactive()
	}
	switch n.target.kind {
	case refCond:
		handler := ctx.tree.ids.conds.node(n.target.index)
		return BoolOutcome[E, F](handler(ctx.view, args))
	case refCustom:
		handler := ctx.tree.ids.customs.node(n.target.index)
		seed := fnvSeed(ctx.tree.ids.customs.name(n.target.index))
		return handler(ctx.view, args, ctx.tree, ctx.active, seed)
	case refKindNode:
		root := ctx.tree.ids.nodes.node(n.target.index)
		return evalCached(ctx, n.target, args, func() Outcome[E, F] {
			return evalNodeRoot(ctx, root, args)
		})
	case refAction:
		root := ctx.tree.ids.actions.node(n.target.index)
		return evalCached(ctx, n.target, args, func() Outcome[E, F] {
			return evalActionRoot(ctx, root, args)
		})
	default:
		return Failure[E, F]()
	}
}

// evalCached memoizes root invocations at reference sites. A
// tentative failure is inserted before computing so recursive
// re-entry on the same key fails instead of looping.
func evalCached[C any, E comparable, F any](ctx *context[C, E, F], target refIdx, args []value.Value[E], compute func() Outcome[E, F]) Outcome[E, F] {
	if out, hit := ctx.cache.get(target, args, ctx.active); hit {
		return out
	}
	ctx.cache.put(target, args, ctx.active, Failure[E, F]())
	out := compute()
	ctx.cache.put(target, args, ctx.active, out)
	return out
}

// evalNodeRoot pushes the arguments into a fresh lexical frame and
// evaluates the body as a sequence.
func evalNodeRoot[C any, E comparable, F any](ctx *context[C, E, F], root *nodeRoot[E], args []value.Value[E]) Outcome[E, F] {
	fr := newFrame[E](root.lexicals)
	for _, arg := range args {
		fr.push(arg)
	}
	return evalSequence(ctx, fr, root.body)
}

// evalActionRoot materializes an action: conditions first (inactive,
// all must succeed), then effects left to right (a refused effect
// aborts), then inherited effects, then the action value itself,
// which the context's policy turns into an outcome.
func evalActionRoot[C any, E comparable, F any](ctx *context[C, E, F], root *actionRoot[E], args []value.Value[E]) Outcome[E, F] {
	fr := newFrame[E](root.lexicals)
	for _, arg := range args {
		fr.push(arg)
	}

	inactive := ctx.inactive()
	for _, condition := range root.conditions {
		if out := evalBranch(inactive, fr, condition); out.IsNonSuccess() {
			return Failure[E, F]()
		}
	}

	var effects []F
	for _, ref := range root.effects {
		handler := ctx.tree.ids.effects.node(ref.effect)
		eff, ok := handler(ctx.view, reifyProtos(ctx, fr, ref.args))
		if !ok {
			return Failure[E, F]()
		}
		effects = append(effects, eff)
	}

	for _, branch := range root.inherit {
		var inherited []Action[E, F]
		sub := ctx.inherit(&inherited)
		if out := evalBranch(sub, fr, branch); out.IsFailure() {
			return Failure[E, F]()
		}
		for i := range inherited {
			effects = append(effects, inherited[i].Effects()...)
		}
	}

	arguments := make([]value.Value[E], len(args))
	copy(arguments, args)
	return ctx.emit(newAction(root.index, arguments, effects))
}

// evalDiscovery runs an action's discovery branches for their side
// effects on the context's sink.
func evalDiscovery[C any, E comparable, F any](ctx *context[C, E, F], root *actionRoot[E]) {
	fr := newFrame[E](root.lexicals)
	for _, branch := range root.discovery {
		evalBranch(ctx, fr, branch)
	}
}

func evalQuery[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], n queryNode[E]) Outcome[E, F] {
	args := reifyProtos(ctx, fr, n.args)
	handler := ctx.tree.ids.queries.node(n.query)
	seq := handler(ctx.view, args)
	if seq == nil {
		return Failure[E, F]()
	}

	mark := fr.mark()
	defer fr.truncate(mark)

	switch n.mode {
	case querySequence:
		out := Success[E, F]()
		for v := range seq {
			fr.truncate(mark)
			if !matchPattern(ctx, fr, n.pattern, v) {
				continue
			}
			if r := evalSequence(ctx, fr, n.body); r.IsNonSuccess() {
				out = r
				break
			}
		}
		return out
	case querySelection:
		out := Failure[E, F]()
		for v := range seq {
			fr.truncate(mark)
			if !matchPattern(ctx, fr, n.pattern, v) {
				continue
			}
			if r := evalSequence(ctx, fr, n.body); r.IsNonFailure() {
				out = r
				break
			}
		}
		return out
	case queryFirst:
		out := Failure[E, F]()
		for v := range seq {
			fr.truncate(mark)
			if !matchPattern(ctx, fr, n.pattern, v) {
				continue
			}
			out = evalSequence(ctx, fr, n.body)
			break
		}
		return out
	case queryLast:
		var last value.Value[E]
		found := false
		for v := range seq {
			fr.truncate(mark)
			if matchPattern(ctx, fr, n.pattern, v) {
				last = v
				found = true
			}
		}
		if !found {
			return Failure[E, F]()
		}
		fr.truncate(mark)
		matchPattern(ctx, fr, n.pattern, last)
		return evalSequence(ctx, fr, n.body)
	case queryVisit:
		for v := range seq {
			fr.truncate(mark)
			if matchPattern(ctx, fr, n.pattern, v) {
				evalSequence(ctx, fr, n.body)
			}
		}
		return Success[E, F]()
	default:
		return Failure[E, F]()
	}
}

func evalMatch[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], n matchNode[E]) Outcome[E, F] {
	mark := fr.mark()
	defer fr.truncate(mark)
	// Targets reify against the outer scope, before any binds.
	targets := reifyProtos(ctx, fr, n.targets)
	for i, p := range n.patterns {
		if !matchPattern(ctx, fr, p, targets[i]) {
			return Failure[E, F]()
		}
	}
	return evalSequence(ctx, fr, n.body)
}

func evalRandom[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], n randomNode[E]) Outcome[E, F] {
	seed := n.seed
	for _, global := range n.seedGlobals {
		v := ctx.tree.ids.globals.node(global)(ctx.view)
		if u, ok := v.AsInt64(); ok {
			seed += uint64(u)
		}
	}
	rng := rand.New(rand.NewSource(int64(seed)))
	order := rng.Perm(len(n.branches))

	for pos, index := range order {
		out := evalBranch(ctx, fr, n.branches[index])
		if out.IsFailure() {
			continue
		}
		if n.checkAny && out.IsAction() {
			// Commit to the action only if one of the remaining
			// shuffled branches is feasible.
			inactive := ctx.inactive()
			feasible := false
			for _, rest := range order[pos+1:] {
				if evalBranch(inactive, fr, n.branches[rest]).IsNonFailure() {
					feasible = true
					break
				}
			}
			if !feasible {
				return Failure[E, F]()
			}
		}
		return out
	}
	return Failure[E, F]()
}

func evalCond[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], n condNode[E]) Outcome[E, F] {
	inactive := ctx.inactive()
	for _, c := range n.cases {
		if evalBranch(inactive, fr, c.guard).IsSuccess() {
			return evalSequence(ctx, fr, c.body)
		}
	}
	if n.hasElse {
		return evalSequence(ctx, fr, n.elseBody)
	}
	return Failure[E, F]()
}

func reifyProto[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], p protoValue[E]) value.Value[E] {
	switch p := p.(type) {
	case protoConst[E]:
		return p.value
	case protoLexical[E]:
		return fr.get(p.index)
	case protoGlobal[E]:
		return ctx.tree.ids.globals.node(p.index)(ctx.view)
	case protoList[E]:
		return value.List(reifyProtos(ctx, fr, p.items))
	default:
		return value.Value[E]{}
	}
}

func reifyProtos[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], protos []protoValue[E]) []value.Value[E] {
	if len(protos) == 0 {
		return nil
	}
	values := make([]value.Value[E], len(protos))
	for i, p := range protos {
		values[i] = reifyProto(ctx, fr, p)
	}
	return values
}

func matchPattern[C any, E comparable, F any](ctx *context[C, E, F], fr *frame[E], p pattern[E], v value.Value[E]) bool {
	switch p := p.(type) {
	case patIgnore[E]:
		return true
	case patBind[E]:
		fr.push(v)
		return true
	case patLexical[E]:
		return fr.get(p.index).Equal(v)
	case patGlobal[E]:
		return ctx.tree.ids.globals.node(p.index)(ctx.view).Equal(v)
	case patExact[E]:
		return p.value.Equal(v)
	case patList[E]:
		list, ok := v.List()
		if !ok || len(list) != len(p.items) {
			return false
		}
		for i, item := range p.items {
			if !matchPattern(ctx, fr, item, list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// fnvSeed derives a stable 64-bit seed from a name.
func fnvSeed(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
