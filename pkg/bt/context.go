package bt

import "github.com/cwbudde/go-rea/pkg/value"

// DefaultCacheCapacity is the memoization cache size used unless the
// host overrides it with Tree.SetCacheCapacity.
const DefaultCacheCapacity = 4096

// context is the evaluation state threaded through one root
// invocation. Two shapes share it: plain evaluation (sink == nil)
// and discovery (sink != nil, always inactive). The view and tree
// are borrowed for the duration; the cache and sink are the only
// mutable state.
type context[C any, E comparable, F any] struct {
	view   C
	tree   *Tree[C, E, F]
	active bool
	cache  *lruCache[E, F]
	sink   *[]Action[E, F]
	// filter restricts which actions the sink accepts during
	// discovery; filterAny accepts every action (inherit folding).
	filter    int
	filterAny bool
}

func newEvalContext[C any, E comparable, F any](view C, tree *Tree[C, E, F], active bool) *context[C, E, F] {
	return &context[C, E, F]{
		view:   view,
		tree:   tree,
		active: active,
		cache:  newLRUCache[E, F](tree.cacheCapacity()),
	}
}

func newDiscoveryContext[C any, E comparable, F any](view C, tree *Tree[C, E, F], sink *[]Action[E, F], filter int) *context[C, E, F] {
	return &context[C, E, F]{
		view:   view,
		tree:   tree,
		cache:  newLRUCache[E, F](tree.cacheCapacity()),
		sink:   sink,
		filter: filter,
	}
}

// inherit derives a nested discovery context collecting every action
// into a local buffer. It gets a fresh cache: outcomes cached under
// a different sink policy must not leak in.
func (c *context[C, E, F]) inherit(sink *[]Action[E, F]) *context[C, E, F] {
	return &context[C, E, F]{
		view:      c.view,
		tree:      c.tree,
		cache:     newLRUCache[E, F](c.tree.cacheCapacity()),
		sink:      sink,
		filterAny: true,
	}
}

// inactive returns a context that cannot produce actions. The cache
// is shared; cache keys carry the activeness flag.
func (c *context[C, E, F]) inactive() *context[C, E, F] {
	if !c.active {
		return c
	}
	clone := *c
	clone.active = false
	return &clone
}

// emit applies the context's action policy: produced in active
// evaluation, collected in discovery when the filter matches, and
// coerced to failure otherwise.
func (c *context[C, E, F]) emit(action Action[E, F]) Outcome[E, F] {
	if c.sink != nil {
		if c.filterAny || c.filter == action.index {
			*c.sink = append(*c.sink, action)
			return Success[E, F]()
		}
		return Failure[E, F]()
	}
	if c.active {
		return ActionOutcome(action)
	}
	return Failure[E, F]()
}

// frame is the lexical slot stack of one root invocation. Slot i is
// the i-th lexical declared during compilation; scopes truncate back
// on exit.
type frame[E comparable] struct {
	slots []value.Value[E]
}

func newFrame[E comparable](lexicals int) *frame[E] {
	return &frame[E]{slots: make([]value.Value[E], 0, lexicals)}
}

func (f *frame[E]) push(v value.Value[E]) {
	f.slots = append(f.slots, v)
}

func (f *frame[E]) get(index int) value.Value[E] {
	return f.slots[index]
}

func (f *frame[E]) mark() int {
	return len(f.slots)
}

func (f *frame[E]) truncate(mark int) {
	f.slots = f.slots[:mark]
}

// lruCache memoizes reference outcomes keyed by (reference,
// arguments, activeness). It is the original linear-scan
// promote-to-front list: argument values carry host externals with
// no hashable form, so lines are found by equality scan.
type lruCache[E comparable, F any] struct {
	lines    []cacheLine[E, F]
	capacity int
}

type cacheLine[E comparable, F any] struct {
	ref     refIdx
	active  bool
	args    []value.Value[E]
	outcome Outcome[E, F]
}

func newLRUCache[E comparable, F any](capacity int) *lruCache[E, F] {
	return &lruCache[E, F]{capacity: capacity}
}

func (c *lruCache[E, F]) find(ref refIdx, args []value.Value[E], active bool) int {
	for i := range c.lines {
		line := &c.lines[i]
		if line.ref == ref && line.active == active && value.EqualSlices(line.args, args) {
			return i
		}
	}
	return -1
}

// get returns the cached outcome and promotes the line to the front.
func (c *lruCache[E, F]) get(ref refIdx, args []value.Value[E], active bool) (Outcome[E, F], bool) {
	i := c.find(ref, args, active)
	if i < 0 {
		return Outcome[E, F]{}, false
	}
	line := c.lines[i]
	copy(c.lines[1:i+1], c.lines[:i])
	c.lines[0] = line
	return line.outcome, true
}

// put inserts or replaces the line for the key at the front,
// evicting from the back past capacity.
func (c *lruCache[E, F]) put(ref refIdx, args []value.Value[E], active bool, outcome Outcome[E, F]) {
	if c.capacity <= 0 {
		return
	}
	if i := c.find(ref, args, active); i >= 0 {
		line := c.lines[i]
		line.outcome = outcome
		copy(c.lines[1:i+1], c.lines[:i])
		c.lines[0] = line
		return
	}
	line := cacheLine[E, F]{ref: ref, active: active, args: args, outcome: outcome}
	c.lines = append(c.lines, cacheLine[E, F]{})
	copy(c.lines[1:], c.lines)
	c.lines[0] = line
	if len(c.lines) > c.capacity {
		c.lines = c.lines[:c.capacity]
	}
}
