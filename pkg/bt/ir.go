package bt

import "github.com/cwbudde/go-rea/pkg/value"

// The compiled intermediate representation. Nodes are immutable
// after compilation and shared by index; evaluation never mutates
// them.

// protoValue is an unreified argument: a literal, a lexical slot, a
// global, or a list of such.
type protoValue[E comparable] interface {
	isProto()
}

type protoConst[E comparable] struct {
	value value.Value[E]
}

type protoLexical[E comparable] struct {
	index int
}

type protoGlobal[E comparable] struct {
	index int
}

type protoList[E comparable] struct {
	items []protoValue[E]
}

func (protoConst[E]) isProto()   {}
func (protoLexical[E]) isProto() {}
func (protoGlobal[E]) isProto()  {}
func (protoList[E]) isProto()    {}

// pattern is a destructuring template. Bind allocates the next
// lexical slot; Lexical and Global compare against existing
// bindings; List matches structurally.
type pattern[E comparable] interface {
	isPattern()
}

type patIgnore[E comparable] struct{}

type patBind[E comparable] struct{}

type patLexical[E comparable] struct {
	index int
}

type patGlobal[E comparable] struct {
	index int
}

type patExact[E comparable] struct {
	value value.Value[E]
}

type patList[E comparable] struct {
	items []pattern[E]
}

func (patIgnore[E]) isPattern()  {}
func (patBind[E]) isPattern()    {}
func (patLexical[E]) isPattern() {}
func (patGlobal[E]) isPattern()  {}
func (patExact[E]) isPattern()   {}
func (patList[E]) isPattern()    {}

// dispatchKind selects a dispatch combinator.
type dispatchKind uint8

const (
	dispatchSequence dispatchKind = iota
	dispatchSelection
	dispatchNone
	dispatchVisit
)

// queryMode selects how query results drive the body.
type queryMode uint8

const (
	querySequence queryMode = iota
	querySelection
	queryFirst
	queryLast
	queryVisit
)

// refMode distinguishes plain references from '?' references, which
// force inactive evaluation.
type refMode uint8

const (
	refInherit refMode = iota
	refQuery
)

// node is one compiled tree node.
type node[E comparable] interface {
	isNode()
}

type successNode[E comparable] struct{}

type failureNode[E comparable] struct{}

type dispatchNode[E comparable] struct {
	mode     dispatchKind
	branches []node[E]
}

type refNode[E comparable] struct {
	target refIdx
	mode   refMode
	args   []protoValue[E]
}

type queryNode[E comparable] struct {
	pattern pattern[E]
	query   int
	args    []protoValue[E]
	mode    queryMode
	body    []node[E]
}

type matchNode[E comparable] struct {
	targets  []protoValue[E]
	patterns []pattern[E]
	body     []node[E]
}

type randomNode[E comparable] struct {
	seed        uint64
	seedGlobals []int
	branches    []node[E]
	checkAny    bool
}

type condCase[E comparable] struct {
	guard node[E]
	body  []node[E]
}

type condNode[E comparable] struct {
	cases    []condCase[E]
	elseBody []node[E]
	hasElse  bool
}

func (successNode[E]) isNode()  {}
func (failureNode[E]) isNode()  {}
func (dispatchNode[E]) isNode() {}
func (refNode[E]) isNode()      {}
func (queryNode[E]) isNode()    {}
func (matchNode[E]) isNode()    {}
func (randomNode[E]) isNode()   {}
func (condNode[E]) isNode()     {}

// nodeRoot is a compiled reusable logic subtree. The body branches
// evaluate as a sequence. lexicals is the peak number of concurrent
// lexical slots the body uses, parameters included.
type nodeRoot[E comparable] struct {
	index    int
	body     []node[E]
	lexicals int
}

// effectRef pairs a registered effect with its unreified arguments.
type effectRef[E comparable] struct {
	effect int
	args   []protoValue[E]
}

// actionRoot is a compiled action declaration. The discovery
// branches compile in their own scope (no parameters); conditions,
// effects, and inherit branches compile under the parameter scope.
type actionRoot[E comparable] struct {
	index      int
	conditions []node[E]
	effects    []effectRef[E]
	inherit    []node[E]
	discovery  []node[E]
	lexicals   int
}

func symValue[E comparable](s string) value.Value[E] { return value.Sym[E](s) }

func intValue[E comparable](i int64) value.Value[E] { return value.Int[E](i) }

func floatValue[E comparable](f float64) value.Value[E] { return value.Float[E](f) }
