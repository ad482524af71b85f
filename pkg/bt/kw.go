package bt

// Directive keywords recognized by the compiler. These are not
// reserved identifiers; they only have meaning in directive
// position.
const (
	kwNode   = "node"
	kwAction = "action"

	kwConditions = "conditions"
	kwEffects    = "effects"
	kwDiscovery  = "discovery"
	kwInherit    = "inherit"

	kwSequence  = "do"
	kwSelect    = "select"
	kwNone      = "none"
	kwVisit     = "visit"
	kwMatch     = "match"
	kwSwitch    = "switch"
	kwCase      = "case"
	kwRandom    = "random"
	kwAnyRandom = "any-random"
	kwCond      = "cond"
	kwWhen      = "when"
	kwElse      = "else"

	kwForEvery   = "for-every"
	kwForAny     = "for-any"
	kwWithFirst  = "with-first"
	kwWithLast   = "with-last"
	kwVisitEvery = "visit-every"
)
