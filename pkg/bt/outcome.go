package bt

import "github.com/cwbudde/go-rea/pkg/value"

// Status discriminates the three evaluation results.
type Status uint8

const (
	// StatusFailure is the failed outcome. It is the zero value, so
	// Outcome{} fails.
	StatusFailure Status = iota
	// StatusSuccess is the successful outcome without an action.
	StatusSuccess
	// StatusAction is a successful outcome carrying a produced
	// action.
	StatusAction
)

// Outcome is the result of evaluating a node: success, failure, or a
// produced action. The zero value is failure.
type Outcome[E comparable, F any] struct {
	Status Status
	Action *Action[E, F]
}

// Success returns the successful outcome.
func Success[E comparable, F any]() Outcome[E, F] {
	return Outcome[E, F]{Status: StatusSuccess}
}

// Failure returns the failed outcome.
func Failure[E comparable, F any]() Outcome[E, F] {
	return Outcome[E, F]{}
}

// ActionOutcome returns an outcome carrying the given action.
func ActionOutcome[E comparable, F any](action Action[E, F]) Outcome[E, F] {
	return Outcome[E, F]{Status: StatusAction, Action: &action}
}

// BoolOutcome converts a predicate result to success or failure.
func BoolOutcome[E comparable, F any](ok bool) Outcome[E, F] {
	if ok {
		return Success[E, F]()
	}
	return Failure[E, F]()
}

// IsSuccess reports whether the outcome is plain success.
func (o Outcome[E, F]) IsSuccess() bool { return o.Status == StatusSuccess }

// IsFailure reports whether the outcome is failure.
func (o Outcome[E, F]) IsFailure() bool { return o.Status == StatusFailure }

// IsAction reports whether the outcome carries an action.
func (o Outcome[E, F]) IsAction() bool { return o.Status == StatusAction }

// IsNonSuccess reports whether the outcome is failure or an action.
func (o Outcome[E, F]) IsNonSuccess() bool { return o.Status != StatusSuccess }

// IsNonFailure reports whether the outcome is success or an action.
func (o Outcome[E, F]) IsNonFailure() bool { return o.Status != StatusFailure }

// Effects returns the produced action's effects, or nil for success
// and failure outcomes.
func (o Outcome[E, F]) Effects() []F {
	if o.Action == nil {
		return nil
	}
	return o.Action.Effects()
}

// Action is a concrete grounded action: the declared action it came
// from, the arguments it was produced with, and the effects its
// materialization accumulated. Actions are immutable and
// self-contained; they stay valid after the evaluation returns.
type Action[E comparable, F any] struct {
	index     int
	arguments []value.Value[E]
	effects   []F
}

func newAction[E comparable, F any](index int, arguments []value.Value[E], effects []F) Action[E, F] {
	return Action[E, F]{index: index, arguments: arguments, effects: effects}
}

// Arguments returns the argument values the action was produced
// with. Callers must not mutate the returned slice.
func (a *Action[E, F]) Arguments() []value.Value[E] {
	return a.arguments
}

// Effects returns the accumulated effects in materialization order.
// Callers must not mutate the returned slice.
func (a *Action[E, F]) Effects() []F {
	return a.effects
}
