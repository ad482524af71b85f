package bt

import (
	"fmt"

	"github.com/cwbudde/go-rea/pkg/script"
)

// env is the compiler's lexical environment: the stack of declared
// variables by name and the high-water mark written into each root's
// lexicals count.
type env[C any, E comparable, F any] struct {
	ids     *idSpace[C, E, F]
	source  string
	text    string
	vars    []string
	maxVars int
}

func newEnv[C any, E comparable, F any](ids *idSpace[C, E, F], source, text string) *env[C, E, F] {
	return &env[C, E, F]{ids: ids, source: source, text: text}
}

func (e *env[C, E, F]) errorAt(code CompileErrorCode, pos script.Position, message string) *CompileError {
	return &CompileError{
		Code:    code,
		Message: message,
		Origin:  Origin{Source: e.source, Pos: pos},
		source:  e.text,
	}
}

// declare allocates the next lexical slot for a variable. Shadowing
// an existing lexical or a registered global is an error.
func (e *env[C, E, F]) declare(name string, pos script.Position) (int, error) {
	for _, prev := range e.vars {
		if prev == name {
			return 0, e.errorAt(CodeShadowedLexical, pos,
				fmt.Sprintf("variable %q shadows existing lexical", name))
		}
	}
	if has(&e.ids.globals, name) {
		return 0, e.errorAt(CodeShadowedGlobal, pos,
			fmt.Sprintf("variable %q shadows existing global", name))
	}
	index := len(e.vars)
	e.vars = append(e.vars, name)
	if len(e.vars) > e.maxVars {
		e.maxVars = len(e.vars)
	}
	return index, nil
}

// mark and reset bracket a lexical scope; reset truncates on exit,
// normal or abnormal.
func (e *env[C, E, F]) mark() int {
	return len(e.vars)
}

func (e *env[C, E, F]) reset(mark int) {
	e.vars = e.vars[:mark]
}

// resolve maps a variable in value position to a lexical slot or a
// global.
func (e *env[C, E, F]) resolve(name string, pos script.Position) (protoValue[E], error) {
	for i, prev := range e.vars {
		if prev == name {
			return protoLexical[E]{index: i}, nil
		}
	}
	if index, ok := e.ids.globals.find(name); ok {
		return protoGlobal[E]{index: index}, nil
	}
	return nil, e.errorAt(CodeUnboundVariable, pos, fmt.Sprintf("unbound variable %q", name))
}

// resolvePattern maps a variable in pattern position. A repeated
// name within the same pattern scope compares for equality against
// the slot bound by its first occurrence; a name bound in an
// enclosing scope is a shadowing error; a global compares against
// its value; a fresh name binds a new slot. scopeBase is the frame
// mark taken on entry to the pattern's scope.
func (e *env[C, E, F]) resolvePattern(name string, pos script.Position, scopeBase int) (pattern[E], error) {
	for i, prev := range e.vars {
		if prev == name {
			if i < scopeBase {
				return nil, e.errorAt(CodeShadowedLexical, pos,
					fmt.Sprintf("variable %q shadows existing lexical", name))
			}
			return patLexical[E]{index: i}, nil
		}
	}
	if index, ok := e.ids.globals.find(name); ok {
		return patGlobal[E]{index: index}, nil
	}
	if _, err := e.declare(name, pos); err != nil {
		return nil, err
	}
	return patBind[E]{}, nil
}
