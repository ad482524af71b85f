package bt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cwbudde/go-rea/pkg/script"
	"github.com/cwbudde/go-rea/pkg/value"
)

// ScriptExtension is the file suffix recognized when loading script
// directories.
const ScriptExtension = ".rea"

// Registration errors returned by the Builder. The builder stays
// usable after any of them.
var (
	// ErrInvalidName reports a handler name that is not a valid
	// symbol, or not a valid variable for globals.
	ErrInvalidName = errors.New("invalid identifier name")
	// ErrNameConflict reports a name already registered under any
	// kind.
	ErrNameConflict = errors.New("identifier already registered")
	// ErrInvalidArity reports a negative handler arity.
	ErrInvalidArity = errors.New("arity out of domain")
)

// Builder assembles a Tree: the host registers its primitives, loads
// script sources, and compiles. A Builder is consumed by Compile and
// must not be reused afterwards.
type Builder[C any, E comparable, F any] struct {
	ids         idSpace[C, E, F]
	sources     []scriptSource
	sourceNames map[string]bool
}

type scriptSource struct {
	name    string
	content string
}

// NewBuilder returns an empty builder.
func NewBuilder[C any, E comparable, F any]() *Builder[C, E, F] {
	return &Builder[C, E, F]{sourceNames: make(map[string]bool)}
}

func (b *Builder[C, E, F]) checkName(kind string, name string, wantVariable bool) error {
	valid := value.IsSymbolName(name)
	if wantVariable {
		valid = value.IsVariableName(name)
	}
	if !valid {
		return fmt.Errorf("bt: register %s %q: %w", kind, name, ErrInvalidName)
	}
	if taken, ok := b.ids.kind(name); ok {
		return fmt.Errorf("bt: register %s %q: %w (name is %s)", kind, name, ErrNameConflict, taken)
	}
	return nil
}

// RegisterGlobal registers a nullary value producer. The name must
// be a variable ("$" followed by a symbol).
func (b *Builder[C, E, F]) RegisterGlobal(name string, fn GlobalFunc[C, E]) error {
	if err := b.checkName("global", name, true); err != nil {
		return err
	}
	b.ids.globals.set(name, fn, 0)
	return nil
}

// RegisterCondition registers a pure predicate of the given arity.
func (b *Builder[C, E, F]) RegisterCondition(name string, arity int, fn CondFunc[C, E]) error {
	if arity < 0 {
		return fmt.Errorf("bt: register condition %q: %w", name, ErrInvalidArity)
	}
	if err := b.checkName("condition", name, false); err != nil {
		return err
	}
	b.ids.conds.set(name, fn, arity)
	return nil
}

// RegisterEffect registers an effect producer of the given arity.
func (b *Builder[C, E, F]) RegisterEffect(name string, arity int, fn EffectFunc[C, E, F]) error {
	if arity < 0 {
		return fmt.Errorf("bt: register effect %q: %w", name, ErrInvalidArity)
	}
	if err := b.checkName("effect", name, false); err != nil {
		return err
	}
	b.ids.effects.set(name, fn, arity)
	return nil
}

// RegisterQuery registers a value stream producer of the given
// arity.
func (b *Builder[C, E, F]) RegisterQuery(name string, arity int, fn QueryFunc[C, E]) error {
	if arity < 0 {
		return fmt.Errorf("bt: register query %q: %w", name, ErrInvalidArity)
	}
	if err := b.checkName("query", name, false); err != nil {
		return err
	}
	b.ids.queries.set(name, fn, arity)
	return nil
}

// RegisterCustom registers a full-power operator of the given arity.
func (b *Builder[C, E, F]) RegisterCustom(name string, arity int, fn CustomFunc[C, E, F]) error {
	if arity < 0 {
		return fmt.Errorf("bt: register custom operator %q: %w", name, ErrInvalidArity)
	}
	if err := b.checkName("custom operator", name, false); err != nil {
		return err
	}
	b.ids.customs.set(name, fn, arity)
	return nil
}

// Load buffers an in-memory named source for compilation. Source
// names must be unique.
func (b *Builder[C, E, F]) Load(name, content string) error {
	if b.sourceNames[name] {
		return fmt.Errorf("bt: multiple definitions of named source %q", name)
	}
	b.sourceNames[name] = true
	b.sources = append(b.sources, scriptSource{name: name, content: content})
	return nil
}

// LoadFile reads and buffers one script file. The path becomes the
// source name in diagnostics.
func (b *Builder[C, E, F]) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bt: load %s: %w", path, err)
	}
	return b.Load(path, string(content))
}

// LoadDir buffers every ".rea" file under root, at any depth, in
// lexical path order.
func (b *Builder[C, E, F]) LoadDir(root string) error {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*"+ScriptExtension)
	if err != nil {
		return fmt.Errorf("bt: load directory %s: %w", root, err)
	}
	sort.Strings(matches)
	for _, match := range matches {
		if err := b.LoadFile(filepath.Join(root, match)); err != nil {
			return err
		}
	}
	return nil
}

// Compile parses the buffered sources with the given indentation
// unit, registers every declaration, compiles all bodies, and
// returns the finished tree. The first error aborts compilation.
func (b *Builder[C, E, F]) Compile(indent script.Indent) (*Tree[C, E, F], error) {
	c := newCompiler(&b.ids)
	for _, source := range b.sources {
		tree, err := script.Parse(source.name, source.content, indent)
		if err != nil {
			var parseErr *script.ParseError
			if errors.As(err, &parseErr) {
				return nil, &CompileError{
					Code:    CodeParse,
					Message: parseErr.Message,
					Origin:  Origin{Source: source.name, Pos: parseErr.Pos},
					source:  source.content,
				}
			}
			return nil, err
		}
		if err := c.register(tree, source.content); err != nil {
			return nil, err
		}
	}
	if err := c.compileAll(); err != nil {
		return nil, err
	}
	return &Tree[C, E, F]{ids: b.ids}, nil
}
