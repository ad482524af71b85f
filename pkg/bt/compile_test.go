package bt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-rea/pkg/bt"
	"github.com/cwbudde/go-rea/pkg/script"
)

func compileError[C any, F any](t *testing.T, b *bt.Builder[C, none, F], source string) *bt.CompileError {
	t.Helper()
	normalized, err := script.Normalize('|', source)
	require.NoError(t, err)
	require.NoError(t, b.Load("test", normalized))
	_, err = b.Compile(script.Spaces(2))
	require.Error(t, err)
	var compileErr *bt.CompileError
	require.ErrorAs(t, err, &compileErr)
	return compileErr
}

func TestShadowedLexicalError(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("ok-done", 0, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|node: t $a
		|  match $a: $a
		|    ok-done
	`)
	assert.Equal(t, bt.CodeShadowedLexical, err.Code)
	assert.Contains(t, err.Message, "$a")
}

func TestShadowedGlobalError(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterGlobal("$g", func(_ none) val { return iv(1) }))
	err := compileError(t, b, `
		|node: t $g
		|  ok-done
	`)
	assert.Equal(t, bt.CodeShadowedGlobal, err.Code)
}

func TestUnboundVariableError(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("check", 1, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|node: t
		|  check $missing
	`)
	assert.Equal(t, bt.CodeUnboundVariable, err.Code)
	assert.Contains(t, err.Message, "$missing")
}

func TestConflictBetweenScripts(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.Load("first.rea", "node: dup\n"))
	require.NoError(t, b.Load("second.rea", "node: dup\n"))
	_, err := b.Compile(script.Spaces(2))
	var compileErr *bt.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, bt.CodeConflict, compileErr.Code)
	assert.Equal(t, "second.rea", compileErr.Origin.Source)
	require.NotNil(t, compileErr.Previous)
	assert.Equal(t, "first.rea", compileErr.Previous.Source)
	assert.False(t, compileErr.Predefined)
}

func TestConflictWithHostRegistered(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("dup", 0, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|node: dup
	`)
	assert.Equal(t, bt.CodeConflict, err.Code)
	assert.Nil(t, err.Previous)
	assert.True(t, err.Predefined)
	assert.Contains(t, err.Error(), "predefined")
}

func TestUnknownReferenceError(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	err := compileError(t, b, `
		|node: t
		|  no-such-thing
	`)
	assert.Equal(t, bt.CodeIdentifier, err.Code)
	assert.Contains(t, err.Message, "no-such-thing")
}

func TestReferenceArityError(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("check", 1, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|node: t
		|  check 1 2
	`)
	assert.Equal(t, bt.CodeIdentifier, err.Code)
	assert.Contains(t, err.Message, "expected 1 arguments, given 2")
}

func TestEffectSlotKindError(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("check", 1, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|action: t $v
		|  effects:
		|    check $v
	`)
	assert.Equal(t, bt.CodeIdentifier, err.Code)
	assert.Contains(t, err.Message, "expected an effect")
}

func TestQuerySlotKindError(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("check", 1, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|node: t
		|  for-every $v: check
		|    check $v
	`)
	assert.Equal(t, bt.CodeIdentifier, err.Code)
	assert.Contains(t, err.Message, "expected a query")
}

func TestPatternArityError(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("ok-done", 0, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|node: t $v
		|  match $a $b: $v
		|    ok-done
	`)
	assert.Equal(t, bt.CodePatternArity, err.Code)
}

func TestInvalidSeedReference(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("ok-done", 0, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|node: t
		|  random: seed
		|    ok-done
	`)
	assert.Equal(t, bt.CodeInvalidSeedRef, err.Code)
}

func TestSeedMustBeGlobal(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("ok-done", 0, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|node: t
		|  random: $unknown
		|    ok-done
	`)
	assert.Equal(t, bt.CodeIdentifier, err.Code)
}

func TestUnrecognizedActionDirective(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	err := compileError(t, b, `
		|action: t
		|  bogus:
	`)
	assert.Equal(t, bt.CodeUnrecognizedActionDirective, err.Code)
}

func TestUnrecognizedNode(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	err := compileError(t, b, `
		|node: t
		|  bogus: 1
	`)
	assert.Equal(t, bt.CodeUnrecognizedNode, err.Code)
}

func TestInvalidRootDeclaration(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	err := compileError(t, b, `
		|just-a-statement
	`)
	assert.Equal(t, bt.CodeInvalidRootDeclaration, err.Code)
}

func TestInvalidSwitchCase(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("ok-done", 0, func(_ none, _ []val) bool { return true }))
	err := compileError(t, b, `
		|node: t $v
		|  switch: $v
		|    ok-done
	`)
	assert.Equal(t, bt.CodeInvalidSwitchCase, err.Code)
}

func TestParseErrorSurfacesOrigin(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.Load("broken.rea", "node: t\n   ok\n"))
	_, err := b.Compile(script.Spaces(2))
	var compileErr *bt.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, bt.CodeParse, compileErr.Code)
	assert.Equal(t, "broken.rea", compileErr.Origin.Source)
	assert.Equal(t, 2, compileErr.Origin.Pos.Line)
}

func TestCompileErrorFormat(t *testing.T) {
	b := bt.NewBuilder[none, none, none]()
	err := compileError(t, b, `
		|node: t
		|  no-such-thing
	`)
	formatted := err.Format(false)
	assert.Contains(t, formatted, "Error in test:")
	assert.Contains(t, formatted, "no-such-thing")
	lines := strings.Split(formatted, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[1], " | ")
	assert.Contains(t, lines[2], "^")
}

func TestCompileOrderIndependence(t *testing.T) {
	// Declarations may reference each other in any order.
	b := bt.NewBuilder[none, none, none]()
	require.NoError(t, b.RegisterCondition("ok-done", 0, func(_ none, _ []val) bool { return true }))
	tree := compileTree(t, b, `
		|node: caller
		|  callee
		|node: callee
		|  ok-done
	`)
	out, err := tree.Evaluate(none{}, "caller", nil)
	require.NoError(t, err)
	assert.True(t, out.IsSuccess())
}
