package value

import (
	"math"
	"testing"
)

type ext struct{ id int }

type val = Value[ext]

func TestKindsAndAccessors(t *testing.T) {
	tests := []struct {
		name string
		v    val
		kind Kind
		text string
	}{
		{"symbol", Sym[ext]("hello"), KindSymbol, "hello"},
		{"int", Int[ext](-42), KindInt, "-42"},
		{"float", Float[ext](2.5), KindFloat, "2.5"},
		{"list", ListOf(Int[ext](1), Sym[ext]("a")), KindList, "[1 a]"},
		{"ext", Ext(ext{id: 7}), KindExt, "<{7}>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("kind = %v, want %v", tt.v.Kind(), tt.kind)
			}
			if got := tt.v.String(); got != tt.text {
				t.Errorf("string = %q, want %q", got, tt.text)
			}
		})
	}

	if s, ok := Sym[ext]("x").Symbol(); !ok || s != "x" {
		t.Errorf("symbol accessor failed")
	}
	if _, ok := Sym[ext]("x").Int(); ok {
		t.Errorf("int accessor succeeded on symbol")
	}
	if items, ok := ListOf(Int[ext](1)).List(); !ok || len(items) != 1 {
		t.Errorf("list accessor failed")
	}
	if e, ok := Ext(ext{id: 3}).Ext(); !ok || e.id != 3 {
		t.Errorf("ext accessor failed")
	}
}

func TestNumericCoercion(t *testing.T) {
	if i, ok := Int[ext](5).AsInt64(); !ok || i != 5 {
		t.Errorf("int AsInt64 = %d, %v", i, ok)
	}
	if i, ok := Float[ext](2.9).AsInt64(); !ok || i != 2 {
		t.Errorf("float AsInt64 = %d, %v", i, ok)
	}
	if f, ok := Int[ext](5).AsFloat64(); !ok || f != 5.0 {
		t.Errorf("int AsFloat64 = %v, %v", f, ok)
	}
	if _, ok := Sym[ext]("5").AsInt64(); ok {
		t.Errorf("symbol coerced to int")
	}
	if _, ok := ListOf(Int[ext](1)).AsFloat64(); ok {
		t.Errorf("list coerced to float")
	}
}

func TestEqual(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name  string
		a, b  val
		equal bool
	}{
		{"same symbol", Sym[ext]("a"), Sym[ext]("a"), true},
		{"different symbol", Sym[ext]("a"), Sym[ext]("b"), false},
		{"int vs float", Int[ext](1), Float[ext](1), false},
		{"nan equals nan", Float[ext](nan), Float[ext](nan), true},
		{"nan not zero", Float[ext](nan), Float[ext](0), false},
		{"zero differs from neg zero", Float[ext](0.0), Float[ext](math.Copysign(0, -1)), false},
		{"lists", ListOf(Int[ext](1), Int[ext](2)), ListOf(Int[ext](1), Int[ext](2)), true},
		{"list length", ListOf(Int[ext](1)), ListOf(Int[ext](1), Int[ext](2)), false},
		{"nested", ListOf(ListOf(Sym[ext]("x"))), ListOf(ListOf(Sym[ext]("x"))), true},
		{"ext", Ext(ext{id: 1}), Ext(ext{id: 1}), true},
		{"ext differs", Ext(ext{id: 1}), Ext(ext{id: 2}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("equal = %v, want %v", got, tt.equal)
			}
			if got := tt.b.Equal(tt.a); got != tt.equal {
				t.Errorf("equal not symmetric")
			}
		})
	}
}

func TestCompareTotalOrder(t *testing.T) {
	ordered := []val{
		Sym[ext]("a"),
		Sym[ext]("b"),
		Int[ext](-1),
		Int[ext](10),
		Float[ext](math.Inf(-1)),
		Float[ext](-1.5),
		Float[ext](0),
		Float[ext](math.Inf(1)),
		Float[ext](math.NaN()),
		ListOf(Int[ext](1)),
		ListOf(Int[ext](1), Int[ext](0)),
		ListOf(Int[ext](2)),
	}
	for i := range ordered {
		for j := range ordered {
			got := ordered[i].Compare(ordered[j])
			switch {
			case i < j && got >= 0:
				t.Errorf("Compare(%v, %v) = %d, want < 0", ordered[i], ordered[j], got)
			case i > j && got <= 0:
				t.Errorf("Compare(%v, %v) = %d, want > 0", ordered[i], ordered[j], got)
			case i == j && got != 0:
				t.Errorf("Compare(%v, %v) = %d, want 0", ordered[i], ordered[j], got)
			}
		}
	}
}

func TestEqualSlices(t *testing.T) {
	a := []val{Int[ext](1), Sym[ext]("x")}
	b := []val{Int[ext](1), Sym[ext]("x")}
	if !EqualSlices(a, b) {
		t.Errorf("equal slices reported unequal")
	}
	if EqualSlices(a, b[:1]) {
		t.Errorf("different lengths reported equal")
	}
	if EqualSlices(a, []val{Int[ext](1), Sym[ext]("y")}) {
		t.Errorf("different elements reported equal")
	}
}

func TestNames(t *testing.T) {
	valid := []string{"foo", "with-dash", "symbols=", "a.b", "+", "Δ"}
	for _, s := range valid {
		if !IsSymbolName(s) {
			t.Errorf("IsSymbolName(%q) = false", s)
		}
	}
	invalid := []string{"", "-lead", "9lead", "has space", "has$dollar", "q?", "semi;colon", "br[acket"}
	for _, s := range invalid {
		if IsSymbolName(s) {
			t.Errorf("IsSymbolName(%q) = true", s)
		}
	}
	if !IsVariableName("$x") || IsVariableName("x") || IsVariableName("$") || IsVariableName("$9") {
		t.Errorf("IsVariableName misclassified")
	}
}
