package value

import "testing"

func TestFromGoSliceRoundTrip(t *testing.T) {
	args, err := FromGoSlice[ext](23, "target", 1.5, ext{id: 4})
	if err != nil {
		t.Fatalf("FromGoSlice failed: %v", err)
	}
	if len(args) != 4 {
		t.Fatalf("len = %d", len(args))
	}

	var (
		i int64
		s string
		f float64
		e ext
	)
	if !Decode(args, &i, &s, &f, &e) {
		t.Fatal("Decode failed")
	}
	if i != 23 || s != "target" || f != 1.5 || e.id != 4 {
		t.Errorf("decoded %v %q %v %v", i, s, f, e)
	}
}

func TestFromGoList(t *testing.T) {
	v, err := FromGo[ext]([]any{1, "a", []any{2}})
	if err != nil {
		t.Fatalf("FromGo failed: %v", err)
	}
	items, ok := v.List()
	if !ok || len(items) != 3 {
		t.Fatalf("list = %v", v)
	}
	if nested, ok := items[2].List(); !ok || len(nested) != 1 {
		t.Errorf("nested list = %v", items[2])
	}
}

func TestFromGoUnsupported(t *testing.T) {
	if _, err := FromGo[ext](struct{ x int }{}); err == nil {
		t.Fatal("expected conversion error")
	}
}

func TestDecodeStrictArity(t *testing.T) {
	args := []val{Int[ext](1), Int[ext](2)}
	var a, b, c int64
	if Decode(args, &a) {
		t.Error("short destination list accepted")
	}
	if Decode(args, &a, &b, &c) {
		t.Error("long destination list accepted")
	}
	if !Decode(args, &a, &b) {
		t.Error("exact arity rejected")
	}
}

func TestDecodeNoPartialBinding(t *testing.T) {
	args := []val{Int[ext](1), Sym[ext]("not-an-int")}
	a, b := int64(-1), int64(-1)
	if Decode(args, &a, &b) {
		t.Fatal("mismatched decode succeeded")
	}
	if a != -1 || b != -1 {
		t.Errorf("partial binding happened: a=%d b=%d", a, b)
	}
}

func TestDecodeGenericDestinations(t *testing.T) {
	args := []val{ListOf(Int[ext](1)), Float[ext](2.5), Int[ext](9)}
	var (
		list []val
		f    float64
		any  val
	)
	if !Decode(args, &list, &f, &any) {
		t.Fatal("Decode failed")
	}
	if len(list) != 1 || f != 2.5 || !any.Equal(Int[ext](9)) {
		t.Errorf("decoded %v %v %v", list, f, any)
	}

	// Ints coerce to float destinations.
	var g float64
	if !Decode([]val{Int[ext](3)}, &g) || g != 3 {
		t.Errorf("int into float destination = %v", g)
	}
}
