package bt

import (
	"testing"

	"github.com/cwbudde/go-rea/pkg/value"
)

type cext = struct{}

func cacheArgs(i int64) []value.Value[cext] {
	return []value.Value[cext]{value.Int[cext](i)}
}

func TestLRUCachePromoteAndReplace(t *testing.T) {
	c := newLRUCache[cext, int](4)
	ref := refIdx{kind: refKindNode, index: 0}

	if _, hit := c.get(ref, cacheArgs(1), true); hit {
		t.Fatal("unexpected hit on empty cache")
	}

	c.put(ref, cacheArgs(1), true, Failure[cext, int]())
	out, hit := c.get(ref, cacheArgs(1), true)
	if !hit || !out.IsFailure() {
		t.Fatalf("placeholder lookup = %v, %v", out, hit)
	}

	// Replacing the placeholder keeps a single line for the key.
	c.put(ref, cacheArgs(1), true, Success[cext, int]())
	out, hit = c.get(ref, cacheArgs(1), true)
	if !hit || !out.IsSuccess() {
		t.Fatalf("replaced lookup = %v, %v", out, hit)
	}
	if len(c.lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(c.lines))
	}
}

func TestLRUCacheKeyIncludesActiveness(t *testing.T) {
	c := newLRUCache[cext, int](4)
	ref := refIdx{kind: refAction, index: 3}
	c.put(ref, cacheArgs(1), true, Success[cext, int]())
	if _, hit := c.get(ref, cacheArgs(1), false); hit {
		t.Fatal("inactive lookup hit an active line")
	}
	if _, hit := c.get(refIdx{kind: refKindNode, index: 3}, cacheArgs(1), true); hit {
		t.Fatal("lookup hit a different reference kind")
	}
	if _, hit := c.get(ref, cacheArgs(2), true); hit {
		t.Fatal("lookup hit different arguments")
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := newLRUCache[cext, int](2)
	ref := refIdx{kind: refKindNode, index: 0}
	c.put(ref, cacheArgs(1), true, Success[cext, int]())
	c.put(ref, cacheArgs(2), true, Success[cext, int]())

	// Touch 1 so 2 becomes least recently used.
	if _, hit := c.get(ref, cacheArgs(1), true); !hit {
		t.Fatal("expected hit for 1")
	}
	c.put(ref, cacheArgs(3), true, Success[cext, int]())

	if _, hit := c.get(ref, cacheArgs(2), true); hit {
		t.Fatal("least recently used line survived eviction")
	}
	if _, hit := c.get(ref, cacheArgs(1), true); !hit {
		t.Fatal("recently used line was evicted")
	}
	if _, hit := c.get(ref, cacheArgs(3), true); !hit {
		t.Fatal("newest line was evicted")
	}
}

func TestIdMapIndices(t *testing.T) {
	var m idMap[int]
	a := m.set("a", 10, 1)
	b := m.set("b", 20, 2)
	if a != 0 || b != 1 {
		t.Fatalf("indices = %d, %d", a, b)
	}
	if m.set("a", 30, 1) != a {
		t.Fatal("re-set changed the index")
	}
	if m.node(a) != 30 || m.arity(b) != 2 || m.name(b) != "b" || m.len() != 2 {
		t.Fatal("accessors returned wrong data")
	}
	if _, ok := m.find("c"); ok {
		t.Fatal("found missing name")
	}
}
