package merkle

import (
	"testing"

	"github.com/okulov/sigil/internal/digest"
)

func TestBuildRoot_Empty(t *testing.T) {
	if root := BuildRoot(digest.Default(), nil); root != "" {
		t.Errorf("expected empty root for no leaves, got %s", root)
	}
}

func TestBuildRoot_SingleLeaf(t *testing.T) {
	h := digest.Default()
	leaf := h.Sum([]byte("only"))
	if root := BuildRoot(h, []string{leaf}); root != leaf {
		t.Errorf("single leaf root = %s, want the leaf itself %s", root, leaf)
	}
}

func TestBuildRoot_ThreeLeaves_DuplicatePadding(t *testing.T) {
	h := digest.Default()
	a := h.Sum([]byte("a"))
	b := h.Sum([]byte("b"))
	c := h.Sum([]byte("c"))

	// Odd tail pairs with itself: root = H(H(a++b) ++ H(c++c)).
	want := h.Sum([]byte(h.Sum([]byte(a+b)) + h.Sum([]byte(c+c))))
	if got := BuildRoot(h, []string{a, b, c}); got != want {
		t.Errorf("three-leaf root = %s, want %s", got, want)
	}
}

func TestBuildRoot_FourLeaves(t *testing.T) {
	h := digest.Default()
	leaves := []string{
		h.Sum([]byte("a")), h.Sum([]byte("b")),
		h.Sum([]byte("c")), h.Sum([]byte("d")),
	}
	want := h.Sum([]byte(
		h.Sum([]byte(leaves[0]+leaves[1])) + h.Sum([]byte(leaves[2]+leaves[3])),
	))
	if got := BuildRoot(h, leaves); got != want {
		t.Errorf("four-leaf root = %s, want %s", got, want)
	}
}

func TestBuildRoot_Deterministic(t *testing.T) {
	h := digest.Default()
	leaves := make([]string, 12)
	for i := range leaves {
		leaves[i] = h.Sum([]byte{byte(i)})
	}
	if BuildRoot(h, leaves) != BuildRoot(h, leaves) {
		t.Error("same ordered leaves produced different roots")
	}
}

func TestBuildRoot_OrderSensitive(t *testing.T) {
	h := digest.Default()
	a := h.Sum([]byte("a"))
	b := h.Sum([]byte("b"))
	if BuildRoot(h, []string{a, b}) == BuildRoot(h, []string{b, a}) {
		t.Error("swapping leaves did not change the root")
	}
}

func TestBuildRoot_LeafChangePropagates(t *testing.T) {
	h := digest.Default()
	leaves := make([]string, 7)
	for i := range leaves {
		leaves[i] = h.Sum([]byte{byte(i)})
	}
	base := BuildRoot(h, leaves)

	altered := make([]string, len(leaves))
	copy(altered, leaves)
	altered[3] = h.Sum([]byte("flipped"))
	if BuildRoot(h, altered) == base {
		t.Error("changing one leaf did not change the root")
	}
}

func TestBuildRoot_InputNotMutated(t *testing.T) {
	h := digest.Default()
	leaves := []string{h.Sum([]byte("a")), h.Sum([]byte("b")), h.Sum([]byte("c"))}
	orig := make([]string, len(leaves))
	copy(orig, leaves)
	BuildRoot(h, leaves)
	for i := range leaves {
		if leaves[i] != orig[i] {
			t.Fatalf("input slice mutated at %d", i)
		}
	}
}
