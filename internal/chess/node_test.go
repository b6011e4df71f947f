package chess

import (
	"testing"
)

func mustMove(t *testing.T, uci string) Move {
	t.Helper()
	m, err := ParseUCI(uci)
	if err != nil {
		t.Fatalf("ParseUCI(%q): %v", uci, err)
	}
	return m
}

// buildTree creates 1. e4 (1. d4 d5) 1... e5 2. Nf3.
func buildTree(t *testing.T) (root, e4, d4, e5, nf3 *Node) {
	t.Helper()
	root = NewRoot()
	e4 = root.AddChild(mustMove(t, "e2e4"), "e4")
	d4 = root.AddChild(mustMove(t, "d2d4"), "d4")
	d4.AddChild(mustMove(t, "d7d5"), "d5")
	e5 = e4.AddChild(mustMove(t, "e7e5"), "e5")
	nf3 = e5.AddChild(mustMove(t, "g1f3"), "Nf3")
	return root, e4, d4, e5, nf3
}

func TestNodeStructure(t *testing.T) {
	root, e4, d4, e5, nf3 := buildTree(t)

	t.Run("mainline and variations", func(t *testing.T) {
		if root.Mainline() != e4 {
			t.Errorf("root.Mainline() = %v; want e4", root.Mainline().SAN)
		}
		if got := root.Variations(); len(got) != 1 || got[0] != d4 {
			t.Errorf("root.Variations() = %v; want [d4]", got)
		}
		if nf3.Mainline() != nil {
			t.Error("nf3.Mainline() should be nil at end of line")
		}
	})

	t.Run("parent links", func(t *testing.T) {
		if e5.Parent() != e4 {
			t.Error("e5.Parent() != e4")
		}
		if !root.IsRoot() || e4.IsRoot() {
			t.Error("IsRoot mismatch")
		}
		if nf3.Root() != root {
			t.Error("nf3.Root() != root")
		}
	})

	t.Run("depth and path", func(t *testing.T) {
		if got := nf3.Depth(); got != 3 {
			t.Errorf("nf3.Depth() = %d; want 3", got)
		}
		path := nf3.Path()
		want := []string{"e4", "e5", "Nf3"}
		if len(path) != len(want) {
			t.Fatalf("len(Path) = %d; want %d", len(path), len(want))
		}
		for i, n := range path {
			if n.SAN != want[i] {
				t.Errorf("Path[%d] = %q; want %q", i, n.SAN, want[i])
			}
		}
	})

	t.Run("mainline membership", func(t *testing.T) {
		if !nf3.IsMainline() {
			t.Error("nf3 should be on the mainline")
		}
		if d4.Children[0].IsMainline() {
			t.Error("d5 should not be on the mainline")
		}
	})
}

func TestNodeEdits(t *testing.T) {
	root, e4, d4, _, _ := buildTree(t)

	root.SwapChildren(0, 1)
	if root.Children[0] != d4 || root.Children[1] != e4 {
		t.Fatal("SwapChildren did not exchange children")
	}

	removed := root.RemoveChild(1)
	if removed != e4 {
		t.Errorf("RemoveChild returned %q; want e4", removed.SAN)
	}
	if len(root.Children) != 1 {
		t.Errorf("len(Children) = %d; want 1", len(root.Children))
	}
	if removed.Parent() != nil {
		t.Error("removed node should be detached")
	}
	if idx := root.ChildIndex(e4); idx != -1 {
		t.Errorf("ChildIndex(e4) = %d; want -1", idx)
	}
}

func TestNodeWalkOrder(t *testing.T) {
	root, _, _, _, _ := buildTree(t)

	var got []string
	root.Walk(func(n *Node) bool {
		if !n.IsRoot() {
			got = append(got, n.SAN)
		}
		return true
	})
	want := []string{"e4", "e5", "Nf3", "d4", "d5"}
	if len(got) != len(want) {
		t.Fatalf("Walk visited %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Walk[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestGameRecordContains(t *testing.T) {
	g := NewGameRecord()
	e4 := g.Root.AddChild(mustMove(t, "e2e4"), "e4")
	other := NewRoot().AddChild(mustMove(t, "d2d4"), "d4")

	if !g.Contains(e4) {
		t.Error("Contains(e4) = false; want true")
	}
	if g.Contains(other) {
		t.Error("Contains(foreign) = true; want false")
	}
	if g.Contains(nil) {
		t.Error("Contains(nil) = true; want false")
	}
}

func TestMoveNumberAt(t *testing.T) {
	tests := []struct {
		ply    int
		number int
		side   Colour
	}{
		{0, 1, White},
		{1, 1, Black},
		{2, 2, White},
		{41, 21, Black},
	}
	for _, tt := range tests {
		n, side := MoveNumberAt(tt.ply)
		if n != tt.number || side != tt.side {
			t.Errorf("MoveNumberAt(%d) = %d, %v; want %d, %v", tt.ply, n, side, tt.number, tt.side)
		}
		if got := PlyFor(tt.number, tt.side); got != tt.ply {
			t.Errorf("PlyFor(%d, %v) = %d; want %d", tt.number, tt.side, got, tt.ply)
		}
	}
}

func TestEffectiveResult(t *testing.T) {
	g := NewGameRecord()
	if got := g.EffectiveResult(); got != "*" {
		t.Errorf("EffectiveResult() = %q; want *", got)
	}
	g.SetTag(ResultTag, "?")
	if got := g.EffectiveResult(); got != "*" {
		t.Errorf("EffectiveResult() with invalid tag = %q; want *", got)
	}
	g.SetTag(ResultTag, "1-0")
	if got := g.EffectiveResult(); got != "1-0" {
		t.Errorf("EffectiveResult() = %q; want 1-0", got)
	}
	g.Result = "0-1"
	if got := g.EffectiveResult(); got != "0-1" {
		t.Errorf("EffectiveResult() = %q; want movetext result 0-1", got)
	}
}
