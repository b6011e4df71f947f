package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/pgntree/internal/chess"
)

// TreeShape is the comparable content of a game tree: moves, comments,
// glyphs and variation order, without parent links.
type TreeShape struct {
	SAN        string
	Comment    string
	PreComment string
	NAGs       []chess.NAG
	Children   []TreeShape
}

// Shape converts the subtree at n.
func Shape(n *chess.Node) TreeShape {
	s := TreeShape{
		SAN:        n.SAN,
		Comment:    n.Comment,
		PreComment: n.PreComment,
		NAGs:       n.Annotation.NAGs,
	}
	for _, c := range n.Children {
		s.Children = append(s.Children, Shape(c))
	}
	return s
}

// AssertSameTree fails when two trees differ in moves, comments, glyphs or
// variation order.
func AssertSameTree(t testing.TB, got, want *chess.Node, msgAndArgs ...any) {
	t.Helper()
	if diff := cmp.Diff(Shape(want), Shape(got)); diff != "" {
		fail(t, msgAndArgs, "tree mismatch (-want +got):\n%s", diff)
	}
}

// MainlineSANs returns the SAN of each mainline move of game.
func MainlineSANs(game *chess.GameRecord) []string {
	var sans []string
	for _, n := range game.Mainline() {
		sans = append(sans, n.SAN)
	}
	return sans
}
