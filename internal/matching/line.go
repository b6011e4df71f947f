package matching

import (
	"regexp"
	"strings"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/rules"
)

// moveNumberPrefix matches "12." or "12..." in front of a move.
var moveNumberPrefix = regexp.MustCompile(`^\d+\.+`)

// LineMatcher selects games containing a move sequence played from the start
// position. By default the sequence may run through variations.
type LineMatcher struct {
	sans         []string
	mainlineOnly bool
}

// NewLineMatcher parses a sequence such as "1. e4 c5 2. Nf3". Move numbers
// and result markers are ignored.
func NewLineMatcher(line string, mainlineOnly bool) *LineMatcher {
	var sans []string
	for _, field := range strings.Fields(line) {
		field = moveNumberPrefix.ReplaceAllString(field, "")
		if field == "" || chess.IsResult(field) {
			continue
		}
		sans = append(sans, rules.NormalizeSAN(field))
	}
	return &LineMatcher{sans: sans, mainlineOnly: mainlineOnly}
}

// Match implements GameMatcher.
func (m *LineMatcher) Match(game *chess.GameRecord) bool {
	return m.follow(game.Root, m.sans)
}

func (m *LineMatcher) follow(node *chess.Node, sans []string) bool {
	if len(sans) == 0 {
		return true
	}
	for i, child := range node.Children {
		if i > 0 && m.mainlineOnly {
			break
		}
		if rules.NormalizeSAN(child.SAN) == sans[0] && m.follow(child, sans[1:]) {
			return true
		}
	}
	return false
}

// Name implements GameMatcher.
func (m *LineMatcher) Name() string {
	return "line " + strings.Join(m.sans, " ")
}
