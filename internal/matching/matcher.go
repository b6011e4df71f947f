// Package matching selects games by their tags and moves.
package matching

import (
	"fmt"
	"strings"

	"github.com/lgbarn/pgntree/internal/chess"
)

// GameMatcher decides whether a game is selected.
type GameMatcher interface {
	Match(game *chess.GameRecord) bool
	Name() string
}

// MatchMode specifies how a Composite combines its matchers.
type MatchMode int

const (
	// MatchAll requires every matcher to match.
	MatchAll MatchMode = iota
	// MatchAny requires at least one matcher to match.
	MatchAny
)

// Composite combines matchers with AND or OR logic.
type Composite struct {
	matchers []GameMatcher
	mode     MatchMode
}

// NewComposite creates a composite over matchers.
func NewComposite(mode MatchMode, matchers ...GameMatcher) *Composite {
	return &Composite{matchers: matchers, mode: mode}
}

// Add appends a matcher.
func (c *Composite) Add(m GameMatcher) {
	c.matchers = append(c.matchers, m)
}

// Len returns the number of matchers.
func (c *Composite) Len() int {
	return len(c.matchers)
}

// Match implements GameMatcher. An empty AND composite matches every game and
// an empty OR composite none.
func (c *Composite) Match(game *chess.GameRecord) bool {
	for _, m := range c.matchers {
		if m.Match(game) == (c.mode == MatchAny) {
			return c.mode == MatchAny
		}
	}
	return c.mode == MatchAll
}

// Name implements GameMatcher.
func (c *Composite) Name() string {
	names := make([]string, len(c.matchers))
	for i, m := range c.matchers {
		names[i] = m.Name()
	}
	op := " AND "
	if c.mode == MatchAny {
		op = " OR "
	}
	return fmt.Sprintf("(%s)", strings.Join(names, op))
}

// Filter returns the games m selects, in order.
func Filter(games []*chess.GameRecord, m GameMatcher) []*chess.GameRecord {
	var selected []*chess.GameRecord
	for _, g := range games {
		g.RLock()
		ok := m.Match(g)
		g.RUnlock()
		if ok {
			selected = append(selected, g)
		}
	}
	return selected
}
