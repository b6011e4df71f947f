package chess

import "iter"

// Collection is the ordered set of games from one load. Indices stay stable:
// games are only appended while loading.
type Collection struct {
	games []*GameRecord
}

// NewCollection creates a collection with room for n games.
func NewCollection(n int) *Collection {
	return &Collection{games: make([]*GameRecord, 0, n)}
}

// Append adds a game and returns its index.
func (c *Collection) Append(g *GameRecord) int {
	c.games = append(c.games, g)
	return len(c.games) - 1
}

// Len returns the number of games.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.games)
}

// At returns the game at index i, or nil when out of range.
func (c *Collection) At(i int) *GameRecord {
	if c == nil || i < 0 || i >= len(c.games) {
		return nil
	}
	return c.games[i]
}

// All iterates over index and game in load order.
func (c *Collection) All() iter.Seq2[int, *GameRecord] {
	return func(yield func(int, *GameRecord) bool) {
		if c == nil {
			return
		}
		for i, g := range c.games {
			if !yield(i, g) {
				return
			}
		}
	}
}

// Games returns a copy of the underlying slice.
func (c *Collection) Games() []*GameRecord {
	if c == nil {
		return nil
	}
	out := make([]*GameRecord, len(c.games))
	copy(out, c.games)
	return out
}

// Clear drops every game.
func (c *Collection) Clear() {
	c.games = nil
}
