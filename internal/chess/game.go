package chess

import "sync"

// GameRecord represents one PGN game: headers plus the move tree.
type GameRecord struct {
	// Headers in the order they appeared.
	Headers Tags

	// Root stands for the start position and owns the tree.
	Root *Node

	// Result is the termination marker found in the movetext, if any.
	Result string

	// StartPly is the absolute ply of the first move: 0 when White moves
	// first from move 1, odd when Black is to move in the start position.
	StartPly int

	// Line numbers of the start and end of the game in the input, if known.
	StartLine int
	EndLine   int

	// mu guards structural edits to the tree.
	mu sync.RWMutex
}

// NewGameRecord creates an empty game with a bare root.
func NewGameRecord() *GameRecord {
	return &GameRecord{Root: NewRoot()}
}

// Lock acquires the mutation guard for writing.
func (g *GameRecord) Lock() { g.mu.Lock() }

// Unlock releases the write guard.
func (g *GameRecord) Unlock() { g.mu.Unlock() }

// RLock acquires the guard for reading.
func (g *GameRecord) RLock() { g.mu.RLock() }

// RUnlock releases the read guard.
func (g *GameRecord) RUnlock() { g.mu.RUnlock() }

// Contains reports whether node belongs to this game's tree.
func (g *GameRecord) Contains(node *Node) bool {
	if node == nil {
		return false
	}
	return node.Root() == g.Root
}

// GetTag returns a tag value, or empty string if not present.
func (g *GameRecord) GetTag(name string) string {
	return g.Headers.Value(name)
}

// SetTag sets a tag value.
func (g *GameRecord) SetTag(name, value string) {
	g.Headers.Set(name, value)
}

// PlyOf returns the absolute ply at which node's move was played.
func (g *GameRecord) PlyOf(node *Node) int {
	return g.StartPly + node.Depth() - 1
}

// Mainline returns the mainline moves as a slice.
func (g *GameRecord) Mainline() []*Node {
	var moves []*Node
	for n := g.Root.Mainline(); n != nil; n = n.Mainline() {
		moves = append(moves, n)
	}
	return moves
}

// PlyCount returns the number of mainline moves.
func (g *GameRecord) PlyCount() int {
	count := 0
	for n := g.Root.Mainline(); n != nil; n = n.Mainline() {
		count++
	}
	return count
}

// LastMove returns the final mainline node, or nil if there are no moves.
func (g *GameRecord) LastMove() *Node {
	var last *Node
	for n := g.Root.Mainline(); n != nil; n = n.Mainline() {
		last = n
	}
	return last
}

// NodeCount returns the number of move nodes in the whole tree.
func (g *GameRecord) NodeCount() int {
	count := -1
	g.Root.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// EffectiveResult returns the movetext result, else a valid Result tag,
// else "*".
func (g *GameRecord) EffectiveResult() string {
	if IsResult(g.Result) {
		return g.Result
	}
	if r := g.GetTag(ResultTag); IsResult(r) {
		return r
	}
	return Unfinished
}

// MoveNumberAt converts an absolute ply into a move number and side to move.
func MoveNumberAt(ply int) (int, Colour) {
	if ply%2 == 0 {
		return ply/2 + 1, White
	}
	return ply/2 + 1, Black
}

// PlyFor converts a fullmove number and side to move into an absolute ply.
func PlyFor(moveNumber int, side Colour) int {
	if moveNumber < 1 {
		moveNumber = 1
	}
	ply := (moveNumber - 1) * 2
	if side == Black {
		ply++
	}
	return ply
}
