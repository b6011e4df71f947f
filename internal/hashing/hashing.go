// Package hashing fingerprints positions and games for duplicate detection
// and opening lookup.
package hashing

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/rules"
)

// PositionKey keeps the FEN fields that identify a position for repetition:
// placement, side to move, castling rights and en passant square.
func PositionKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// PositionHash hashes PositionKey(fen).
func PositionHash(fen string) uint64 {
	return xxhash.Sum64String(PositionKey(fen))
}

// Signature identifies a game by where its mainline ends and how it got
// there.
type Signature struct {
	// Final is the hash of the last mainline position.
	Final uint64
	// Path XORs the hashes of every mainline position.
	Path uint64
	// Plies is the mainline length.
	Plies int
}

// SignatureOf replays the mainline of game. Callers hold the game's read
// lock.
func SignatureOf(r rules.Rules, game *chess.GameRecord) (Signature, error) {
	var sig Signature
	final, err := rules.ReplayMainline(r, game, func(_ *chess.Node, pos rules.Position) bool {
		sig.Path ^= PositionHash(pos.FEN())
		sig.Plies++
		return true
	})
	if err != nil {
		return Signature{}, err
	}
	sig.Final = PositionHash(final.FEN())
	return sig, nil
}

// DuplicateDetector remembers game signatures. It is safe for concurrent
// use.
type DuplicateDetector struct {
	rules rules.Rules

	mu         sync.Mutex
	seen       map[Signature]struct{}
	duplicates int
}

// NewDuplicateDetector creates an empty detector.
func NewDuplicateDetector(r rules.Rules) *DuplicateDetector {
	return &DuplicateDetector{rules: r, seen: make(map[Signature]struct{})}
}

// CheckAndAdd reports whether a game with the same mainline was seen before,
// and remembers game otherwise.
func (d *DuplicateDetector) CheckAndAdd(game *chess.GameRecord) (bool, error) {
	game.RLock()
	sig, err := SignatureOf(d.rules, game)
	game.RUnlock()
	if err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[sig]; ok {
		d.duplicates++
		return true, nil
	}
	d.seen[sig] = struct{}{}
	return false, nil
}

// DuplicateCount returns how many duplicates CheckAndAdd reported.
func (d *DuplicateDetector) DuplicateCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.duplicates
}

// UniqueCount returns the number of distinct games seen.
func (d *DuplicateDetector) UniqueCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Reset forgets every game.
func (d *DuplicateDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.seen)
	d.duplicates = 0
}
