package rules

import (
	"github.com/lgbarn/pgntree/internal/chess"
)

// StartOf returns the position a game starts from: its FEN tag, or the
// standard starting position.
func StartOf(r Rules, game *chess.GameRecord) (Position, error) {
	if fen := game.GetTag(chess.FENTag); fen != "" {
		return r.PositionFromFEN(fen)
	}
	return r.StartingPosition(), nil
}

// ReplayMainline plays the mainline of game from its start, calling visit
// with each node and the position after its move until visit returns false.
// It returns the last position reached. Callers hold the game's read lock.
func ReplayMainline(r Rules, game *chess.GameRecord, visit func(node *chess.Node, pos Position) bool) (Position, error) {
	pos, err := StartOf(r, game)
	if err != nil {
		return nil, err
	}
	for node := game.Root.Mainline(); node != nil; node = node.Mainline() {
		next, err := r.Apply(pos, node.Move)
		if err != nil {
			return nil, err
		}
		pos = next
		if visit != nil && !visit(node, pos) {
			break
		}
	}
	return pos, nil
}
