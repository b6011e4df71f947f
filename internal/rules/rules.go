// Package rules defines the boundary between the game tree and a chess-rules
// implementation. The parser and navigator only ever see positions through
// these interfaces.
package rules

import (
	"strings"

	"github.com/lgbarn/pgntree/internal/chess"
)

// Position is an immutable chess position.
type Position interface {
	// FEN returns the Forsyth-Edwards encoding of the position.
	FEN() string
	// SideToMove returns the colour about to move.
	SideToMove() chess.Colour
	// MoveNumber returns the fullmove number.
	MoveNumber() int
}

// Rules generates and applies legal moves and converts between SAN and moves.
type Rules interface {
	StartingPosition() Position
	PositionFromFEN(fen string) (Position, error)
	LegalMoves(pos Position) []chess.Move
	// Apply returns the position after m, or an IllegalMoveError.
	Apply(pos Position, m chess.Move) (Position, error)
	ToSAN(pos Position, m chess.Move) (string, error)
	// ParseSAN resolves SAN text against the legal moves of pos, or returns
	// an IllegalMoveError.
	ParseSAN(pos Position, san string) (chess.Move, error)
	IsGameOver(pos Position) bool
}

// StartPly returns the absolute ply of the next move in pos.
func StartPly(pos Position) int {
	return chess.PlyFor(pos.MoveNumber(), pos.SideToMove())
}

// IsLegal reports whether m is among the legal moves of pos.
func IsLegal(r Rules, pos Position, m chess.Move) bool {
	for _, lm := range r.LegalMoves(pos) {
		if lm == m {
			return true
		}
	}
	return false
}

// NormalizeSAN strips check and annotation suffixes and maps zero-castling to
// letter-O castling, giving the form SAN tokens are compared in.
func NormalizeSAN(san string) string {
	s := strings.TrimSpace(san)
	s = strings.TrimRight(s, "+#!?")
	switch s {
	case "0-0", "o-o":
		return "O-O"
	case "0-0-0", "o-o-o":
		return "O-O-O"
	}
	return s
}
