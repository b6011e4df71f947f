// Package notnilrules implements rules.Rules on top of github.com/notnil/chess.
package notnilrules

import (
	"strconv"
	"strings"

	nchess "github.com/notnil/chess"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/errors"
	"github.com/lgbarn/pgntree/internal/rules"
)

// Compile-time check that Rules implements rules.Rules.
var _ rules.Rules = (*Rules)(nil)

// Rules adapts notnil/chess move generation and notation.
type Rules struct {
	notation nchess.AlgebraicNotation
}

// New returns a rules adapter.
func New() *Rules {
	return &Rules{}
}

// Position wraps a notnil position.
type Position struct {
	pos *nchess.Position
}

// FEN returns the position's FEN.
func (p *Position) FEN() string {
	return p.pos.String()
}

// SideToMove returns the colour to move.
func (p *Position) SideToMove() chess.Colour {
	if p.pos.Turn() == nchess.Black {
		return chess.Black
	}
	return chess.White
}

// MoveNumber returns the fullmove number from the FEN.
func (p *Position) MoveNumber() int {
	fields := strings.Fields(p.pos.String())
	if len(fields) >= 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// StartingPosition returns the standard initial position.
func (r *Rules) StartingPosition() rules.Position {
	return &Position{pos: nchess.NewGame().Position()}
}

// PositionFromFEN decodes a FEN string.
func (r *Rules) PositionFromFEN(fen string) (rules.Position, error) {
	opt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidFEN, "%q: %v", fen, err)
	}
	return &Position{pos: nchess.NewGame(opt).Position()}, nil
}

// LegalMoves lists every legal move in pos.
func (r *Rules) LegalMoves(pos rules.Position) []chess.Move {
	np, err := r.native(pos)
	if err != nil {
		return nil
	}
	valid := np.ValidMoves()
	moves := make([]chess.Move, len(valid))
	for i, m := range valid {
		moves[i] = fromNative(m)
	}
	return moves
}

// Apply plays m and returns the resulting position.
func (r *Rules) Apply(pos rules.Position, m chess.Move) (rules.Position, error) {
	np, err := r.native(pos)
	if err != nil {
		return nil, err
	}
	nm := findNative(np, m)
	if nm == nil {
		return nil, &errors.IllegalMoveError{Move: m.UCI(), Position: np.String()}
	}
	return &Position{pos: np.Update(nm)}, nil
}

// ToSAN renders m in standard algebraic notation, including check markers.
func (r *Rules) ToSAN(pos rules.Position, m chess.Move) (string, error) {
	np, err := r.native(pos)
	if err != nil {
		return "", err
	}
	nm := findNative(np, m)
	if nm == nil {
		return "", &errors.IllegalMoveError{Move: m.UCI(), Position: np.String()}
	}
	return r.notation.Encode(np, nm), nil
}

// ParseSAN resolves SAN text to a legal move. Exact SAN matches first; then
// looser spellings are accepted (redundant disambiguation, a missing "=" on
// promotion, ":" captures, an explicit "P"), provided exactly one legal move
// fits.
func (r *Rules) ParseSAN(pos rules.Position, san string) (chess.Move, error) {
	np, err := r.native(pos)
	if err != nil {
		return chess.Move{}, err
	}

	want := rules.NormalizeSAN(san)
	valid := np.ValidMoves()
	for _, m := range valid {
		if rules.NormalizeSAN(r.notation.Encode(np, m)) == want {
			return fromNative(m), nil
		}
	}

	if parts, ok := parseSANParts(want); ok {
		var match *nchess.Move
		for _, m := range valid {
			if parts.matches(np, m) {
				if match != nil {
					match = nil
					break
				}
				match = m
			}
		}
		if match != nil {
			return fromNative(match), nil
		}
	}

	return chess.Move{}, &errors.IllegalMoveError{Move: san, Position: np.String()}
}

// IsGameOver reports checkmate or stalemate.
func (r *Rules) IsGameOver(pos rules.Position) bool {
	np, err := r.native(pos)
	if err != nil {
		return true
	}
	return len(np.ValidMoves()) == 0
}

// native unwraps pos, rebuilding it from FEN when it came from another
// implementation.
func (r *Rules) native(pos rules.Position) (*nchess.Position, error) {
	if p, ok := pos.(*Position); ok {
		return p.pos, nil
	}
	rebuilt, err := r.PositionFromFEN(pos.FEN())
	if err != nil {
		return nil, err
	}
	return rebuilt.(*Position).pos, nil
}

func findNative(np *nchess.Position, m chess.Move) *nchess.Move {
	for _, nm := range np.ValidMoves() {
		if fromNative(nm) == m {
			return nm
		}
	}
	return nil
}

// fromNative converts a notnil move. Both libraries number squares a1 = 0
// through h8 = 63.
func fromNative(m *nchess.Move) chess.Move {
	return chess.Move{
		From:      chess.Square(m.S1()),
		To:        chess.Square(m.S2()),
		Promotion: fromPieceType(m.Promo()),
	}
}

func fromPieceType(pt nchess.PieceType) chess.Piece {
	switch pt {
	case nchess.King:
		return chess.King
	case nchess.Queen:
		return chess.Queen
	case nchess.Rook:
		return chess.Rook
	case nchess.Bishop:
		return chess.Bishop
	case nchess.Knight:
		return chess.Knight
	case nchess.Pawn:
		return chess.Pawn
	}
	return chess.NoPiece
}
