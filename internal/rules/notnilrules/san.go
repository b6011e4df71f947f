package notnilrules

import (
	"strings"

	nchess "github.com/notnil/chess"

	"github.com/lgbarn/pgntree/internal/chess"
)

// sanParts is SAN broken into the constraints it places on a move.
type sanParts struct {
	piece    chess.Piece
	fromFile int // -1 when not given
	fromRank int // -1 when not given
	to       chess.Square
	promo    chess.Piece
}

// parseSANParts splits normalized SAN. Castling is not handled here; exact
// encoding comparison already covers it.
func parseSANParts(s string) (sanParts, bool) {
	p := sanParts{piece: chess.Pawn, fromFile: -1, fromRank: -1}

	if s == "" || strings.HasPrefix(s, "O-") {
		return p, false
	}

	switch s[0] {
	case 'K':
		p.piece = chess.King
	case 'Q':
		p.piece = chess.Queen
	case 'R':
		p.piece = chess.Rook
	case 'B':
		p.piece = chess.Bishop
	case 'N':
		p.piece = chess.Knight
	case 'P':
		p.piece = chess.Pawn
	default:
		if s[0] >= 'A' && s[0] <= 'Z' {
			return p, false
		}
	}
	if s[0] >= 'A' && s[0] <= 'Z' {
		s = s[1:]
	}

	if n := len(s); n > 0 && p.piece == chess.Pawn {
		if promo := promotionPiece(s[n-1]); promo != chess.NoPiece {
			p.promo = promo
			s = strings.TrimSuffix(s[:n-1], "=")
		}
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case 'x', ':', '-':
			return -1
		}
		return r
	}, s)

	if len(s) < 2 || len(s) > 4 {
		return p, false
	}
	to, err := chess.ParseSquare(s[len(s)-2:])
	if err != nil {
		return p, false
	}
	p.to = to

	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			p.fromFile = int(c - 'a')
		case c >= '1' && c <= '8':
			p.fromRank = int(c - '1')
		default:
			return p, false
		}
	}
	return p, true
}

func promotionPiece(c byte) chess.Piece {
	switch c {
	case 'Q', 'q':
		return chess.Queen
	case 'R', 'r':
		return chess.Rook
	case 'B':
		return chess.Bishop
	case 'N', 'n':
		return chess.Knight
	}
	return chess.NoPiece
}

func (p sanParts) matches(np *nchess.Position, m *nchess.Move) bool {
	mv := fromNative(m)
	if mv.To != p.to || mv.Promotion != p.promo {
		return false
	}
	if p.fromFile >= 0 && mv.From.File() != p.fromFile {
		return false
	}
	if p.fromRank >= 0 && mv.From.Rank() != p.fromRank {
		return false
	}
	return fromPieceType(np.Board().Piece(m.S1()).Type()) == p.piece
}
