package notnilrules

import (
	"errors"
	"testing"

	"github.com/lgbarn/pgntree/internal/chess"
	pgnerrors "github.com/lgbarn/pgntree/internal/errors"
	"github.com/lgbarn/pgntree/internal/rules"
)

// play applies SAN moves from pos, failing the test on any error.
func play(t *testing.T, r *Rules, pos rules.Position, sans ...string) rules.Position {
	t.Helper()
	for _, san := range sans {
		m, err := r.ParseSAN(pos, san)
		if err != nil {
			t.Fatalf("ParseSAN(%q): %v", san, err)
		}
		pos, err = r.Apply(pos, m)
		if err != nil {
			t.Fatalf("Apply(%q): %v", san, err)
		}
	}
	return pos
}

func TestStartingPosition(t *testing.T) {
	r := New()
	pos := r.StartingPosition()

	if got := len(r.LegalMoves(pos)); got != 20 {
		t.Errorf("len(LegalMoves) = %d; want 20", got)
	}
	if pos.SideToMove() != chess.White {
		t.Errorf("SideToMove = %v; want White", pos.SideToMove())
	}
	if pos.MoveNumber() != 1 {
		t.Errorf("MoveNumber = %d; want 1", pos.MoveNumber())
	}
	if r.IsGameOver(pos) {
		t.Error("IsGameOver(start) = true; want false")
	}
}

func TestParseSAN(t *testing.T) {
	r := New()

	tests := []struct {
		name  string
		fen   string
		moves []string
		san   string
		want  string
	}{
		{"pawn push", "", nil, "e4", "e2e4"},
		{"knight", "", nil, "Nf3", "g1f3"},
		{"check suffix ignored", "", []string{"e4", "f6", "d4", "g5"}, "Qh5#", "d1h5"},
		{"annotation suffix ignored", "", nil, "e4!?", "e2e4"},
		{"zero castling", "", []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Nf6"}, "0-0", "e1g1"},
		{"letter castling", "", []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Nf6"}, "O-O", "e1g1"},
		{"redundant disambiguation", "", nil, "Ngf3", "g1f3"},
		{"explicit pawn letter", "", nil, "Pe4", "e2e4"},
		{"promotion", "8/4P3/8/8/8/k7/8/K7 w - - 0 1", nil, "e8=Q", "e7e8q"},
		{"promotion without equals", "8/4P3/8/8/8/k7/8/K7 w - - 0 1", nil, "e8N", "e7e8n"},
		{"needed disambiguation", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", nil, "Nbd2", "b1d2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := r.StartingPosition()
			if tt.fen != "" {
				var err error
				if pos, err = r.PositionFromFEN(tt.fen); err != nil {
					t.Fatalf("PositionFromFEN: %v", err)
				}
			}
			pos = play(t, r, pos, tt.moves...)

			m, err := r.ParseSAN(pos, tt.san)
			if err != nil {
				t.Fatalf("ParseSAN(%q): %v", tt.san, err)
			}
			if got := m.UCI(); got != tt.want {
				t.Errorf("ParseSAN(%q) = %s; want %s", tt.san, got, tt.want)
			}
		})
	}
}

func TestParseSAN_Illegal(t *testing.T) {
	r := New()

	tests := []struct {
		name string
		fen  string
		san  string
	}{
		{"unreachable square", "", "Nf6"},
		{"no such piece move", "", "Ke2"},
		{"garbage", "", "Zz9"},
		{"null move", "", "--"},
		{"ambiguous knight", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "Nd2"},
		{"promotion required", "8/4P3/8/8/8/k7/8/K7 w - - 0 1", "e8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := r.StartingPosition()
			if tt.fen != "" {
				var err error
				if pos, err = r.PositionFromFEN(tt.fen); err != nil {
					t.Fatalf("PositionFromFEN: %v", err)
				}
			}
			_, err := r.ParseSAN(pos, tt.san)
			if !errors.Is(err, pgnerrors.ErrIllegalMove) {
				t.Errorf("ParseSAN(%q) error = %v; want ErrIllegalMove", tt.san, err)
			}
			var moveErr *pgnerrors.IllegalMoveError
			if errors.As(err, &moveErr) && moveErr.Move != tt.san {
				t.Errorf("IllegalMoveError.Move = %q; want %q", moveErr.Move, tt.san)
			}
		})
	}
}

func TestToSAN(t *testing.T) {
	r := New()
	pos := play(t, r, r.StartingPosition(), "e4", "f6", "d4", "g5")

	m, err := chess.ParseUCI("d1h5")
	if err != nil {
		t.Fatal(err)
	}
	san, err := r.ToSAN(pos, m)
	if err != nil {
		t.Fatalf("ToSAN: %v", err)
	}
	if san != "Qh5#" {
		t.Errorf("ToSAN = %q; want Qh5#", san)
	}

	next, err := r.Apply(pos, m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !r.IsGameOver(next) {
		t.Error("IsGameOver after mate = false; want true")
	}

	illegal, _ := chess.ParseUCI("a1a8")
	if _, err := r.ToSAN(pos, illegal); !errors.Is(err, pgnerrors.ErrIllegalMove) {
		t.Errorf("ToSAN(illegal) error = %v; want ErrIllegalMove", err)
	}
	if _, err := r.Apply(pos, illegal); !errors.Is(err, pgnerrors.ErrIllegalMove) {
		t.Errorf("Apply(illegal) error = %v; want ErrIllegalMove", err)
	}
}

func TestPositionFromFEN(t *testing.T) {
	r := New()

	pos, err := r.PositionFromFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 3 17")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	if pos.SideToMove() != chess.Black {
		t.Errorf("SideToMove = %v; want Black", pos.SideToMove())
	}
	if pos.MoveNumber() != 17 {
		t.Errorf("MoveNumber = %d; want 17", pos.MoveNumber())
	}
	if got := rules.StartPly(pos); got != 33 {
		t.Errorf("StartPly = %d; want 33", got)
	}

	if _, err := r.PositionFromFEN("not a fen"); !errors.Is(err, pgnerrors.ErrInvalidFEN) {
		t.Errorf("PositionFromFEN(garbage) error = %v; want ErrInvalidFEN", err)
	}
}

// fenOnly is a position from another implementation.
type fenOnly string

func (f fenOnly) FEN() string              { return string(f) }
func (f fenOnly) SideToMove() chess.Colour { return chess.White }
func (f fenOnly) MoveNumber() int          { return 1 }

func TestForeignPosition(t *testing.T) {
	r := New()
	pos := fenOnly("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")

	if got := len(r.LegalMoves(pos)); got != 20 {
		t.Errorf("len(LegalMoves(foreign)) = %d; want 20", got)
	}
	if !rules.IsLegal(r, pos, chess.Move{From: chess.NewSquare(4, 1), To: chess.NewSquare(4, 3)}) {
		t.Error("IsLegal(e2e4) = false; want true")
	}
}
