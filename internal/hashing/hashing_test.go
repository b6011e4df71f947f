package hashing

import (
	"sync"
	"testing"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/rules/notnilrules"
	"github.com/lgbarn/pgntree/internal/testutil"
)

func TestPositionKey(t *testing.T) {
	tests := []struct {
		fen  string
		want string
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"},
		{"8/8/8/4k3/8/8/8/4K2R w K - 99 80", "8/8/8/4k3/8/8/8/4K2R w K -"},
		{"8/8/8/8 w", "8/8/8/8 w"},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, PositionKey(tt.fen), tt.want)
	}

	a := PositionHash("8/8/8/4k3/8/8/8/4K2R w K - 0 1")
	b := PositionHash("8/8/8/4k3/8/8/8/4K2R w K - 12 40")
	testutil.AssertEqual(t, a, b, "clocks must not change the hash")
}

func TestSignatureOf(t *testing.T) {
	rl := notnilrules.New()
	sig := func(pgn string) Signature {
		t.Helper()
		s, err := SignatureOf(rl, testutil.MustParseGame(t, pgn))
		testutil.AssertNoError(t, err)
		return s
	}

	direct := sig("1. Nf3 Nf6 2. Nc3 Nc6 *")
	transposed := sig("1. Nc3 Nc6 2. Nf3 Nf6 *")
	testutil.AssertEqual(t, direct.Plies, 4)
	testutil.AssertEqual(t, direct.Final, transposed.Final)
	if direct.Path == transposed.Path {
		t.Error("transposed move orders should have different paths")
	}

	annotated := sig(`[Event "Other"]

1. Nf3 {develops} Nf6 (1... d5) 2. Nc3 $1 Nc6 1-0`)
	testutil.AssertEqual(t, annotated, direct)

	empty := sig("*")
	testutil.AssertEqual(t, empty.Plies, 0)
	testutil.AssertEqual(t, empty.Path, uint64(0))
}

func TestDuplicateDetector(t *testing.T) {
	games := testutil.MustParseGames(t, `[Event "A"]

1. e4 e5 2. Nf3 *

[Event "B"]

1. e4 {same moves} e5 (1... c5) 2. Nf3 1-0

[Event "C"]

1. e4 e5 *

[Event "D"]

1. Nf3 Nf6 2. Nc3 Nc6 *

[Event "E"]

1. Nc3 Nc6 2. Nf3 Nf6 *
`)
	d := NewDuplicateDetector(notnilrules.New())

	var dups []string
	for _, g := range games {
		dup, err := d.CheckAndAdd(g)
		testutil.AssertNoError(t, err)
		if dup {
			dups = append(dups, g.GetTag("Event"))
		}
	}
	testutil.AssertEqual(t, dups, []string{"B"})
	testutil.AssertEqual(t, d.DuplicateCount(), 1)
	testutil.AssertEqual(t, d.UniqueCount(), 4)

	d.Reset()
	testutil.AssertEqual(t, d.DuplicateCount(), 0)
	testutil.AssertEqual(t, d.UniqueCount(), 0)
}

func TestDuplicateDetectorBadFEN(t *testing.T) {
	g := chess.NewGameRecord()
	g.SetTag(chess.FENTag, "garbage")
	_, err := NewDuplicateDetector(notnilrules.New()).CheckAndAdd(g)
	if err == nil {
		t.Fatal("expected an error for an invalid FEN")
	}
}

func TestDuplicateDetectorConcurrent(t *testing.T) {
	game := testutil.MustParseGame(t, "1. d4 d5 2. c4 e6 *")
	d := NewDuplicateDetector(notnilrules.New())

	const n = 16
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.CheckAndAdd(game); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	testutil.AssertEqual(t, d.UniqueCount(), 1)
	testutil.AssertEqual(t, d.DuplicateCount(), n-1)
}
