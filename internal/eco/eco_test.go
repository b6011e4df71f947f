package eco

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/errors"
	"github.com/lgbarn/pgntree/internal/rules/notnilrules"
	"github.com/lgbarn/pgntree/internal/source"
	"github.com/lgbarn/pgntree/internal/testutil"
)

const ecoLines = `[ECO "B20"]
[Opening "Sicilian"]

1. e4 c5 *

[ECO "B27"]
[Opening "Sicilian"]
[Variation "Hyperaccelerated Dragon"]

1. e4 c5 2. Nf3 g6 *

[ECO "C20"]
[Opening "King's pawn game"]

1. e4 e5 *

[ECO "C20"]
[Opening "King's pawn game"]

1. e4 e5 *

[Event "no code"]

1. d4 d5 *
`

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	c := NewClassifier(notnilrules.New(), nil)
	testutil.AssertNoError(t, c.LoadFromReader(strings.NewReader(ecoLines)))
	return c
}

func TestLoad(t *testing.T) {
	c := newClassifier(t)
	testutil.AssertEqual(t, c.Len(), 3, "duplicate and untagged lines are skipped")
}

func TestClassify(t *testing.T) {
	c := newClassifier(t)

	tests := []struct {
		name string
		pgn  string
		want string
	}{
		{"exact line", "1. e4 c5 *", "B20"},
		{"deeper line wins", "1. e4 c5 2. Nf3 g6 3. d4 cxd4 *", "B27"},
		{"leaves the book", "1. e4 c5 2. Nc3 Nc6 *", "B20"},
		{"transposition", "1. Nf3 g6 2. e4 c5 *", "B27"},
		{"variation ignored", "1. e4 e5 (1... c5 2. Nf3 g6) *", "C20"},
		{"unknown opening", "1. c4 e5 *", ""},
		{"no moves", "*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := testutil.MustParseGame(t, tt.pgn)
			e, err := c.Classify(game)
			testutil.AssertNoError(t, err)
			got := ""
			if e != nil {
				got = e.Code
			}
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}

func TestAddTags(t *testing.T) {
	c := newClassifier(t)

	game := testutil.MustParseGame(t, `[Event "Club"]

1. e4 c5 2. Nf3 g6 *`)
	ok, err := c.AddTags(game)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, game.Headers.List(), []chess.Tag{
		{Name: "Event", Value: "Club"},
		{Name: ECOTag, Value: "B27"},
		{Name: OpeningTag, Value: "Sicilian"},
		{Name: VariationTag, Value: "Hyperaccelerated Dragon"},
	})

	game = testutil.MustParseGame(t, "1. c4 *")
	ok, err = c.AddTags(game)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
	testutil.AssertEqual(t, game.Headers.Len(), 0)
}

func TestEmptyClassifier(t *testing.T) {
	c := NewClassifier(notnilrules.New(), nil)
	testutil.AssertNoError(t, c.LoadFromReader(strings.NewReader("")))

	e, err := c.Classify(testutil.MustParseGame(t, "1. e4 c5 *"))
	testutil.AssertNoError(t, err)
	if e != nil {
		t.Errorf("Classify = %+v; want nil", e)
	}
}

func TestLoadWithoutCodes(t *testing.T) {
	c := NewClassifier(notnilrules.New(), nil)
	err := c.LoadFromReader(strings.NewReader("1. e4 e5 *\n"))
	testutil.AssertErrorIs(t, err, errors.ErrNoECOEntries)
}

func TestLoadFileCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eco.pgn.zst")
	w, err := source.Create(path)
	testutil.AssertNoError(t, err)
	_, err = io.WriteString(w, ecoLines)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, w.Close())

	c := NewClassifier(notnilrules.New(), nil)
	testutil.AssertNoError(t, c.LoadFile(path))
	testutil.AssertEqual(t, c.Len(), 3)
}
