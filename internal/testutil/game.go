package testutil

import (
	"strings"
	"testing"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/parser"
	"github.com/lgbarn/pgntree/internal/rules/notnilrules"
)

// ParseTestGame parses a PGN string and returns the first game, or nil if
// no game parsed cleanly.
func ParseTestGame(pgn string) *chess.GameRecord {
	if games := ParseTestGames(pgn); len(games) > 0 {
		return games[0]
	}
	return nil
}

// ParseTestGames parses a PGN string and returns all games. Any failed game
// makes the result nil.
func ParseTestGames(pgn string) []*chess.GameRecord {
	report := ParseReport(pgn, nil)
	if !report.OK() {
		return nil
	}
	return report.Games.Games()
}

// ParseReport loads pgn with the notnil rules. A nil cfg uses defaults.
func ParseReport(pgn string, cfg *config.Config) *parser.LoadReport {
	return parser.NewParser(strings.NewReader(pgn), notnilrules.New(), cfg).ParseAll()
}

// MustParseGame parses a PGN string and returns the first game.
// It calls t.Fatal if parsing fails or no games are found.
func MustParseGame(t testing.TB, pgn string) *chess.GameRecord {
	t.Helper()
	games := MustParseGames(t, pgn)
	return games[0]
}

// MustParseGames parses a PGN string and returns all games found.
// It calls t.Fatal if any game fails or none is found.
func MustParseGames(t testing.TB, pgn string) []*chess.GameRecord {
	t.Helper()
	report := ParseReport(pgn, nil)
	if err := report.Err(); err != nil {
		t.Fatalf("failed to parse test PGN: %v\n%s", err, pgn)
	}
	if report.Games.Len() == 0 {
		t.Fatalf("no games in test PGN:\n%s", pgn)
	}
	return report.Games.Games()
}
