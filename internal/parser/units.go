package parser

import (
	"io"
	"iter"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/rules"
)

// Unit is the token stream of one game unit, cut from the input at a game
// boundary so that units can be parsed independently.
type Unit struct {
	Tokens []Token

	// Err is a tokenizer failure that ended the input inside this unit.
	Err error

	// Seq is the position of the unit in the input.
	Seq int

	// Index is the game index the unit is reported under. It is only
	// meaningful when Counts is set.
	Index int

	// Counts is false for units that hold no game, such as a stray comment
	// between games.
	Counts bool
}

// Units splits the token stream of r into game units. The final unit carries
// any tokenizer error.
func Units(r io.Reader, cfg *config.Config) iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		lex := NewLexer(r, cfg)
		var u Unit
		index := 0

		emit := func() bool {
			if u.Counts {
				u.Index = index
				index++
			}
			ok := yield(u)
			u = Unit{Seq: u.Seq + 1}
			return ok
		}

		for {
			tok, err := lex.Next()
			if err != nil {
				u.Err = err
				u.Counts = true
				emit()
				return
			}
			if tok.Type == EOFToken {
				if len(u.Tokens) > 0 {
					emit()
				}
				return
			}

			u.Tokens = append(u.Tokens, tok)
			if countsAsGame(tok.Type) {
				u.Counts = true
			}
			if tok.Type == GameBoundary && !emit() {
				return
			}
		}
	}
}

// countsAsGame reports whether a token makes its unit a game, either because
// the parser records it or because it fails the unit.
func countsAsGame(t TokenType) bool {
	switch t {
	case HeaderToken, SANToken, ResultToken, VariationOpen, VariationClose:
		return true
	}
	return false
}

// ParseUnit parses one unit produced by Units. It returns (nil, nil) for a
// unit that holds no game. Failures are *errors.GameError values carrying
// u.Index.
func ParseUnit(u Unit, rl rules.Rules, cfg *config.Config) (*chess.GameRecord, error) {
	p := NewParserFromSource(NewSliceSource(u.Tokens, u.Err), rl, cfg)
	p.index = u.Index
	return p.ParseGame()
}
