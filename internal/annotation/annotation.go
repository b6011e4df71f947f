// Package annotation extracts engine evaluations from the leading token of
// PGN comment text.
package annotation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lgbarn/pgntree/internal/chess"
)

// evalRegex matches a leading evaluation: optional sign, optional mate marker
// (itself optionally signed), digits with an optional fraction, and an
// optional "/depth". The token must end at whitespace or end of text.
var evalRegex = regexp.MustCompile(`^([+-])?(#)?([+-])?(\d+(?:\.\d+)?)(?:/(\d+))?(?:\s+|$)`)

// MaxPawns bounds a pawn score; larger values are not evaluations.
const MaxPawns = 10000

// newlineRegex matches a line break together with surrounding blanks.
var newlineRegex = regexp.MustCompile(`[ \t]*\r?\n[ \t\r\n]*`)

// Extract splits a leading evaluation token off text. On a match it returns
// the evaluation and the remainder with newlines collapsed to single spaces
// and outer whitespace trimmed. Otherwise it returns Unscored and text
// unchanged. It never fails; malformed tokens simply do not match.
func Extract(text string) (chess.Evaluation, string) {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	m := evalRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return chess.Evaluation{}, text
	}

	outerSign, mate, innerSign, number, depth := m[1], m[2], m[3], m[4], m[5]
	if outerSign != "" && innerSign != "" {
		return chess.Evaluation{}, text
	}
	if innerSign != "" && mate == "" {
		return chess.Evaluation{}, text
	}
	sign := outerSign + innerSign

	var eval chess.Evaluation
	if mate != "" {
		n, err := strconv.Atoi(number)
		if err != nil {
			return chess.Evaluation{}, text
		}
		eval.Kind = chess.MateIn
		eval.Mate = n
		eval.Mating = chess.White
		if sign == "-" {
			eval.Mating = chess.Black
		}
	} else {
		v, err := strconv.ParseFloat(number, 64)
		if err != nil || v > MaxPawns {
			return chess.Evaluation{}, text
		}
		if sign == "-" {
			v = -v
		}
		eval.Kind = chess.Centipawn
		eval.Centipawns = int(math.Round(v * 100))
	}

	if depth != "" {
		if d, err := strconv.Atoi(depth); err == nil {
			eval.Depth = d
		}
	}

	return eval, cleanRemainder(trimmed[len(m[0]):])
}

// Evaluate returns only the evaluation part of Extract.
func Evaluate(text string) chess.Evaluation {
	eval, _ := Extract(text)
	return eval
}

// Display returns the comment as shown to a reader: the remainder after any
// evaluation, or the cleaned text when there is none.
func Display(text string) string {
	eval, rest := Extract(text)
	if eval.Kind == chess.Unscored {
		return cleanRemainder(text)
	}
	return rest
}

func cleanRemainder(s string) string {
	return strings.TrimSpace(newlineRegex.ReplaceAllString(s, " "))
}
