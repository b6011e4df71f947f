package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// EvalKind is the closed set of evaluation forms found in comments.
type EvalKind int

const (
	Unscored EvalKind = iota
	Centipawn
	MateIn
)

// String returns the kind name.
func (k EvalKind) String() string {
	switch k {
	case Centipawn:
		return "Centipawn"
	case MateIn:
		return "MateIn"
	default:
		return "Unscored"
	}
}

// Evaluation is an engine score taken from the leading token of a comment.
type Evaluation struct {
	Kind       EvalKind
	Centipawns int    // Centipawn only
	Mate       int    // MateIn only, moves to mate
	Mating     Colour // MateIn only, the side delivering mate
	Depth      int    // search depth from a "/n" suffix, 0 if absent
}

// String renders the evaluation the way it is usually written in comments.
func (e Evaluation) String() string {
	var s string
	switch e.Kind {
	case Centipawn:
		s = fmt.Sprintf("%+.2f", float64(e.Centipawns)/100)
	case MateIn:
		if e.Mating == Black {
			s = fmt.Sprintf("#-%d", e.Mate)
		} else {
			s = fmt.Sprintf("#%d", e.Mate)
		}
	default:
		return ""
	}
	if e.Depth > 0 {
		s += "/" + strconv.Itoa(e.Depth)
	}
	return s
}

// NAG is a Numeric Annotation Glyph.
type NAG int

// Common glyphs.
const (
	GoodMove        NAG = 1
	Mistake         NAG = 2
	BrilliantMove   NAG = 3
	Blunder         NAG = 4
	InterestingMove NAG = 5
	DubiousMove     NAG = 6
)

// ParseNAG parses "$n".
func ParseNAG(s string) (NAG, error) {
	if !strings.HasPrefix(s, "$") {
		return 0, fmt.Errorf("invalid NAG %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n > 255 {
		return 0, fmt.Errorf("invalid NAG %q", s)
	}
	return NAG(n), nil
}

// String returns the "$n" form.
func (n NAG) String() string {
	return "$" + strconv.Itoa(int(n))
}

// Annotation is the typed data attached to a node alongside its comment.
type Annotation struct {
	Eval Evaluation
	NAGs []NAG
}

// IsEmpty reports whether there is neither an evaluation nor any glyph.
func (a Annotation) IsEmpty() bool {
	return a.Eval.Kind == Unscored && len(a.NAGs) == 0
}
