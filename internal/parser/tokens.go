// Package parser provides PGN lexing and parsing functionality.
package parser

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	EOFToken TokenType = iota
	HeaderToken
	MoveNumberToken
	SANToken
	CommentOpen
	CommentText
	CommentClose
	VariationOpen
	VariationClose
	NAGToken
	ResultToken
	GameBoundary
)

// tokenTypeNames maps token types to their string representations.
var tokenTypeNames = [...]string{
	EOFToken:        "EOF",
	HeaderToken:     "HEADER",
	MoveNumberToken: "MOVE_NUMBER",
	SANToken:        "SAN",
	CommentOpen:     "COMMENT_OPEN",
	CommentText:     "COMMENT_TEXT",
	CommentClose:    "COMMENT_CLOSE",
	VariationOpen:   "VARIATION_OPEN",
	VariationClose:  "VARIATION_CLOSE",
	NAGToken:        "NAG",
	ResultToken:     "RESULT",
	GameBoundary:    "GAME_BOUNDARY",
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// Token represents a lexical token with its value.
type Token struct {
	Type TokenType

	// Text holds the SAN, comment text, "$n" glyph, result or header value.
	Text string

	// Tag is the header name for HeaderToken.
	Tag string

	// MoveNum and BlackContinuation describe a MoveNumberToken; "12..." sets
	// BlackContinuation.
	MoveNum           int
	BlackContinuation bool

	// Line is the 1-based input line the token started on.
	Line int
}

// String renders the token for diagnostics.
func (t Token) String() string {
	switch t.Type {
	case HeaderToken:
		return fmt.Sprintf("%s[%s %q]", t.Type, t.Tag, t.Text)
	case MoveNumberToken:
		if t.BlackContinuation {
			return fmt.Sprintf("%s(%d...)", t.Type, t.MoveNum)
		}
		return fmt.Sprintf("%s(%d.)", t.Type, t.MoveNum)
	case SANToken, CommentText, NAGToken, ResultToken:
		return fmt.Sprintf("%s(%q)", t.Type, t.Text)
	}
	return t.Type.String()
}

// TokenSource yields tokens one at a time. After EOFToken or a non-nil error
// every further call returns EOFToken.
type TokenSource interface {
	Next() (Token, error)
}

// SliceSource replays a fixed token slice, optionally ending with an error.
// The loader uses it to parse one game unit split off a larger stream.
type SliceSource struct {
	tokens []Token
	err    error
	pos    int
}

// NewSliceSource creates a source over tokens. A non-nil err is returned once
// the tokens are exhausted.
func NewSliceSource(tokens []Token, err error) *SliceSource {
	return &SliceSource{tokens: tokens, err: err}
}

// Next returns the next token.
func (s *SliceSource) Next() (Token, error) {
	if s.pos < len(s.tokens) {
		tok := s.tokens[s.pos]
		s.pos++
		return tok, nil
	}
	if s.err != nil {
		err := s.err
		s.err = nil
		return Token{Type: EOFToken}, err
	}
	return Token{Type: EOFToken}, nil
}
