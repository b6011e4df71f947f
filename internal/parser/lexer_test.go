package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/errors"
)

// collect drains the lexer, returning the tokens and the final error.
func collect(t *testing.T, input string, cfg *config.Config) ([]Token, error) {
	t.Helper()
	var toks []Token
	for tok, err := range Tokens(strings.NewReader(input), cfg) {
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

var ignoreLine = cmpopts.IgnoreFields(Token{}, "Line")

func TestLexerTokenStream(t *testing.T) {
	input := "[White \"A \\\"q\\\" B\"]\n\n" +
		"1. e4+ {a (b} 1... e5!? (2... $1) ; rest\n" +
		"% escaped line 1-0\n" +
		"1-0\n"

	got, err := collect(t, input, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		{Type: HeaderToken, Tag: "White", Text: `A "q" B`},
		{Type: MoveNumberToken, MoveNum: 1},
		{Type: SANToken, Text: "e4+"},
		{Type: CommentOpen},
		{Type: CommentText, Text: "a (b"},
		{Type: CommentClose},
		{Type: MoveNumberToken, MoveNum: 1, BlackContinuation: true},
		{Type: SANToken, Text: "e5"},
		{Type: NAGToken, Text: "$5"},
		{Type: VariationOpen},
		{Type: MoveNumberToken, MoveNum: 2, BlackContinuation: true},
		{Type: NAGToken, Text: "$1"},
		{Type: VariationClose},
		{Type: CommentOpen},
		{Type: CommentText, Text: " rest"},
		{Type: CommentClose},
		{Type: ResultToken, Text: "1-0"},
		{Type: GameBoundary},
	}
	if diff := cmp.Diff(want, got, ignoreLine); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerMoves(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"zero castling", "0-0 0-0-0", []string{"O-O", "O-O-O"}},
		{"letter castling", "O-O O-O-O+", []string{"O-O", "O-O-O+"}},
		{"captures and promotion", "exd5 e8=Q# Nbxd2", []string{"exd5", "e8=Q#", "Nbxd2"}},
		{"glued move number", "1.e4 2.Nf3", []string{"e4", "Nf3"}},
		{"null moves", "-- Z0", []string{"--", "--"}},
		{"detached check mark", "Qh5 +", []string{"Qh5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := collect(t, tt.input, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got []string
			for _, tok := range toks {
				if tok.Type == SANToken {
					got = append(got, tok.Text)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SAN mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerResults(t *testing.T) {
	for _, result := range []string{"1-0", "0-1", "1/2-1/2", "*"} {
		t.Run(result, func(t *testing.T) {
			toks, err := collect(t, "1. e4 "+result, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(toks) != 4 {
				t.Fatalf("got %d tokens, want 4: %v", len(toks), toks)
			}
			if toks[2].Type != ResultToken || toks[2].Text != result {
				t.Errorf("token = %v, want RESULT(%q)", toks[2], result)
			}
			if toks[3].Type != GameBoundary {
				t.Errorf("token = %v, want GAME_BOUNDARY", toks[3])
			}
		})
	}
}

func TestLexerGameBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		boundaries int
	}{
		{"result closes game", "1. e4 e5 1-0\n\n1. d4 d5 0-1\n", 2},
		{"no blank line between games", "[Event \"A\"]\n1. e4 *\n[Event \"B\"]\n1. d4 *\n", 2},
		{"header after movetext without result", "[Event \"A\"]\n1. e4 e5\n[Event \"B\"]\n1. d4 *\n", 2},
		{"open game at end of input", "1. e4 e5", 1},
		{"result inside variation", "1. e4 (1. d4 1-0) e5 *", 1},
		{"headers only", "[Event \"A\"]\n[Site \"B\"]\n", 1},
		{"empty input", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := collect(t, tt.input, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			n := 0
			for _, tok := range toks {
				if tok.Type == GameBoundary {
					n++
				}
			}
			if n != tt.boundaries {
				t.Errorf("boundaries = %d, want %d (%v)", n, tt.boundaries, toks)
			}
		})
	}
}

func TestLexerLineEndings(t *testing.T) {
	toks, err := collect(t, "1. e4 {two\r\nlines} e5 *\r\n", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range toks {
		if tok.Type == CommentText && tok.Text != "two\nlines" {
			t.Errorf("comment = %q, want %q", tok.Text, "two\nlines")
		}
	}
	if last := toks[len(toks)-1]; last.Type != GameBoundary || last.Line != 2 {
		t.Errorf("last token = %v on line %d, want GAME_BOUNDARY on line 2", last, last.Line)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		line     int
	}{
		{"unterminated comment", "1. e4 e5\n2. Nf3 {never\nclosed", errors.ErrUnterminatedComment, 2},
		{"unterminated variation", "1. e4 (1. d4 d5\n", errors.ErrUnterminatedVariation, 1},
		{"unterminated nested variation", "1. e4 (1. d4 (1. c4) *", errors.ErrUnterminatedVariation, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(t, tt.input, nil)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}
			var tokErr *errors.TokenizeError
			if !errors.As(err, &tokErr) {
				t.Fatalf("error %T is not a TokenizeError", err)
			}
			if tokErr.Line != tt.line {
				t.Errorf("Line = %d, want %d", tokErr.Line, tt.line)
			}
		})
	}
}

func TestLexerAfterErrorReturnsEOF(t *testing.T) {
	l := NewLexer(strings.NewReader("{open"), nil)
	if _, err := l.Next(); err == nil {
		t.Fatal("expected tokenize error")
	}
	for i := 0; i < 2; i++ {
		tok, err := l.Next()
		if err != nil || tok.Type != EOFToken {
			t.Errorf("Next() = %v, %v; want EOF, nil", tok, err)
		}
	}
}

func TestLexerWarnsOnUnknownCharacters(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.NewConfig()
	cfg.Logger = zap.New(core)

	toks, err := collect(t, "1. e4 & e5 White } *", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sans []string
	for _, tok := range toks {
		if tok.Type == SANToken {
			sans = append(sans, tok.Text)
		}
	}
	if diff := cmp.Diff([]string{"e4", "e5"}, sans); diff != "" {
		t.Errorf("SAN mismatch (-want +got):\n%s", diff)
	}

	if n := logs.FilterMessage("skipping unknown character").Len(); n != 1 {
		t.Errorf("unknown character warnings = %d, want 1", n)
	}
	if n := logs.FilterMessage("unknown move text").Len(); n != 1 {
		t.Errorf("unknown move text warnings = %d, want 1", n)
	}
	if n := logs.FilterMessage("unmatched comment end").Len(); n != 1 {
		t.Errorf("unmatched comment warnings = %d, want 1", n)
	}
}

func TestSliceSource(t *testing.T) {
	toks := []Token{{Type: SANToken, Text: "e4"}}
	src := NewSliceSource(toks, errors.ErrUnterminatedComment)

	if tok, err := src.Next(); err != nil || tok.Text != "e4" {
		t.Fatalf("Next() = %v, %v", tok, err)
	}
	if _, err := src.Next(); !errors.Is(err, errors.ErrUnterminatedComment) {
		t.Fatalf("Next() error = %v, want ErrUnterminatedComment", err)
	}
	if tok, err := src.Next(); err != nil || tok.Type != EOFToken {
		t.Fatalf("Next() = %v, %v; want EOF", tok, err)
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: SANToken, Text: "Nf3"}, `SAN("Nf3")`},
		{Token{Type: MoveNumberToken, MoveNum: 4, BlackContinuation: true}, "MOVE_NUMBER(4...)"},
		{Token{Type: HeaderToken, Tag: "Event", Text: "x"}, `HEADER[Event "x"]`},
		{Token{Type: GameBoundary}, "GAME_BOUNDARY"},
		{Token{Type: TokenType(99)}, "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
