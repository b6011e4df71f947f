package parser

import (
	"bufio"
	"io"
	"iter"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/errors"
)

// charClass classifies a byte of movetext.
type charClass uint8

const (
	classError charClass = iota
	classWhitespace
	classTagStart
	classCommentStart
	classCommentEnd
	classLineComment
	classNAG
	classAnnotate
	classCheck
	classDot
	classVariationStart
	classVariationEnd
	classPercent
	classAlpha
	classDigit
	classStar
	classDash
)

// Character classification table
var chTab [256]charClass

// Move character classification table
var moveChars [256]bool

func init() {
	initLexTables()
}

// initLexTables initializes the character classification tables.
func initLexTables() {
	for _, c := range []byte{' ', '\t', '\r', '\n', '\f', '\v'} {
		chTab[c] = classWhitespace
	}

	chTab['['] = classTagStart
	chTab['{'] = classCommentStart
	chTab['}'] = classCommentEnd
	chTab[';'] = classLineComment
	chTab['$'] = classNAG
	chTab['!'] = classAnnotate
	chTab['?'] = classAnnotate
	chTab['+'] = classCheck
	chTab['#'] = classCheck
	chTab['.'] = classDot
	chTab['('] = classVariationStart
	chTab[')'] = classVariationEnd
	chTab['%'] = classPercent
	chTab['*'] = classStar
	chTab['-'] = classDash

	for c := byte('0'); c <= '9'; c++ {
		chTab[c] = classDigit
	}
	for c := byte('A'); c <= 'Z'; c++ {
		chTab[c] = classAlpha
		chTab[c+32] = classAlpha
	}

	for c := byte('a'); c <= 'h'; c++ {
		moveChars[c] = true
	}
	for c := byte('1'); c <= '8'; c++ {
		moveChars[c] = true
	}
	for _, c := range []byte{'K', 'Q', 'R', 'N', 'B', 'P', 'q', 'r', 'n'} {
		moveChars[c] = true
	}
	for _, c := range []byte{'x', ':', '-', '=', 'O', 'o', '0'} {
		moveChars[c] = true
	}
}

// Lexer tokenizes PGN input. It reads line by line and produces tokens lazily.
type Lexer struct {
	reader  *bufio.Reader
	line    string
	pos     int
	lineNum int
	eof     bool
	done    bool
	log     *zap.Logger

	// depth is the current variation nesting.
	depth int
	// inGame is set once anything of a game unit has been read.
	inGame bool
	// inMovetext is set once movetext of the current unit has been read, so
	// a following header starts a new game.
	inMovetext bool
	// inHeaders is set once the current unit has a header.
	inHeaders bool

	pending []Token
}

// NewLexer creates a new lexer for the given reader.
// If cfg is nil, a default config is created.
func NewLexer(r io.Reader, cfg *config.Config) *Lexer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Lexer{
		reader: bufio.NewReader(r),
		log:    cfg.Log(),
	}
}

// Tokens returns the lazy token sequence of r. EOFToken is not yielded; a
// TokenizeError is yielded once as the final pair.
func Tokens(r io.Reader, cfg *config.Config) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := NewLexer(r, cfg)
		for {
			tok, err := l.Next()
			if err != nil {
				yield(tok, err)
				return
			}
			if tok.Type == EOFToken {
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Next returns the next token. At end of input it returns a TokenizeError if
// a comment or variation is still open, then EOFToken forever.
func (l *Lexer) Next() (Token, error) {
	for len(l.pending) == 0 {
		if l.done {
			return Token{Type: EOFToken, Line: l.lineNum}, nil
		}
		if err := l.scan(); err != nil {
			l.done = true
			l.pending = nil
			return Token{Type: EOFToken, Line: l.lineNum}, err
		}
	}
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok, nil
}

// LineNumber returns the current line number.
func (l *Lexer) LineNumber() int {
	return l.lineNum
}

// Depth returns the current variation nesting level.
func (l *Lexer) Depth() int {
	return l.depth
}

func (l *Lexer) emit(t TokenType, text string) {
	l.pending = append(l.pending, Token{Type: t, Text: text, Line: l.lineNum})
}

// readLine reads the next line from input, folding CRLF to LF.
func (l *Lexer) readLine() bool {
	if l.eof {
		return false
	}
	line, err := l.reader.ReadString('\n')
	if err != nil {
		l.eof = true
		if len(line) == 0 {
			return false
		}
	}
	if strings.HasSuffix(line, "\r\n") {
		line = line[:len(line)-2] + "\n"
	}
	l.line = line
	l.pos = 0
	l.lineNum++
	return true
}

// currentChar returns the current character or 0 if at end of line.
func (l *Lexer) currentChar() byte {
	if l.pos >= len(l.line) {
		return 0
	}
	return l.line[l.pos]
}

func (l *Lexer) skipWhile(class charClass) {
	for l.pos < len(l.line) && chTab[l.currentChar()] == class {
		l.pos++
	}
}

// scan consumes input until at least one token is pending or input ends.
func (l *Lexer) scan() error {
	if l.pos >= len(l.line) {
		if !l.readLine() {
			return l.finish()
		}
		if strings.HasPrefix(l.line, "%") {
			l.pos = len(l.line)
		}
		return nil
	}

	ch := l.currentChar()
	start := l.pos
	l.pos++

	switch chTab[ch] {
	case classWhitespace:
		l.skipWhile(classWhitespace)

	case classTagStart:
		l.gatherHeader()

	case classCommentStart:
		return l.gatherComment()

	case classCommentEnd:
		l.log.Warn("unmatched comment end", zap.Int("line", l.lineNum))

	case classLineComment:
		text := strings.TrimRight(l.line[l.pos:], "\n")
		l.pos = len(l.line)
		l.inGame = true
		l.emit(CommentOpen, "")
		l.emit(CommentText, text)
		l.emit(CommentClose, "")

	case classNAG:
		digits := l.pos
		l.skipWhile(classDigit)
		if l.pos == digits {
			l.log.Warn("NAG without number", zap.Int("line", l.lineNum))
			return nil
		}
		l.movetext(NAGToken, "$"+l.line[digits:l.pos])

	case classAnnotate:
		l.skipWhile(classAnnotate)
		text := l.line[start:l.pos]
		if nag := annotationToNAG(text); nag != "" {
			l.movetext(NAGToken, nag)
		} else {
			l.log.Warn("unknown annotation", zap.String("text", text), zap.Int("line", l.lineNum))
		}

	case classCheck:
		// Detached check marks carry nothing the rules cannot recompute.
		l.skipWhile(classCheck)

	case classDot:
		l.skipWhile(classDot)

	case classVariationStart:
		l.depth++
		l.movetext(VariationOpen, "")

	case classVariationEnd:
		if l.depth > 0 {
			l.depth--
		}
		l.movetext(VariationClose, "")

	case classAlpha:
		l.gatherAlpha(ch, start)

	case classDigit:
		l.gatherNumeric(ch, start)

	case classStar:
		l.result(chess.Unfinished)

	case classDash:
		if l.currentChar() == '-' {
			l.pos++
			l.movetext(SANToken, nullMove)
			return nil
		}
		l.log.Warn("single '-' not allowed", zap.Int("line", l.lineNum))

	default:
		l.log.Warn("skipping unknown character",
			zap.String("char", string(ch)), zap.Int("line", l.lineNum))
		for l.pos < len(l.line) && chTab[l.currentChar()] == classError {
			l.pos++
		}
	}
	return nil
}

// nullMove is how "--" and "Z0" are passed on. No rules implementation
// accepts it as SAN, so a null move fails the game it appears in.
const nullMove = "--"

// movetext emits a movetext token and marks the unit as having movetext.
func (l *Lexer) movetext(t TokenType, text string) {
	l.inGame = true
	l.inMovetext = true
	l.emit(t, text)
}

// result emits a result, and a boundary when it closes the game.
func (l *Lexer) result(text string) {
	l.movetext(ResultToken, text)
	if l.depth == 0 {
		l.boundary()
	}
}

func (l *Lexer) boundary() {
	l.emit(GameBoundary, "")
	l.inGame = false
	l.inMovetext = false
	l.inHeaders = false
	l.depth = 0
}

// finish handles end of input.
func (l *Lexer) finish() error {
	l.done = true
	if l.depth > 0 {
		return &errors.TokenizeError{Err: errors.ErrUnterminatedVariation, Line: l.lineNum}
	}
	if l.inGame {
		l.boundary()
	}
	return nil
}

// gatherHeader reads `Name "Value"]` after '['. A header following movetext
// first closes the previous game, and one following only comments closes
// them off as a unit of their own.
func (l *Lexer) gatherHeader() {
	if l.inMovetext || (l.inGame && !l.inHeaders) {
		l.boundary()
	}

	l.skipWhile(classWhitespace)
	start := l.pos
	for l.pos < len(l.line) {
		c := l.currentChar()
		if chTab[c] == classAlpha || chTab[c] == classDigit || c == '_' {
			l.pos++
		} else {
			break
		}
	}
	name := l.line[start:l.pos]
	l.skipWhile(classWhitespace)

	if name == "" || l.currentChar() != '"' {
		l.log.Warn("malformed header", zap.String("text", strings.TrimSpace(l.line)), zap.Int("line", l.lineNum))
		l.pos = len(l.line)
		return
	}
	l.pos++

	var sb strings.Builder
	closed := false
	for l.pos < len(l.line) {
		c := l.currentChar()
		l.pos++
		if c == '\\' && l.pos < len(l.line) {
			sb.WriteByte(l.currentChar())
			l.pos++
			continue
		}
		if c == '"' {
			closed = true
			break
		}
		sb.WriteByte(c)
	}
	if !closed {
		l.log.Warn("missing closing quote", zap.String("tag", name), zap.Int("line", l.lineNum))
	}

	if i := strings.IndexByte(l.line[l.pos:], ']'); i >= 0 {
		l.pos += i + 1
	} else {
		l.log.Warn("missing ']' after header", zap.String("tag", name), zap.Int("line", l.lineNum))
		l.pos = len(l.line)
	}

	l.inGame = true
	l.inHeaders = true
	l.pending = append(l.pending, Token{Type: HeaderToken, Tag: name, Text: sb.String(), Line: l.lineNum})
}

// gatherComment reads a brace comment, possibly spanning lines. Contents are
// passed on verbatim; braces do not nest.
func (l *Lexer) gatherComment() error {
	startLine := l.lineNum
	var sb strings.Builder
	for {
		if i := strings.IndexByte(l.line[l.pos:], '}'); i >= 0 {
			sb.WriteString(l.line[l.pos : l.pos+i])
			l.pos += i + 1
			break
		}
		sb.WriteString(l.line[l.pos:])
		l.pos = len(l.line)
		if !l.readLine() {
			l.done = true
			return &errors.TokenizeError{Err: errors.ErrUnterminatedComment, Line: startLine}
		}
	}

	l.inGame = true
	l.pending = append(l.pending,
		Token{Type: CommentOpen, Line: startLine},
		Token{Type: CommentText, Text: sb.String(), Line: startLine},
		Token{Type: CommentClose, Line: l.lineNum},
	)
	return nil
}

// gatherAlpha handles alpha characters (potential moves).
func (l *Lexer) gatherAlpha(ch byte, start int) {
	if ch == 'Z' && l.currentChar() == '0' {
		l.pos++
		l.movetext(SANToken, nullMove)
		return
	}

	if !moveChars[ch] {
		l.skipWord()
		l.log.Warn("unknown move text", zap.String("text", l.line[start:l.pos]), zap.Int("line", l.lineNum))
		return
	}

	for l.pos < len(l.line) && moveChars[l.currentChar()] {
		l.pos++
	}
	text := l.line[start:l.pos]

	if !moveSeemsValid(text) {
		l.skipWord()
		l.log.Warn("unknown move text", zap.String("text", l.line[start:l.pos]), zap.Int("line", l.lineNum))
		return
	}
	l.san(text)
}

// skipWord consumes the rest of an unrecognised word.
func (l *Lexer) skipWord() {
	for l.pos < len(l.line) {
		switch chTab[l.currentChar()] {
		case classAlpha, classDigit, classDash:
			l.pos++
		default:
			return
		}
	}
}

// san emits a SAN token with any attached check marks.
func (l *Lexer) san(text string) {
	checkStart := l.pos
	l.skipWhile(classCheck)
	l.movetext(SANToken, text+l.line[checkStart:l.pos])
}

// gatherNumeric handles numeric tokens (move numbers, results, castling).
func (l *Lexer) gatherNumeric(initialDigit byte, start int) {
	remaining := l.line[l.pos:]

	switch initialDigit {
	case '0':
		if strings.HasPrefix(remaining, "-1") {
			l.pos += 2
			l.result(chess.BlackWins)
			return
		}
		if strings.HasPrefix(remaining, "-0-0") {
			l.pos += 4
			l.san("O-O-O")
			return
		}
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			l.san("O-O")
			return
		}
	case '1':
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			l.result(chess.WhiteWins)
			return
		}
		if strings.HasPrefix(remaining, "/2") {
			l.pos += 2
			if strings.HasPrefix(l.line[l.pos:], "-1/2") {
				l.pos += 4
			}
			l.result(chess.Draw)
			return
		}
	}

	l.gatherMoveNumber(start)
}

// gatherMoveNumber parses a move number token. Three or more dots mark the
// continuation of a Black move.
func (l *Lexer) gatherMoveNumber(start int) {
	l.skipWhile(classDigit)
	n, err := strconv.Atoi(l.line[start:l.pos])
	if err != nil {
		l.log.Warn("bad move number", zap.String("text", l.line[start:l.pos]), zap.Int("line", l.lineNum))
		return
	}
	dots := l.pos
	l.skipWhile(classDot)

	l.inGame = true
	l.inMovetext = true
	l.pending = append(l.pending, Token{
		Type:              MoveNumberToken,
		MoveNum:           n,
		BlackContinuation: l.pos-dots >= 3,
		Line:              l.lineNum,
	})
}

// annotationToNAG converts annotation symbols to NAG strings.
func annotationToNAG(text string) string {
	switch text {
	case "!":
		return "$1"
	case "?":
		return "$2"
	case "!!":
		return "$3"
	case "??":
		return "$4"
	case "!?":
		return "$5"
	case "?!":
		return "$6"
	default:
		return ""
	}
}

// moveSeemsValid does a basic check if the move text looks valid.
func moveSeemsValid(text string) bool {
	if len(text) < 2 {
		return false
	}

	switch text {
	case "O-O", "O-O-O", "o-o", "o-o-o":
		return true
	}

	hasFile := false
	hasRank := false
	for _, c := range text {
		if c >= 'a' && c <= 'h' {
			hasFile = true
		}
		if c >= '1' && c <= '8' {
			hasRank = true
		}
	}
	return hasFile && hasRank
}
