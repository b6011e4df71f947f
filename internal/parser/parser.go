package parser

import (
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/lgbarn/pgntree/internal/annotation"
	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/errors"
	"github.com/lgbarn/pgntree/internal/rules"
)

// Parser builds game trees from a token stream. Variations are handled with
// an explicit stack, so nesting depth is bounded only by memory and
// ParseConfig.MaxVariationDepth.
type Parser struct {
	src   TokenSource
	rules rules.Rules
	cfg   *config.Config
	log   *zap.Logger

	// index is the 0-based index of the next game unit that counts.
	index int
	done  bool
}

// NewParser creates a new parser reading PGN text from r.
// If cfg is nil, a default config is created.
func NewParser(r io.Reader, rl rules.Rules, cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return NewParserFromSource(NewLexer(r, cfg), rl, cfg)
}

// NewParserFromSource creates a parser over an existing token source.
func NewParserFromSource(src TokenSource, rl rules.Rules, cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Parser{
		src:   src,
		rules: rl,
		cfg:   cfg,
		log:   cfg.Log(),
	}
}

// frame is one level of the variation stack.
type frame struct {
	cursor *chess.Node
	pos    rules.Position
	// prevPos is the position before cursor's move, nil at a line start.
	prevPos rules.Position
}

// builder holds the state of the game unit being parsed.
type builder struct {
	record *chess.GameRecord
	cur    frame
	stack  []frame

	// counts is set once the unit holds a header, a move or a result.
	counts     bool
	hasComment bool

	// openVariation is set between "(" and the variation's first move.
	openVariation bool
	preComment    string

	inComment bool
	comment   strings.Builder

	line int
}

// ParseGame parses the next game. A game that fails is returned as a
// *errors.GameError and parsing may continue with the next call. At end of
// input it returns (nil, nil).
func (p *Parser) ParseGame() (*chess.GameRecord, error) {
	for !p.done {
		game, counted, err := p.parseUnit()
		if !counted {
			continue
		}
		if err != nil {
			gameErr := &errors.GameError{
				Err:   err,
				Index: p.index,
				File:  p.cfg.Parse.SourceName,
			}
			var parseErr *errors.ParseError
			if errors.As(err, &parseErr) {
				gameErr.Line = parseErr.Line
			}
			p.index++
			p.log.Warn("skipping game", zap.Int("game", gameErr.Index), zap.Error(err))
			return nil, gameErr
		}
		p.index++
		return game, nil
	}
	return nil, nil
}

// ParseAll parses every game in the input and reports failures per game
// instead of stopping at the first one.
func (p *Parser) ParseAll() *LoadReport {
	report := NewLoadReport()
	for {
		game, err := p.ParseGame()
		if err != nil {
			var gameErr *errors.GameError
			index := report.Total
			if errors.As(err, &gameErr) {
				index = gameErr.Index
			}
			report.Fail(index, err)
			continue
		}
		if game == nil {
			break
		}
		report.Add(game)
	}
	p.log.Debug("parsed input",
		zap.Int("games", report.Games.Len()), zap.Int("failed", len(report.Errors)))
	return report
}

// parseUnit consumes tokens up to the next game boundary. counted is false
// when the unit held nothing that makes a game.
func (p *Parser) parseUnit() (game *chess.GameRecord, counted bool, err error) {
	b := &builder{record: chess.NewGameRecord()}
	b.cur.cursor = b.record.Root

	for {
		tok, tokErr := p.src.Next()
		if tokErr != nil {
			p.done = true
			if errors.Is(tokErr, errors.ErrUnterminatedVariation) {
				return nil, true, &errors.ParseError{Kind: errors.UnbalancedVariation, Line: tok.Line, Err: tokErr}
			}
			return nil, true, tokErr
		}
		if b.line == 0 {
			b.line = tok.Line
			b.record.StartLine = tok.Line
		}

		switch tok.Type {
		case EOFToken:
			p.done = true
			fallthrough
		case GameBoundary:
			if len(b.stack) > 0 {
				return nil, true, &errors.ParseError{Kind: errors.UnbalancedVariation, Line: tok.Line}
			}
			if !b.counts {
				if b.hasComment {
					p.log.Warn("dropping comment without a game", zap.Int("line", b.line))
				}
				return nil, false, nil
			}
			if err := p.ensureStart(b, tok); err != nil {
				return nil, true, err
			}
			b.record.EndLine = tok.Line
			return b.record, true, nil

		default:
			if err := p.apply(b, tok); err != nil {
				p.skipToBoundary()
				return nil, true, err
			}
		}
	}
}

// skipToBoundary discards the rest of a failed game unit.
func (p *Parser) skipToBoundary() {
	for {
		tok, err := p.src.Next()
		if err != nil {
			p.log.Warn("input ended inside a skipped game", zap.Error(err))
			p.done = true
			return
		}
		switch tok.Type {
		case GameBoundary:
			return
		case EOFToken:
			p.done = true
			return
		}
	}
}

// apply feeds one token to the builder.
func (p *Parser) apply(b *builder, tok Token) error {
	switch tok.Type {
	case HeaderToken:
		b.counts = true
		b.record.SetTag(tok.Tag, tok.Text)

	case MoveNumberToken:
		// Numbers are recomputed from the tree when writing.

	case SANToken:
		return p.applySAN(b, tok)

	case VariationOpen:
		if b.cur.prevPos == nil {
			return &errors.ParseError{Kind: errors.UnbalancedVariation, Token: "(", Line: tok.Line}
		}
		if limit := p.cfg.Parse.MaxVariationDepth; limit > 0 && len(b.stack) >= limit {
			return &errors.ParseError{Kind: errors.VariationTooDeep, Token: "(", Line: tok.Line}
		}
		b.stack = append(b.stack, b.cur)
		b.cur = frame{cursor: b.cur.cursor.Parent(), pos: b.cur.prevPos}
		b.openVariation = true
		b.preComment = ""

	case VariationClose:
		if len(b.stack) == 0 {
			return &errors.ParseError{Kind: errors.UnbalancedVariation, Token: ")", Line: tok.Line}
		}
		if b.openVariation {
			p.log.Debug("empty variation", zap.Int("line", tok.Line))
			b.openVariation = false
		}
		b.cur = b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]

	case CommentOpen:
		b.inComment = true
		b.comment.Reset()

	case CommentText:
		b.comment.WriteString(tok.Text)
		if !b.inComment {
			p.attachComment(b)
		}

	case CommentClose:
		p.attachComment(b)
		b.inComment = false

	case NAGToken:
		nag, err := chess.ParseNAG(tok.Text)
		if err != nil {
			p.log.Warn("ignoring NAG", zap.String("nag", tok.Text), zap.Int("line", tok.Line))
			return nil
		}
		if b.cur.cursor.IsRoot() || b.openVariation {
			p.log.Warn("dropping NAG without a move", zap.String("nag", tok.Text), zap.Int("line", tok.Line))
			return nil
		}
		b.cur.cursor.Annotation.NAGs = append(b.cur.cursor.Annotation.NAGs, nag)

	case ResultToken:
		if len(b.stack) > 0 {
			p.log.Debug("result inside variation", zap.String("result", tok.Text), zap.Int("line", tok.Line))
			return nil
		}
		b.counts = true
		b.record.Result = tok.Text
	}
	return nil
}

// ensureStart sets up the start position from the FEN header, if any.
func (p *Parser) ensureStart(b *builder, tok Token) error {
	if b.cur.pos != nil {
		return nil
	}
	pos := p.rules.StartingPosition()
	if fen := b.record.GetTag(chess.FENTag); fen != "" {
		var err error
		pos, err = p.rules.PositionFromFEN(fen)
		if err != nil {
			return &errors.ParseError{
				Kind:  errors.InvalidFEN,
				Token: fen,
				File:  p.cfg.Parse.SourceName,
				Line:  tok.Line,
				Err:   err,
			}
		}
	}
	b.cur.pos = pos
	b.record.StartPly = rules.StartPly(pos)
	return nil
}

// applySAN resolves a move against the mirrored position and appends it to
// the cursor.
func (p *Parser) applySAN(b *builder, tok Token) error {
	b.counts = true
	if err := p.ensureStart(b, tok); err != nil {
		return err
	}

	pos := b.cur.pos
	move, err := p.rules.ParseSAN(pos, tok.Text)
	if err != nil {
		return p.illegal(b, tok, pos, err)
	}
	next, err := p.rules.Apply(pos, move)
	if err != nil {
		return p.illegal(b, tok, pos, err)
	}
	san, err := p.rules.ToSAN(pos, move)
	if err != nil {
		san = rules.NormalizeSAN(tok.Text)
	}

	child := b.cur.cursor.AddChild(move, san)
	if b.openVariation {
		child.PreComment = b.preComment
		b.openVariation = false
		b.preComment = ""
	}
	b.cur = frame{cursor: child, pos: next, prevPos: pos}
	return nil
}

func (p *Parser) illegal(b *builder, tok Token, pos rules.Position, err error) error {
	return &errors.ParseError{
		Kind:     errors.IllegalMove,
		Token:    tok.Text,
		Position: pos.FEN(),
		File:     p.cfg.Parse.SourceName,
		Line:     tok.Line,
		Err:      err,
	}
}

// attachComment stores the buffered comment text. Before the first move it
// goes to the root, right after "(" to the variation's first move, and
// otherwise to the cursor.
func (p *Parser) attachComment(b *builder) {
	text := strings.TrimSpace(b.comment.String())
	b.comment.Reset()
	if text == "" {
		return
	}
	b.hasComment = true

	switch {
	case b.openVariation:
		b.preComment = mergeComment(b.preComment, text)
	default:
		node := b.cur.cursor
		node.Comment = mergeComment(node.Comment, text)
		if p.cfg.Parse.ExtractEvaluations && !node.IsRoot() {
			node.Annotation.Eval = annotation.Evaluate(node.Comment)
		}
	}
}

func mergeComment(existing, text string) string {
	if existing == "" {
		return text
	}
	return existing + " " + text
}
