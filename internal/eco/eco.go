// Package eco classifies games by opening, using a PGN file of ECO lines.
package eco

import (
	"io"

	"go.uber.org/zap"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/errors"
	"github.com/lgbarn/pgntree/internal/hashing"
	"github.com/lgbarn/pgntree/internal/parser"
	"github.com/lgbarn/pgntree/internal/rules"
	"github.com/lgbarn/pgntree/internal/source"
)

// HalfMoveSlack is how far a game's ply may differ from an entry's and still
// match on position alone, as happens after a transposition.
const HalfMoveSlack = 6

// Tags written by AddTags.
const (
	ECOTag          = "ECO"
	OpeningTag      = "Opening"
	VariationTag    = "Variation"
	SubVariationTag = "SubVariation"
)

// Entry is one classified line.
type Entry struct {
	Code         string // e.g. "B33"
	Opening      string
	Variation    string
	SubVariation string

	position uint64 // hash of the final position
	path     uint64 // XOR of every position hash along the line
	plies    int
}

// Classifier maps positions to ECO entries.
type Classifier struct {
	rules    rules.Rules
	log      *zap.Logger
	entries  map[uint64][]*Entry
	loaded   int
	maxPlies int
}

// NewClassifier creates an empty classifier. A nil log discards diagnostics.
func NewClassifier(rl rules.Rules, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{rules: rl, log: log, entries: make(map[uint64][]*Entry)}
}

// LoadFile reads ECO lines from a PGN file, compressed or not.
func (c *Classifier) LoadFile(path string) error {
	r, err := source.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return c.LoadFromReader(r)
}

// LoadFromReader reads ECO lines from PGN text. Each game with an ECO tag
// contributes the position its mainline ends in. Games that fail to parse
// are skipped and logged.
func (c *Classifier) LoadFromReader(r io.Reader) error {
	cfg := config.NewConfig()
	cfg.Parse.ExtractEvaluations = false
	cfg.Logger = c.log

	report := parser.NewParser(r, c.rules, cfg).ParseAll()
	for _, f := range report.Errors {
		c.log.Warn("skipping ECO line", zap.Int("game", f.Index), zap.Error(f.Err))
	}
	for _, game := range report.Games.All() {
		if err := c.add(game); err != nil {
			return err
		}
	}
	if report.Total > 0 && c.loaded == 0 {
		return errors.Wrap(errors.ErrNoECOEntries, "loading ECO lines")
	}
	c.log.Debug("loaded ECO lines", zap.Int("entries", c.loaded))
	return nil
}

func (c *Classifier) add(game *chess.GameRecord) error {
	code := game.GetTag(ECOTag)
	if code == "" {
		return nil
	}
	sig, err := hashing.SignatureOf(c.rules, game)
	if err != nil {
		return err
	}
	if sig.Plies == 0 {
		return nil
	}

	for _, e := range c.entries[sig.Final] {
		if e.plies == sig.Plies && e.path == sig.Path {
			return nil
		}
	}
	c.entries[sig.Final] = append(c.entries[sig.Final], &Entry{
		Code:         code,
		Opening:      game.GetTag(OpeningTag),
		Variation:    game.GetTag(VariationTag),
		SubVariation: game.GetTag(SubVariationTag),
		position:     sig.Final,
		path:         sig.Path,
		plies:        sig.Plies,
	})
	c.loaded++
	c.maxPlies = max(c.maxPlies, sig.Plies)
	return nil
}

// Len returns the number of entries loaded.
func (c *Classifier) Len() int {
	return c.loaded
}

// Classify returns the deepest entry the mainline of game reaches, or nil.
// Callers hold the game's read lock.
func (c *Classifier) Classify(game *chess.GameRecord) (*Entry, error) {
	if c.loaded == 0 {
		return nil, nil
	}

	var best *Entry
	var path uint64
	ply := 0
	limit := c.maxPlies + HalfMoveSlack
	_, err := rules.ReplayMainline(c.rules, game, func(_ *chess.Node, pos rules.Position) bool {
		ply++
		h := hashing.PositionHash(pos.FEN())
		path ^= h
		if m := c.lookup(h, path, ply); m != nil {
			best = m
		}
		return ply < limit
	})
	return best, err
}

// lookup prefers an entry reached by the same moves, then one reached by a
// transposition of similar length.
func (c *Classifier) lookup(position, path uint64, ply int) *Entry {
	var near *Entry
	for _, e := range c.entries[position] {
		if e.plies == ply && e.path == path {
			return e
		}
		if abs(ply-e.plies) <= HalfMoveSlack {
			near = e
		}
	}
	return near
}

// AddTags classifies game and writes the ECO, Opening, Variation and
// SubVariation tags it finds. It reports whether the game was classified.
func (c *Classifier) AddTags(game *chess.GameRecord) (bool, error) {
	game.Lock()
	defer game.Unlock()

	e, err := c.Classify(game)
	if err != nil || e == nil {
		return false, err
	}
	for _, t := range []struct{ tag, value string }{
		{ECOTag, e.Code},
		{OpeningTag, e.Opening},
		{VariationTag, e.Variation},
		{SubVariationTag, e.SubVariation},
	} {
		if t.value != "" {
			game.SetTag(t.tag, t.value)
		}
	}
	return true, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
