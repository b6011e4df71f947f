package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/eco"
	"github.com/lgbarn/pgntree/internal/errors"
	"github.com/lgbarn/pgntree/internal/hashing"
	"github.com/lgbarn/pgntree/internal/matching"
	"github.com/lgbarn/pgntree/internal/output"
	"github.com/lgbarn/pgntree/internal/source"
)

// outputFlags are shared by every command that writes games.
type outputFlags struct {
	path         string
	width        int
	tags         string
	noComments   bool
	noVariations bool
	noNAGs       bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.path, "output", "o", source.Stdio, "output file; .gz and .zst are compressed")
	flags.IntVar(&f.width, "width", 0, "movetext line width, 0 for unbounded (default from config)")
	flags.StringVar(&f.tags, "tags", "", "tags to write: all, seven or none (default from config)")
	flags.BoolVar(&f.noComments, "no-comments", false, "drop comments")
	flags.BoolVar(&f.noVariations, "no-variations", false, "drop variations")
	flags.BoolVar(&f.noNAGs, "no-nags", false, "drop NAGs")
}

// apply overrides cfg.Output with the flags the user set.
func (f *outputFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("width") {
		cfg.Output.LineWidth = f.width
	}
	if cmd.Flags().Changed("tags") {
		form, ok := config.ParseTagOutputForm(f.tags)
		if !ok {
			return fmt.Errorf("%w: unknown tag format %q", errors.ErrInvalidConfig, f.tags)
		}
		cfg.Output.TagFormat = form
	}
	if f.noComments {
		cfg.Output.IncludeComments = false
	}
	if f.noVariations {
		cfg.Output.IncludeVariations = false
	}
	if f.noNAGs {
		cfg.Output.IncludeNAGs = false
	}
	return cfg.Output.Validate()
}

// writeGames writes games to the output path in PGN or JSON form.
func (a *app) writeGames(cmd *cobra.Command, f *outputFlags, asJSON bool, games []*chess.GameRecord) error {
	cfg := *a.cfg
	if err := f.apply(cmd, &cfg); err != nil {
		return err
	}
	cfg.Output.JSONFormat = asJSON

	w, err := createOutput(cmd, f.path)
	if err != nil {
		return err
	}

	gw := output.NewWriter(w, &cfg, a.stats)
	for _, game := range games {
		if err := gw.WriteGame(game); err != nil {
			w.Close()
			return err
		}
	}
	if err := gw.Close(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// createOutput opens path for writing; "-" is the command's stdout.
func createOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == source.Stdio {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return source.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// selectFlags choose which games a command writes.
type selectFlags struct {
	where    []string
	player   string
	line     string
	matchAny bool
	dedupe   bool
	ecoPath  string
}

func (f *selectFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVar(&f.where, "where", nil, `tag criterion, e.g. 'Date>=2020.01.01' or 'Event=~^Tata' (repeatable)`)
	flags.StringVar(&f.player, "player", "", "White or Black contains this name")
	flags.StringVar(&f.line, "line", "", `games reaching this line, e.g. "1. e4 c5"`)
	flags.BoolVar(&f.matchAny, "any", false, "select games matching any criterion instead of all")
	flags.BoolVar(&f.dedupe, "dedupe", false, "drop games whose mainline repeats an earlier game's")
	flags.StringVar(&f.ecoPath, "eco", "", "PGN file of ECO lines used to add ECO and Opening tags")
}

// matcher builds the selection, or returns nil when no criterion was given.
func (f *selectFlags) matcher() (matching.GameMatcher, error) {
	mode := matching.MatchAll
	if f.matchAny {
		mode = matching.MatchAny
	}
	m := matching.NewComposite(mode)
	for _, text := range f.where {
		c, err := matching.ParseTagCriterion(text)
		if err != nil {
			return nil, err
		}
		m.Add(c)
	}
	if f.player != "" {
		c, err := matching.NewTagCriterion(matching.PlayerTag, matching.OpContains, f.player)
		if err != nil {
			return nil, err
		}
		m.Add(c)
	}
	if f.line != "" {
		m.Add(matching.NewLineMatcher(f.line, false))
	}
	if m.Len() == 0 {
		return nil, nil
	}
	return m, nil
}

func newFormatCmd(a *app) *cobra.Command {
	var (
		out outputFlags
		sel selectFlags
	)
	cmd := &cobra.Command{
		Use:   "format FILE",
		Short: "Re-serialize games as PGN",
		Long: `Load FILE and write every game that parsed back out as PGN. Games that
fail to parse are reported on stderr and left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd, args[0], &out, &sel, false)
		},
	}
	out.register(cmd)
	sel.register(cmd)
	return cmd
}

func newJSONCmd(a *app) *cobra.Command {
	var (
		out outputFlags
		sel selectFlags
	)
	cmd := &cobra.Command{
		Use:   "json FILE",
		Short: "Export game trees as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd, args[0], &out, &sel, true)
		},
	}
	out.register(cmd)
	sel.register(cmd)
	return cmd
}

func (a *app) convert(cmd *cobra.Command, path string, out *outputFlags, sel *selectFlags, asJSON bool) error {
	m, err := sel.matcher()
	if err != nil {
		return err
	}
	report, err := a.load(cmd.Context(), path)
	if err != nil {
		return err
	}
	if !report.OK() {
		printReport(cmd.ErrOrStderr(), source.Name(path), report)
	}

	games := report.Games.Games()
	if m != nil {
		games = matching.Filter(games, m)
		a.cfg.Log().Info("selected games",
			zap.String("criteria", m.Name()),
			zap.Int("selected", len(games)),
			zap.Int("loaded", report.Games.Len()))
	}
	if sel.dedupe {
		if games, err = a.dedupe(games); err != nil {
			return err
		}
	}
	if sel.ecoPath != "" {
		if err := a.classify(sel.ecoPath, games); err != nil {
			return err
		}
	}
	return a.writeGames(cmd, out, asJSON, games)
}

// dedupe keeps the first game of each distinct mainline.
func (a *app) dedupe(games []*chess.GameRecord) ([]*chess.GameRecord, error) {
	d := hashing.NewDuplicateDetector(a.rules)
	unique := games[:0:0]
	for _, g := range games {
		dup, err := d.CheckAndAdd(g)
		if err != nil {
			return nil, err
		}
		if !dup {
			unique = append(unique, g)
		}
	}
	a.cfg.Log().Info("removed duplicates", zap.Int("duplicates", d.DuplicateCount()))
	return unique, nil
}

// classify adds ECO tags from the lines in path.
func (a *app) classify(path string, games []*chess.GameRecord) error {
	c := eco.NewClassifier(a.rules, a.cfg.Log())
	if err := c.LoadFile(path); err != nil {
		return err
	}
	classified := 0
	for _, g := range games {
		ok, err := c.AddTags(g)
		if err != nil {
			return err
		}
		if ok {
			classified++
		}
	}
	a.cfg.Log().Info("classified openings",
		zap.Int("entries", c.Len()),
		zap.Int("classified", classified),
		zap.Int("games", len(games)))
	return nil
}
