package processing

import (
	"context"
	"io"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/errors"
	"github.com/lgbarn/pgntree/internal/parser"
	"github.com/lgbarn/pgntree/internal/rules"
	"github.com/lgbarn/pgntree/internal/stats"
	"github.com/lgbarn/pgntree/internal/worker"
)

// Loader reads whole PGN collections into a LoadReport.
type Loader struct {
	rules rules.Rules
	cfg   *config.Config
	stats stats.Collector
	log   *zap.Logger
}

// NewLoader creates a loader. A nil cfg uses defaults and a nil collector
// discards metrics.
func NewLoader(rl rules.Rules, cfg *config.Config, st stats.Collector) *Loader {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Loader{
		rules: rl,
		cfg:   cfg,
		stats: stats.OrNoop(st),
		log:   cfg.Log(),
	}
}

// Load parses every game in r, sequentially when cfg.Load.Workers is 1 and
// on the worker pool otherwise. Games keep their input order either way.
// When ctx is cancelled Load returns the games parsed so far together with
// ctx.Err().
func (l *Loader) Load(ctx context.Context, r io.Reader) (*parser.LoadReport, error) {
	if l.cfg.Load.Workers <= 1 {
		return l.LoadSequential(ctx, r)
	}
	return l.LoadParallel(ctx, r)
}

// LoadSequential parses r on the calling goroutine.
func (l *Loader) LoadSequential(ctx context.Context, r io.Reader) (*parser.LoadReport, error) {
	start := time.Now()
	report := parser.NewLoadReport()
	p := parser.NewParser(r, l.rules, l.cfg)
	for {
		if err := ctx.Err(); err != nil {
			return l.finish(report, 1, start), err
		}
		began := time.Now()
		game, err := p.ParseGame()
		if err == nil && game == nil {
			return l.finish(report, 1, start), nil
		}
		l.record(report, parseOutcome{game: game, err: err, index: report.Total}, time.Since(began))
	}
}

// LoadParallel splits r into game units at game boundaries and parses them
// on cfg.Load.Workers goroutines. Failures carry the same game indices as a
// sequential load.
func (l *Loader) LoadParallel(ctx context.Context, r io.Reader) (*parser.LoadReport, error) {
	start := time.Now()
	pool := worker.NewPool(l.parseUnit,
		worker.WithWorkers(l.cfg.Load.Workers),
		worker.WithBufferSize(l.cfg.Load.BufferSize))
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		for u := range parser.Units(r, l.cfg) {
			if err := pool.Submit(worker.WorkItem{Unit: u}); err != nil {
				return
			}
		}
	}()

	var results []worker.ProcessResult
	for res := range pool.Results() {
		if res.Counts {
			results = append(results, res)
		}
	}
	slices.SortFunc(results, func(a, b worker.ProcessResult) int {
		return a.Seq - b.Seq
	})

	report := parser.NewLoadReport()
	for _, res := range results {
		l.record(report, parseOutcome{game: res.Game, err: res.Err, index: res.Index}, res.Duration)
	}
	return l.finish(report, pool.NumWorkers(), start), ctx.Err()
}

// finish publishes the collection size and logs the totals.
func (l *Loader) finish(report *parser.LoadReport, workers int, start time.Time) *parser.LoadReport {
	l.stats.SetGauge(stats.MetricCollectionSize, int64(report.Games.Len()))
	l.log.Info("loaded games",
		zap.String("source", l.cfg.Parse.SourceName),
		zap.Int("games", report.Games.Len()),
		zap.Int("failed", report.Failed()),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)))
	return report
}

// parseUnit is the worker pool's process function.
func (l *Loader) parseUnit(_ context.Context, item worker.WorkItem) worker.ProcessResult {
	began := time.Now()
	game, err := parser.ParseUnit(item.Unit, l.rules, l.cfg)
	return worker.ProcessResult{
		Seq:      item.Unit.Seq,
		Index:    item.Unit.Index,
		Counts:   item.Unit.Counts && (game != nil || err != nil),
		Game:     game,
		Err:      err,
		Duration: time.Since(began),
	}
}

type parseOutcome struct {
	game  *chess.GameRecord
	err   error
	index int
}

// record adds one parsed unit to report and updates the load metrics.
func (l *Loader) record(report *parser.LoadReport, out parseOutcome, took time.Duration) {
	l.stats.ObserveHistogram(stats.MetricParseSeconds, took.Seconds())
	if out.err != nil {
		index := out.index
		var gameErr *errors.GameError
		if errors.As(out.err, &gameErr) {
			index = gameErr.Index
		}
		report.Fail(index, out.err)
		l.stats.IncCounter(stats.MetricGamesFailed, 1)
		return
	}
	report.Add(out.game)
	l.stats.IncCounter(stats.MetricGamesParsed, 1)
}
