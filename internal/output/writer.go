package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/stats"
)

// GameWriter is the interface for writing games to output.
// Different implementations handle different output formats (PGN, JSON).
type GameWriter interface {
	// WriteGame writes a single game to the output.
	WriteGame(game *chess.GameRecord) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close closes the writer and releases any resources.
	// For batch writers (like JSON), this also writes any pending output.
	Close() error
}

// NewWriter returns a JSON writer when cfg.Output.JSONFormat is set and a
// PGN writer otherwise.
func NewWriter(w io.Writer, cfg *config.Config, st stats.Collector) GameWriter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if cfg.Output.JSONFormat {
		return &JSONWriter{w: w, cfg: cfg, stats: stats.OrNoop(st)}
	}
	return &PGNWriter{w: w, cfg: cfg, stats: stats.OrNoop(st)}
}

// PGNWriter writes games in PGN format, separated by blank lines.
type PGNWriter struct {
	w       io.Writer
	cfg     *config.Config
	stats   stats.Collector
	written int
}

// NewPGNWriter creates a new PGN writer.
func NewPGNWriter(w io.Writer, cfg *config.Config) *PGNWriter {
	return NewWriter(w, withoutJSON(cfg), nil).(*PGNWriter)
}

// WriteGame writes a game in PGN format.
func (pw *PGNWriter) WriteGame(game *chess.GameRecord) error {
	if pw.written > 0 {
		if _, err := io.WriteString(pw.w, "\n"); err != nil {
			return err
		}
	}
	if err := WritePGN(pw.w, game, pw.cfg); err != nil {
		return err
	}
	pw.written++
	pw.stats.IncCounter(stats.MetricGamesWritten, 1)
	return nil
}

// Flush flushes the PGN writer (no-op for PGN as it writes immediately).
func (pw *PGNWriter) Flush() error {
	return nil
}

// Close closes the PGN writer.
func (pw *PGNWriter) Close() error {
	return nil
}

// JSONWriter writes games in JSON format.
// It buffers games and writes them as a JSON array on Close or Flush.
type JSONWriter struct {
	w     io.Writer
	cfg   *config.Config
	stats stats.Collector
	games []*JSONGame
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(w io.Writer, cfg *config.Config) *JSONWriter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &JSONWriter{w: w, cfg: cfg, stats: stats.Noop{}}
}

// WriteGame converts a game and buffers it for the next Flush. The game is
// converted immediately, so later edits to it are not reflected.
func (jw *JSONWriter) WriteGame(game *chess.GameRecord) error {
	jw.games = append(jw.games, GameToJSON(game, jw.cfg))
	jw.stats.IncCounter(stats.MetricGamesWritten, 1)
	return nil
}

// Flush writes all buffered games as a JSON document.
func (jw *JSONWriter) Flush() error {
	if len(jw.games) == 0 {
		return nil
	}

	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	err := enc.Encode(&JSONOutput{Games: jw.games})

	// Clear buffer after writing
	jw.games = jw.games[:0]

	return err
}

// Close flushes and closes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}

func withoutJSON(cfg *config.Config) *config.Config {
	if cfg == nil || !cfg.Output.JSONFormat {
		return cfg
	}
	c := *cfg
	c.Output.JSONFormat = false
	return &c
}
