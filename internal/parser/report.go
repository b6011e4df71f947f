package parser

import (
	"fmt"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/errors"
)

// GameFailure records one game unit that could not be parsed.
type GameFailure struct {
	Index int // 0-based position among all game units of the load
	Err   error
}

// LoadReport is the outcome of loading a PGN source: the games that parsed
// and the failures of those that did not.
type LoadReport struct {
	Games  *chess.Collection
	Errors []GameFailure

	// Total counts every game unit, failed ones included.
	Total int
}

// NewLoadReport creates an empty report.
func NewLoadReport() *LoadReport {
	return &LoadReport{Games: chess.NewCollection(0)}
}

// Add appends a parsed game.
func (r *LoadReport) Add(game *chess.GameRecord) {
	r.Games.Append(game)
	r.Total++
}

// Fail records a failed game unit.
func (r *LoadReport) Fail(index int, err error) {
	r.Errors = append(r.Errors, GameFailure{Index: index, Err: err})
	r.Total++
}

// Failed returns the number of failed game units.
func (r *LoadReport) Failed() int {
	return len(r.Errors)
}

// OK reports whether every game parsed.
func (r *LoadReport) OK() bool {
	return len(r.Errors) == 0
}

// Err joins every failure into one error, or returns nil.
func (r *LoadReport) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, f := range r.Errors {
		errs[i] = f.Err
	}
	return errors.Join(errs...)
}

// Summary renders the report for a user, e.g. "3 of 40 games failed to parse".
func (r *LoadReport) Summary() string {
	if r.OK() {
		if r.Total == 1 {
			return "1 game parsed"
		}
		return fmt.Sprintf("%d games parsed", r.Total)
	}
	return fmt.Sprintf("%d of %d games failed to parse", len(r.Errors), r.Total)
}
