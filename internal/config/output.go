package config

import (
	"fmt"

	"github.com/lgbarn/pgntree/internal/errors"
)

// DefaultLineWidth is the PGN export line limit.
const DefaultLineWidth = 80

// OutputConfig holds settings related to output formatting.
type OutputConfig struct {
	// IncludeComments controls whether comments are written
	IncludeComments bool

	// IncludeVariations controls whether variations (RAV) are written
	IncludeVariations bool

	// IncludeNAGs controls whether Numeric Annotation Glyphs are written
	IncludeNAGs bool

	// LineWidth is the maximum movetext line length; zero or less means unbounded
	LineWidth int

	// TagFormat specifies which tags to output (AllTags, SevenTagRoster, NoTags)
	TagFormat TagOutputForm

	// JSONFormat enables JSON output instead of PGN
	JSONFormat bool
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		IncludeComments:   true,
		IncludeVariations: true,
		IncludeNAGs:       true,
		LineWidth:         DefaultLineWidth,
		TagFormat:         AllTags,
	}
}

// Validate checks for inconsistent output settings.
func (c *OutputConfig) Validate() error {
	if c.TagFormat < AllTags || c.TagFormat > NoTags {
		return fmt.Errorf("%w: unknown tag format %d", errors.ErrInvalidConfig, c.TagFormat)
	}
	return nil
}
