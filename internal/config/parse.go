package config

import (
	"fmt"

	"github.com/lgbarn/pgntree/internal/errors"
)

// ParseConfig holds settings for the tokenizer and tree builder.
type ParseConfig struct {
	// ExtractEvaluations derives Annotation.Eval from each node's comment
	ExtractEvaluations bool

	// MaxVariationDepth bounds variation nesting; zero means unlimited
	MaxVariationDepth int

	// SourceName labels errors with the input file name
	SourceName string
}

// NewParseConfig creates a ParseConfig with default values.
func NewParseConfig() *ParseConfig {
	return &ParseConfig{
		ExtractEvaluations: true,
	}
}

// Validate checks for invalid parse settings.
func (c *ParseConfig) Validate() error {
	if c.MaxVariationDepth < 0 {
		return fmt.Errorf("%w: negative max variation depth %d", errors.ErrInvalidConfig, c.MaxVariationDepth)
	}
	return nil
}
