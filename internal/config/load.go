package config

import (
	"fmt"
	"runtime"

	"github.com/lgbarn/pgntree/internal/errors"
)

// LoadConfig holds settings for bulk loading of game collections.
type LoadConfig struct {
	// Workers is the number of parser goroutines; 1 parses sequentially
	Workers int

	// BufferSize is the worker pool channel capacity
	BufferSize int
}

// NewLoadConfig creates a LoadConfig with one worker per CPU.
func NewLoadConfig() *LoadConfig {
	return &LoadConfig{
		Workers:    runtime.NumCPU(),
		BufferSize: 64,
	}
}

// Validate checks for invalid load settings.
func (c *LoadConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", errors.ErrInvalidConfig, c.Workers)
	}
	if c.BufferSize < 1 {
		return fmt.Errorf("%w: buffer size must be at least 1, got %d", errors.ErrInvalidConfig, c.BufferSize)
	}
	return nil
}
