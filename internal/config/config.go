// Package config provides configuration for parsing, serializing and loading
// PGN game collections.
package config

import (
	"io"
	"os"

	"go.uber.org/zap"
)

// TagOutputForm specifies which tags to output.
type TagOutputForm int

const (
	AllTags        TagOutputForm = 0
	SevenTagRoster TagOutputForm = 1
	NoTags         TagOutputForm = 2
)

// String returns the name used in configuration files.
func (f TagOutputForm) String() string {
	switch f {
	case SevenTagRoster:
		return "seven"
	case NoTags:
		return "none"
	default:
		return "all"
	}
}

// ParseTagOutputForm parses "all", "seven" or "none".
func ParseTagOutputForm(s string) (TagOutputForm, bool) {
	switch s {
	case "", "all":
		return AllTags, true
	case "seven", "str":
		return SevenTagRoster, true
	case "none":
		return NoTags, true
	}
	return AllTags, false
}

// Config holds all settings passed into the parser, serializer and loader.
// Nothing in this package is global: callers build a Config and pass it down.
type Config struct {
	Parse  ParseConfig
	Output OutputConfig
	Load   LoadConfig

	// Logger receives tokenizer and parser diagnostics.
	Logger *zap.Logger

	// OutputFile is where commands write serialized games.
	OutputFile io.Writer
}

// NewConfig creates a new Config with default values and a no-op logger.
func NewConfig() *Config {
	return &Config{
		Parse:      *NewParseConfig(),
		Output:     *NewOutputConfig(),
		Load:       *NewLoadConfig(),
		Logger:     zap.NewNop(),
		OutputFile: os.Stdout,
	}
}

// SetOutput sets the output writer.
func (c *Config) SetOutput(w io.Writer) {
	c.OutputFile = w
}

// Log returns the configured logger, never nil.
func (c *Config) Log() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Parse.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Load.Validate()
}
