package config

import (
	"io"

	"go.uber.org/zap"
)

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithLineWidth sets the maximum movetext line length.
func (b *ConfigBuilder) WithLineWidth(width int) *ConfigBuilder {
	b.cfg.Output.LineWidth = width
	return b
}

// WithTagFormat selects which tags are written.
func (b *ConfigBuilder) WithTagFormat(form TagOutputForm) *ConfigBuilder {
	b.cfg.Output.TagFormat = form
	return b
}

// WithJSONOutput enables JSON output.
func (b *ConfigBuilder) WithJSONOutput(enabled bool) *ConfigBuilder {
	b.cfg.Output.JSONFormat = enabled
	return b
}

// IncludeComments controls whether comments are written.
func (b *ConfigBuilder) IncludeComments(include bool) *ConfigBuilder {
	b.cfg.Output.IncludeComments = include
	return b
}

// IncludeVariations controls whether variations are written.
func (b *ConfigBuilder) IncludeVariations(include bool) *ConfigBuilder {
	b.cfg.Output.IncludeVariations = include
	return b
}

// IncludeNAGs controls whether NAGs are written.
func (b *ConfigBuilder) IncludeNAGs(include bool) *ConfigBuilder {
	b.cfg.Output.IncludeNAGs = include
	return b
}

// WithMaxVariationDepth bounds variation nesting while parsing.
func (b *ConfigBuilder) WithMaxVariationDepth(depth int) *ConfigBuilder {
	b.cfg.Parse.MaxVariationDepth = depth
	return b
}

// WithEvaluations controls evaluation extraction from comments.
func (b *ConfigBuilder) WithEvaluations(enabled bool) *ConfigBuilder {
	b.cfg.Parse.ExtractEvaluations = enabled
	return b
}

// WithSourceName labels parse errors with a file name.
func (b *ConfigBuilder) WithSourceName(name string) *ConfigBuilder {
	b.cfg.Parse.SourceName = name
	return b
}

// WithWorkers sets the number of parser goroutines.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Load.Workers = n
	return b
}

// WithBufferSize sets the worker pool channel capacity.
func (b *ConfigBuilder) WithBufferSize(n int) *ConfigBuilder {
	b.cfg.Load.BufferSize = n
	return b
}

// WithLogger sets the diagnostics logger.
func (b *ConfigBuilder) WithLogger(logger *zap.Logger) *ConfigBuilder {
	b.cfg.Logger = logger
	return b
}

// WithOutput sets the output writer.
func (b *ConfigBuilder) WithOutput(w io.Writer) *ConfigBuilder {
	b.cfg.OutputFile = w
	return b
}
