package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lgbarn/pgntree/internal/errors"
)

// EnvPrefix prefixes environment overrides, e.g. PGNTREE_OUTPUT_LINE_WIDTH.
const EnvPrefix = "PGNTREE"

// FileConfig mirrors the on-disk configuration layout.
type FileConfig struct {
	Parse struct {
		ExtractEvaluations bool `mapstructure:"extract_evaluations"`
		MaxVariationDepth  int  `mapstructure:"max_variation_depth"`
	} `mapstructure:"parse"`

	Output struct {
		IncludeComments   bool   `mapstructure:"include_comments"`
		IncludeVariations bool   `mapstructure:"include_variations"`
		IncludeNAGs       bool   `mapstructure:"include_nags"`
		LineWidth         int    `mapstructure:"line_width"`
		TagFormat         string `mapstructure:"tag_format"`
		JSON              bool   `mapstructure:"json"`
	} `mapstructure:"output"`

	Load struct {
		Workers    int `mapstructure:"workers"`
		BufferSize int `mapstructure:"buffer_size"`
	} `mapstructure:"load"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
}

// LoadFile reads a YAML, TOML or JSON configuration file, applies PGNTREE_*
// environment overrides and returns a validated Config with its logger
// built. An empty path uses defaults plus environment only.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}

	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, errors.Wrapf(err, "decoding config %s", path)
	}

	return fc.Config()
}

// Config converts the file layout into a Config.
func (fc *FileConfig) Config() (*Config, error) {
	cfg := NewConfig()

	cfg.Parse.ExtractEvaluations = fc.Parse.ExtractEvaluations
	cfg.Parse.MaxVariationDepth = fc.Parse.MaxVariationDepth

	cfg.Output.IncludeComments = fc.Output.IncludeComments
	cfg.Output.IncludeVariations = fc.Output.IncludeVariations
	cfg.Output.IncludeNAGs = fc.Output.IncludeNAGs
	cfg.Output.LineWidth = fc.Output.LineWidth
	cfg.Output.JSONFormat = fc.Output.JSON
	form, ok := ParseTagOutputForm(fc.Output.TagFormat)
	if !ok {
		return nil, fmt.Errorf("%w: unknown tag format %q", errors.ErrInvalidConfig, fc.Output.TagFormat)
	}
	cfg.Output.TagFormat = form

	cfg.Load.Workers = fc.Load.Workers
	cfg.Load.BufferSize = fc.Load.BufferSize

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(fc.Log.Level, fc.Log.Development)
	if err != nil {
		return nil, err
	}
	cfg.Logger = logger

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := NewConfig()

	v.SetDefault("parse.extract_evaluations", def.Parse.ExtractEvaluations)
	v.SetDefault("parse.max_variation_depth", def.Parse.MaxVariationDepth)

	v.SetDefault("output.include_comments", def.Output.IncludeComments)
	v.SetDefault("output.include_variations", def.Output.IncludeVariations)
	v.SetDefault("output.include_nags", def.Output.IncludeNAGs)
	v.SetDefault("output.line_width", def.Output.LineWidth)
	v.SetDefault("output.tag_format", def.Output.TagFormat.String())
	v.SetDefault("output.json", def.Output.JSONFormat)

	v.SetDefault("load.workers", def.Load.Workers)
	v.SetDefault("load.buffer_size", def.Load.BufferSize)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
}
