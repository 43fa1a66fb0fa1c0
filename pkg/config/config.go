// Package config loads multiformat settings from defaults, an optional YAML
// file and MULTIFORMAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. MULTIFORMAT_ENGINE_GRID_UNIT.
const EnvPrefix = "MULTIFORMAT"

// Config is the full application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// EngineConfig tunes the responsive layout engine.
type EngineConfig struct {
	// GridUnit is the pixel grid every computed position and size snaps to.
	GridUnit float64 `mapstructure:"grid_unit" yaml:"grid_unit"`
	// TextMinFontSize floors text scaled between sizes of the same orientation.
	TextMinFontSize float64 `mapstructure:"text_min_font_size" yaml:"text_min_font_size"`
	// ImageAspectTolerance is the relative aspect drift allowed before an
	// image-like element has its height re-derived from its width.
	ImageAspectTolerance float64 `mapstructure:"image_aspect_tolerance" yaml:"image_aspect_tolerance"`
	// OverflowAllowance is how far a free element may hang off its canvas.
	OverflowAllowance float64           `mapstructure:"overflow_allowance" yaml:"overflow_allowance"`
	Constraints       ConstraintConfig  `mapstructure:"constraints" yaml:"constraints"`
	Orientation       OrientationConfig `mapstructure:"orientation" yaml:"orientation"`
}

// ConstraintConfig holds the thresholds of the constraint heuristic.
type ConstraintConfig struct {
	EdgeSnapPx        float64 `mapstructure:"edge_snap_px" yaml:"edge_snap_px"`
	FarEdgePercent    float64 `mapstructure:"far_edge_percent" yaml:"far_edge_percent"`
	CenterBandPercent float64 `mapstructure:"center_band_percent" yaml:"center_band_percent"`
	ScaleSpanPercent  float64 `mapstructure:"scale_span_percent" yaml:"scale_span_percent"`
}

// OrientationConfig tunes the portrait<->landscape remapping.
type OrientationConfig struct {
	// DominanceThreshold is the cross-axis share (percent) above which an
	// element is considered dominant in its source size.
	DominanceThreshold float64 `mapstructure:"dominance_threshold" yaml:"dominance_threshold"`
	// DominanceCap is the share (percent) of the target axis a dominant
	// element is reduced to.
	DominanceCap float64 `mapstructure:"dominance_cap" yaml:"dominance_cap"`
	// VerticalToHorizontalCeiling caps height as a fraction of target height.
	VerticalToHorizontalCeiling float64 `mapstructure:"vertical_to_horizontal_ceiling" yaml:"vertical_to_horizontal_ceiling"`
	// HorizontalToVerticalCeiling caps width as a fraction of target width.
	HorizontalToVerticalCeiling float64 `mapstructure:"horizontal_to_vertical_ceiling" yaml:"horizontal_to_vertical_ceiling"`
	// VerticalToHorizontalFont and HorizontalToVerticalFont bound text
	// rescaled in each direction.
	VerticalToHorizontalFont FontBand `mapstructure:"vertical_to_horizontal_font" yaml:"vertical_to_horizontal_font"`
	HorizontalToVerticalFont FontBand `mapstructure:"horizontal_to_vertical_font" yaml:"horizontal_to_vertical_font"`
}

// FontBand is the font size range, in pixels, text may land in.
type FontBand struct {
	Floor   float64 `mapstructure:"floor" yaml:"floor"`
	Ceiling float64 `mapstructure:"ceiling" yaml:"ceiling"`
}

// Clamp bounds size to the band. The floor wins when the band is empty.
func (b FontBand) Clamp(size float64) float64 {
	if b.Ceiling > 0 && size > b.Ceiling {
		size = b.Ceiling
	}
	if size < b.Floor {
		size = b.Floor
	}
	return size
}

// RenderConfig configures preview output.
type RenderConfig struct {
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	SheetGap    int    `mapstructure:"sheet_gap" yaml:"sheet_gap"`
	SheetHeight int    `mapstructure:"sheet_height" yaml:"sheet_height"`
	Background  string `mapstructure:"background" yaml:"background"`
}

// SetDefaults initializes default values for every configuration parameter.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "multiformat")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", false)

	// -- Engine --
	v.SetDefault("engine.grid_unit", 1.0)
	v.SetDefault("engine.text_min_font_size", 10.0)
	v.SetDefault("engine.image_aspect_tolerance", 0.01)
	v.SetDefault("engine.overflow_allowance", 50.0)
	v.SetDefault("engine.constraints.edge_snap_px", 20.0)
	v.SetDefault("engine.constraints.far_edge_percent", 85.0)
	v.SetDefault("engine.constraints.center_band_percent", 30.0)
	v.SetDefault("engine.constraints.scale_span_percent", 80.0)
	v.SetDefault("engine.orientation.dominance_threshold", 70.0)
	v.SetDefault("engine.orientation.dominance_cap", 40.0)
	v.SetDefault("engine.orientation.vertical_to_horizontal_ceiling", 0.8)
	v.SetDefault("engine.orientation.horizontal_to_vertical_ceiling", 0.9)
	v.SetDefault("engine.orientation.vertical_to_horizontal_font.floor", 12.0)
	v.SetDefault("engine.orientation.vertical_to_horizontal_font.ceiling", 24.0)
	v.SetDefault("engine.orientation.horizontal_to_vertical_font.floor", 12.0)
	v.SetDefault("engine.orientation.horizontal_to_vertical_font.ceiling", 24.0)

	// -- Render --
	v.SetDefault("render.output_dir", "previews")
	v.SetDefault("render.sheet_gap", 40)
	v.SetDefault("render.sheet_height", 600)
	v.SetDefault("render.background", "#ffffff")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// DefaultEngineConfig is a shortcut for library callers that do not load files.
func DefaultEngineConfig() EngineConfig {
	return NewDefaultConfig().Engine
}

// NewViper returns a viper instance with defaults and environment overrides
// wired up. When path is empty, ./multiformat.yaml is read if it exists.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("multiformat")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// Load reads and validates the configuration.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Render.SheetHeight <= 0 {
		return fmt.Errorf("render.sheet_height must be a positive integer")
	}
	if c.Render.SheetGap < 0 {
		return fmt.Errorf("render.sheet_gap must not be negative")
	}
	return nil
}

// Validate checks the engine thresholds.
func (e EngineConfig) Validate() error {
	if e.GridUnit <= 0 {
		return fmt.Errorf("engine.grid_unit must be positive")
	}
	if e.TextMinFontSize < 0 {
		return fmt.Errorf("engine.text_min_font_size must not be negative")
	}
	if e.ImageAspectTolerance < 0 {
		return fmt.Errorf("engine.image_aspect_tolerance must not be negative")
	}
	if e.OverflowAllowance < 0 {
		return fmt.Errorf("engine.overflow_allowance must not be negative")
	}
	for name, pct := range map[string]float64{
		"engine.constraints.far_edge_percent":    e.Constraints.FarEdgePercent,
		"engine.constraints.center_band_percent": e.Constraints.CenterBandPercent,
		"engine.constraints.scale_span_percent":  e.Constraints.ScaleSpanPercent,
		"engine.orientation.dominance_threshold": e.Orientation.DominanceThreshold,
		"engine.orientation.dominance_cap":       e.Orientation.DominanceCap,
	} {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%s must be within 0-100, got %v", name, pct)
		}
	}
	for name, frac := range map[string]float64{
		"engine.orientation.vertical_to_horizontal_ceiling": e.Orientation.VerticalToHorizontalCeiling,
		"engine.orientation.horizontal_to_vertical_ceiling": e.Orientation.HorizontalToVerticalCeiling,
	} {
		if frac <= 0 || frac > 1 {
			return fmt.Errorf("%s must be within (0, 1], got %v", name, frac)
		}
	}
	for name, band := range map[string]FontBand{
		"engine.orientation.vertical_to_horizontal_font": e.Orientation.VerticalToHorizontalFont,
		"engine.orientation.horizontal_to_vertical_font": e.Orientation.HorizontalToVerticalFont,
	} {
		if band.Floor < 0 || band.Ceiling < band.Floor {
			return fmt.Errorf("%s must satisfy 0 <= floor <= ceiling, got %v-%v", name, band.Floor, band.Ceiling)
		}
	}
	return nil
}
