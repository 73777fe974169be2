// Package pipeline renders work records into PNG cards.
//
// This package wires the rendering stages together for the CLI and the HTTP
// service so both produce identical output for identical input.
//
// # Architecture
//
// A render runs these stages in order:
//
//  1. Validate: the record must carry an id, a title and a cover reference
//  2. Theme: the variant selector or the record's category picks a palette
//  3. Fetch: cover and avatar are downloaded concurrently; failures degrade
//     to a placeholder instead of failing the render
//  4. Layout: card width, section heights and wrapped text are fixed from
//     the cover's native size and the measured content
//  5. Effects: the cover is fitted, enhanced and overlaid
//  6. Compose: layers are drawn and the rounded mask applied
//  7. Write: the PNG is encoded to {OutputDir}/{id}_{YYYYMMDD_HHMMSS}.png
//
// # Usage
//
//	r, err := pipeline.New(pipeline.DefaultConfig(), pipeline.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	card, err := r.Render(ctx, &rec, "")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(card.Path, card.DetailURL)
//
// Render many records with bounded concurrency:
//
//	for _, out := range r.RenderBatch(ctx, recs, "anime") {
//	    if out.Err != nil {
//	        logger.Error("render failed", "id", out.RecordID, "error", out.Err)
//	    }
//	}
package pipeline

import (
	"time"

	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/record"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Service
// =============================================================================

const (
	DefaultOutputDir    = "cards"
	DefaultMinWidth     = 600
	DefaultMaxWidth     = 1500
	DefaultPaddingRatio = 0.03
	DefaultCornerRadius = 24
	DefaultConcurrency  = 4

	// MaxPaddingRatio bounds PaddingRatio from above.
	MaxPaddingRatio = 0.25

	DefaultFetchAttempts = 3
	DefaultFetchDelay    = 500 * time.Millisecond
	DefaultFetchTimeout  = 10 * time.Second
)

// =============================================================================
// Config - Renderer Configuration
// =============================================================================

// Config is the immutable configuration of a [Renderer]. The TOML tags match
// the [render] section of the CLI config file; Fetch is read from [fetch].
type Config struct {
	OutputDir    string  `toml:"output_dir" json:"output_dir"`
	FontPath     string  `toml:"font" json:"font"`
	MinWidth     int     `toml:"min_width" json:"min_width"`
	MaxWidth     int     `toml:"max_width" json:"max_width"`
	PaddingRatio float64 `toml:"padding_ratio" json:"padding_ratio"`
	CornerRadius int     `toml:"corner_radius" json:"corner_radius"`
	DetailHost   string  `toml:"detail_host" json:"detail_host"`
	Concurrency  int     `toml:"concurrency" json:"concurrency"`

	// Effect toggles. Both optional stages run unless disabled.
	NoSharpen  bool `toml:"no_sharpen" json:"no_sharpen"`
	NoVignette bool `toml:"no_vignette" json:"no_vignette"`

	// CallToAction draws a QR code of the detail link in the author bar.
	CallToAction bool `toml:"call_to_action" json:"call_to_action"`

	Fetch FetchConfig `toml:"-" json:"fetch"`
}

// FetchConfig controls asset downloads.
type FetchConfig struct {
	Attempts     int           `toml:"attempts" json:"attempts"`
	InitialDelay time.Duration `toml:"initial_delay" json:"initial_delay"`
	Timeout      time.Duration `toml:"timeout" json:"timeout"`
	MaxBytes     int64         `toml:"max_bytes" json:"max_bytes"`
}

// DefaultConfig returns a complete configuration except for FontPath.
func DefaultConfig() Config {
	c := Config{CornerRadius: DefaultCornerRadius}
	c.SetDefaults()
	return c
}

// SetDefaults fills fields whose zero value is not meaningful. CornerRadius
// is left alone because 0 is a valid radius.
func (c *Config) SetDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.MinWidth == 0 {
		c.MinWidth = DefaultMinWidth
	}
	if c.MaxWidth == 0 {
		c.MaxWidth = max(DefaultMaxWidth, c.MinWidth)
	}
	if c.PaddingRatio == 0 {
		c.PaddingRatio = DefaultPaddingRatio
	}
	if c.DetailHost == "" {
		c.DetailHost = record.DefaultHost
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Fetch.Attempts == 0 {
		c.Fetch.Attempts = DefaultFetchAttempts
	}
	if c.Fetch.InitialDelay == 0 {
		c.Fetch.InitialDelay = DefaultFetchDelay
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
}

// Validate reports every invalid field as one INVALID_CONFIG error.
func (c *Config) Validate() error {
	v := &errors.ValidationError{Code: errors.ErrCodeInvalidConfig, What: "renderer config"}
	if c.OutputDir == "" {
		v.Add("output_dir", "is required")
	}
	if c.FontPath == "" {
		v.Add("font", "is required")
	}
	if c.MinWidth <= 0 {
		v.Add("min_width", "must be positive")
	}
	if c.MaxWidth < c.MinWidth {
		v.Add("max_width", "must not be less than min_width")
	}
	if c.PaddingRatio <= 0 || c.PaddingRatio > MaxPaddingRatio {
		v.Add("padding_ratio", "must be in (0, 0.25]")
	}
	if c.CornerRadius < 0 {
		v.Add("corner_radius", "cannot be negative")
	}
	if c.Concurrency < 1 {
		v.Add("concurrency", "must be at least 1")
	}
	if c.Fetch.Attempts < 1 {
		v.Add("fetch.attempts", "must be at least 1")
	}
	if c.Fetch.InitialDelay < 0 {
		v.Add("fetch.initial_delay", "cannot be negative")
	}
	if c.Fetch.Timeout < 0 {
		v.Add("fetch.timeout", "cannot be negative")
	}
	if c.Fetch.MaxBytes < 0 {
		v.Add("fetch.max_bytes", "cannot be negative")
	}
	return v.Err()
}
