package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/workcard/pkg/assets"
	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/fonts"
	"github.com/matzehuels/workcard/pkg/httputil"
	"github.com/matzehuels/workcard/pkg/render/effects"
	"github.com/matzehuels/workcard/pkg/render/layout"
	"github.com/matzehuels/workcard/pkg/store"
)

// Fetcher resolves an asset URL to an image. It must not fail: unavailable
// assets come back as placeholders.
type Fetcher interface {
	Fetch(ctx context.Context, url string) assets.Asset
}

// Renderer turns work records into cards.
//
// The Renderer holds only immutable configuration plus the font metric
// cache, which is internally synchronized. Multiple goroutines can safely
// share one Renderer.
type Renderer struct {
	cfg     Config
	font    *fonts.Font
	planner layout.Planner
	effects effects.Options

	fetcher Fetcher
	store   store.Store
	clock   func() time.Time
	logger  *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFetcher replaces the HTTP asset fetcher.
func WithFetcher(f Fetcher) Option {
	return func(r *Renderer) { r.fetcher = f }
}

// WithStore indexes every rendered card in s.
func WithStore(s store.Store) Option {
	return func(r *Renderer) { r.store = s }
}

// WithClock sets the clock that stamps file names and entries.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.clock = now }
}

// WithLogger sets the logger. Nil keeps log.Default().
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New validates cfg, creates the output directory and loads the font.
// Configuration problems are INVALID_CONFIG errors; an unusable font is a
// FONT_LOAD error.
func New(cfg Config, opts ...Option) (*Renderer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create output dir %s", cfg.OutputDir)
	}

	f, err := fonts.Load(cfg.FontPath)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:  cfg,
		font: f,
		planner: layout.Planner{
			Bounds:       layout.Bounds{MinWidth: cfg.MinWidth, MaxWidth: cfg.MaxWidth},
			PaddingRatio: cfg.PaddingRatio,
			Font:         f,
			CallToAction: cfg.CallToAction,
		},
		effects: effects.Options{Sharpen: !cfg.NoSharpen, Vignette: !cfg.NoVignette},
		clock:   time.Now,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fetcher == nil {
		r.fetcher = assets.NewFetcher(
			assets.WithPolicy(httputil.Policy{
				Attempts: cfg.Fetch.Attempts,
				Delay:    cfg.Fetch.InitialDelay,
				Timeout:  cfg.Fetch.Timeout,
			}),
			assets.WithMaxBytes(cfg.Fetch.MaxBytes),
			assets.WithLogger(r.logger),
		)
	}

	r.logger.Debug("renderer ready",
		"font", f.Name(),
		"output_dir", cfg.OutputDir,
		"width", []int{cfg.MinWidth, cfg.MaxWidth},
		"concurrency", cfg.Concurrency)
	return r, nil
}

// Config returns the validated configuration.
func (r *Renderer) Config() Config { return r.cfg }

// OutputDir is where cards are written.
func (r *Renderer) OutputDir() string { return r.cfg.OutputDir }
