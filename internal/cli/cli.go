package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/workcard/pkg/assets"
	"github.com/matzehuels/workcard/pkg/buildinfo"
	"github.com/matzehuels/workcard/pkg/cache"
	"github.com/matzehuels/workcard/pkg/httputil"
	"github.com/matzehuels/workcard/pkg/pipeline"
	"github.com/matzehuels/workcard/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "workcard"

	// assetKeyScope namespaces asset cache keys.
	assetKeyScope = "v1"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Workcard renders creative-work records as PNG cards",
		Long:         `Workcard turns scraped creative-work records into shareable PNG cards whose size adapts to the cover image and the text they carry.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ~/.config/workcard/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the config file named by --config, warning about keys it
// does not know.
func (c *CLI) config() (fileConfig, error) {
	cfg, unknown, err := loadConfig(c.configPath)
	if len(unknown) > 0 {
		c.Logger.Warn("ignoring unknown config keys", "keys", strings.Join(unknown, ", "))
	}
	return cfg, err
}

// =============================================================================
// Renderer Factory
// =============================================================================

// deps are the backends a renderer was built with. close releases them.
type deps struct {
	cache cache.Cache
	store store.Store
}

func (d *deps) close(ctx context.Context) {
	if d.cache != nil {
		d.cache.Close()
	}
	if d.store != nil {
		d.store.Close(ctx)
	}
}

// newRenderer builds a renderer with the cache and store named in cfg.
func (c *CLI) newRenderer(ctx context.Context, cfg fileConfig, noCache bool) (*pipeline.Renderer, *deps, error) {
	d := &deps{}
	assetCache, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, nil, err
	}
	d.cache = assetCache

	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		d.close(ctx)
		return nil, nil, err
	}
	d.store = st

	rc := cfg.Render
	rc.SetDefaults()
	fetcher := assets.NewFetcher(
		assets.WithCache(assetCache, cache.NewScopedKeyer(nil, assetKeyScope), cfg.Cache.TTL),
		assets.WithPolicy(httputil.Policy{
			Attempts: rc.Fetch.Attempts,
			Delay:    rc.Fetch.InitialDelay,
			Timeout:  rc.Fetch.Timeout,
		}),
		assets.WithMaxBytes(rc.Fetch.MaxBytes),
		assets.WithLogger(c.Logger),
	)

	opts := []pipeline.Option{pipeline.WithFetcher(fetcher), pipeline.WithLogger(c.Logger)}
	if st != nil {
		opts = append(opts, pipeline.WithStore(st))
	}
	r, err := pipeline.New(rc, opts...)
	if err != nil {
		d.close(ctx)
		return nil, nil, err
	}
	return r, d, nil
}

func newCache(ctx context.Context, cfg cacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch strings.ToLower(cfg.Backend) {
	case backendRedis:
		return cache.NewRedisCache(ctx, cfg.Redis)
	case backendNone:
		return cache.NewNullCache(), nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// newStore returns nil when no index is configured.
func newStore(ctx context.Context, cfg storeConfig) (store.Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case backendMongo:
		return store.NewMongoStore(ctx, cfg.Mongo)
	case backendMemory:
		return store.NewMemoryStore(), nil
	}
	return nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/workcard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
