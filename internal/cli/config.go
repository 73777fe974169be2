package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/workcard/internal/server"
	"github.com/matzehuels/workcard/pkg/cache"
	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/pipeline"
	"github.com/matzehuels/workcard/pkg/store"
)

// Backend names accepted in the [cache] and [store] sections.
const (
	backendNone   = "none"
	backendFile   = "file"
	backendRedis  = "redis"
	backendMemory = "memory"
	backendMongo  = "mongo"
)

// fileConfig is the layout of the TOML config file:
//
//	[render]
//	font = "/usr/share/fonts/truetype/noto/NotoSansSC-Regular.ttf"
//	output_dir = "cards"
//	corner_radius = 24
//
//	[fetch]
//	attempts = 3
//	initial_delay = "500ms"
//	timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	[cache.redis]
//	url = "redis://localhost:6379/0"
//	prefix = "workcard:"
//
//	[store]
//	backend = "mongo"
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//	database = "workcard"
//
//	[server]
//	addr = ":8080"
type fileConfig struct {
	Render pipeline.Config      `toml:"render"`
	Fetch  pipeline.FetchConfig `toml:"fetch"`
	Cache  cacheConfig          `toml:"cache"`
	Store  storeConfig          `toml:"store"`
	Server server.Config        `toml:"server"`
}

type cacheConfig struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	TTL     time.Duration     `toml:"ttl"`
	Redis   cache.RedisConfig `toml:"redis"`
}

type storeConfig struct {
	Backend string            `toml:"backend"`
	Mongo   store.MongoConfig `toml:"mongo"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Render: pipeline.DefaultConfig(),
		Cache:  cacheConfig{Backend: backendFile, TTL: cache.TTLAsset},
		Store:  storeConfig{Backend: backendNone},
	}
}

// configPath returns the default config file location
// (~/.config/workcard/config.toml, honoring XDG_CONFIG_HOME).
func configPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path over the defaults. An empty path reads the default
// location if a file exists there. Unknown keys are returned so the caller
// can warn about them.
func loadConfig(path string) (fileConfig, []string, error) {
	cfg := defaultFileConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil, nil
		}
		return cfg, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if md.IsDefined("fetch") {
		cfg.Render.Fetch = cfg.Fetch
	}

	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return cfg, unknown, cfg.validate()
}

func (c *fileConfig) validate() error {
	v := &errors.ValidationError{Code: errors.ErrCodeInvalidConfig, What: "config file"}
	switch strings.ToLower(c.Cache.Backend) {
	case "", backendNone, backendFile, backendRedis:
	default:
		v.Add("cache.backend", "must be none, file or redis")
	}
	switch strings.ToLower(c.Store.Backend) {
	case "", backendNone, backendMemory, backendMongo:
	default:
		v.Add("store.backend", "must be none, memory or mongo")
	}
	if c.Cache.TTL < 0 {
		v.Add("cache.ttl", "cannot be negative")
	}
	return v.Err()
}
