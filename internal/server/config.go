package server

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/layerviz/layerviz/pkg/errors"
)

// Config configures the render service.
type Config struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// CacheBackend selects the artifact cache: "file", "redis", or
	// "none".
	CacheBackend string `toml:"cache_backend"`
	// CacheDir is the FileCache directory (file backend).
	CacheDir string `toml:"cache_dir"`

	// Redis configures the redis backend.
	Redis RedisConfig `toml:"redis"`

	// Mongo enables the render archive when URI is set; without it the
	// service archives in memory.
	Mongo MongoConfig `toml:"mongo"`

	// ListLimit bounds GET /api/renders.
	ListLimit int `toml:"list_limit"`
}

// RedisConfig carries redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig carries MongoDB connection settings.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DefaultConfig returns the development defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		CacheBackend: "file",
		CacheDir:     defaultCacheDir(),
		ListLimit:    50,
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".layerviz-cache"
	}
	return dir + "/layerviz"
}

// LoadConfig reads a TOML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unusable settings.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache_backend must be file, redis, or none, got %q", c.CacheBackend)
	}
	if c.CacheBackend == "redis" && c.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis cache backend requires redis.addr")
	}
	if c.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "addr must not be empty")
	}
	return nil
}
