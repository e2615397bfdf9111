// Package config loads pandoradep settings.
//
// Settings come from four layers, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, by default $XDG_CONFIG_HOME/pandoradep/config.toml
//  3. PANDORADEP_* environment variables
//  4. Command-line flags, applied by the CLI after [Load]
//
// The configuration is read once when a command starts and passed down
// explicitly. Nothing below the CLI consults the environment.
//
// Example config.toml:
//
//	registry_url   = "https://example.org/repos.yml"
//	default_branch = "master"
//	mode           = "strict"
//	scripts_env    = "JENKINS_SCRIPTS"
//
//	[cache]
//	backend   = "redis"
//	ttl       = "1h"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/deps"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/registry"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PANDORADEP_"

// Config holds every setting a command may need.
type Config struct {
	RegistryURL   string `toml:"registry_url"`
	DefaultBranch string `toml:"default_branch"`
	Mode          string `toml:"mode"`
	ScriptsEnv    string `toml:"scripts_env"` // Variable naming the CI scripts checkout
	ReposFile     string `toml:"repos_file"`  // Snapshot path relative to the scripts checkout
	Cache         Cache  `toml:"cache"`
}

// Cache configures where downloaded registries are kept.
type Cache struct {
	Backend  string        `toml:"backend"`
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url"`
	Dir      string        `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RegistryURL:   registry.DefaultURL,
		DefaultBranch: deps.DefaultBranch,
		Mode:          deps.Strict.String(),
		ScriptsEnv:    "JENKINS_SCRIPTS",
		ReposFile:     "repos.yml",
		Cache: Cache{
			Backend: BackendFile,
			TTL:     time.Hour,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pandoradep", "config.toml")
}

// Load builds a Config from defaults, the file at path and the environment.
// An empty path means [DefaultPath]; a missing default file is not an error,
// but a missing explicit file is.
func Load(path string, env func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		} else if explicit {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
	}

	if env == nil {
		env = os.Getenv
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(env func(string) string) error {
	set := func(field *string, key string) {
		if v := env(EnvPrefix + key); v != "" {
			*field = v
		}
	}
	set(&c.RegistryURL, "REGISTRY_URL")
	set(&c.DefaultBranch, "DEFAULT_BRANCH")
	set(&c.Mode, "MODE")
	set(&c.ScriptsEnv, "SCRIPTS_ENV")
	set(&c.ReposFile, "REPOS_FILE")
	set(&c.Cache.Backend, "CACHE_BACKEND")
	set(&c.Cache.RedisURL, "REDIS_URL")
	set(&c.Cache.Dir, "CACHE_DIR")

	if v := env(EnvPrefix + "CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sCACHE_TTL", EnvPrefix)
		}
		c.Cache.TTL = ttl
	}
	return nil
}

// Validate checks that every setting has a usable value.
func (c Config) Validate() error {
	if _, err := deps.ParseMode(c.Mode); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "mode must be strict or permissive, got %q", c.Mode)
	}
	if c.DefaultBranch == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "default_branch must not be empty")
	}
	if err := errors.ValidateURL(c.RegistryURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "registry_url")
	}
	if err := errors.ValidatePath(c.ReposFile); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "repos_file")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// ResolveMode returns the parsed conflict policy.
func (c Config) ResolveMode() deps.Mode {
	m, _ := deps.ParseMode(c.Mode)
	return m
}
