package config

import (
	"os"
	"path/filepath"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/cache"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

const redisPrefix = "pandoradep:"

// CacheDir returns the file cache directory.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pandoradep"), nil
}

// NewCache opens the configured cache backend.
func (c Config) NewCache() (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(c.Cache.RedisURL, redisPrefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "redis_url")
		}
		return rc, nil
	case BackendFile, "":
		dir, err := c.CacheDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "locate cache directory")
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "create cache directory")
		}
		return fc, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
}
