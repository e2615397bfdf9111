package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/cache"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/deps"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/registry"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.RegistryURL != registry.DefaultURL {
		t.Errorf("RegistryURL = %q", cfg.RegistryURL)
	}
	if cfg.DefaultBranch != "master" {
		t.Errorf("DefaultBranch = %q, want master", cfg.DefaultBranch)
	}
	if cfg.ResolveMode() != deps.Strict {
		t.Errorf("mode = %v, want strict", cfg.ResolveMode())
	}
	if cfg.ScriptsEnv != "JENKINS_SCRIPTS" || cfg.ReposFile != "repos.yml" {
		t.Errorf("persistence = %q %q", cfg.ScriptsEnv, cfg.ReposFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
registry_url   = "http://localhost:8080/repos.yml"
default_branch = "hydro-devel"
mode           = "permissive"

[cache]
backend = "none"
ttl     = "15m"
`)

	cfg, err := Load(path, envMap(nil))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RegistryURL != "http://localhost:8080/repos.yml" {
		t.Errorf("RegistryURL = %q", cfg.RegistryURL)
	}
	if cfg.DefaultBranch != "hydro-devel" {
		t.Errorf("DefaultBranch = %q", cfg.DefaultBranch)
	}
	if cfg.ResolveMode() != deps.Permissive {
		t.Errorf("mode = %v, want permissive", cfg.ResolveMode())
	}
	if cfg.Cache.Backend != BackendNone || cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.ScriptsEnv != "JENKINS_SCRIPTS" {
		t.Errorf("unset keys should keep defaults, ScriptsEnv = %q", cfg.ScriptsEnv)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `mode = "permissive"`)

	cfg, err := Load(path, envMap(map[string]string{
		"PANDORADEP_MODE":      "strict",
		"PANDORADEP_CACHE_TTL": "2h",
	}))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ResolveMode() != deps.Strict {
		t.Errorf("mode = %v, want strict", cfg.ResolveMode())
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("TTL = %v, want 2h", cfg.Cache.TTL)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		code    errors.Code
	}{
		{"bad toml", "mode = ", nil, errors.ErrCodeInvalidConfig},
		{"bad mode", `mode = "lenient"`, nil, errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"", nil, errors.ErrCodeInvalidConfig},
		{"redis without url", "[cache]\nbackend = \"redis\"", nil, errors.ErrCodeInvalidConfig},
		{"bad url", `registry_url = "ftp://example.org/repos.yml"`, nil, errors.ErrCodeInvalidConfig},
		{"repos file outside checkout", `repos_file = "../repos.yml"`, nil, errors.ErrCodeInvalidConfig},
		{"repos file absolute", `repos_file = "/etc/repos.yml"`, nil, errors.ErrCodeInvalidConfig},
		{"repos file empty", `repos_file = ""`, nil, errors.ErrCodeInvalidConfig},
		{"bad env ttl", "", map[string]string{"PANDORADEP_CACHE_TTL": "soon"}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path, envMap(tt.env))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoad_NestedReposFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `repos_file = "registry/repos.yml"`), envMap(nil))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ReposFile != "registry/repos.yml" {
		t.Errorf("ReposFile = %q", cfg.ReposFile)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), envMap(nil))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestNewCache(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = t.TempDir()

	c, err := cfg.NewCache()
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("file backend = %T", c)
	}

	cfg.Cache.Backend = BackendNone
	c, err = cfg.NewCache()
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	cfg.Cache.Backend = BackendRedis
	cfg.Cache.RedisURL = "redis://localhost:6379/0"
	c, err = cfg.NewCache()
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*cache.RedisCache); !ok {
		t.Errorf("redis backend = %T", c)
	}
}
