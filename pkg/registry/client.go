package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/cache"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/observability"
)

// DefaultURL is the upstream repos.yml maintained by the PANDORA CI.
const DefaultURL = "https://raw.githubusercontent.com/pandora-auth-ros-pkg/pandora_ci/master/repos.yml"

const (
	httpTimeout  = 30 * time.Second
	maxBodyBytes = 8 << 20
)

// Client downloads the registry snapshot. It makes exactly one request per
// Fetch; failures are reported, never retried.
type Client struct {
	http   *http.Client
	url    string
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewClient creates a Client for the repos.yml served at url. Pass
// cache.NewNullCache() to disable caching. Successful downloads are cached
// for ttl.
func NewClient(url string, c cache.Cache, ttl time.Duration, logger *log.Logger) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		http:   &http.Client{Timeout: httpTimeout},
		url:    url,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// URL returns the registry location.
func (c *Client) URL() string { return c.url }

// Fetch returns the decoded snapshot. If refresh is true the cache is
// bypassed. A cached payload that no longer decodes is discarded and
// downloaded again.
func (c *Client) Fetch(ctx context.Context, refresh bool) (snap Snapshot, err error) {
	start := time.Now()
	cached := false
	defer func() {
		observability.Registry().OnFetch(ctx, c.url, cached, len(snap), time.Since(start), err)
	}()

	key := cache.RegistryKey(c.url)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if snap, err := Decode(data); err == nil {
				c.logger.Debug("registry from cache", "url", c.url)
				cached = true
				return snap, nil
			}
			_ = c.cache.Delete(ctx, key)
		} else if err != nil {
			c.logger.Debug("registry cache unavailable", "err", err)
		}
	}

	data, err := c.download(ctx)
	if err != nil {
		return nil, err
	}
	snap, err = Decode(data)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Debug("registry not cached", "err", err)
	}
	c.logger.Debug("registry downloaded", "url", c.url, "repos", len(snap))
	return snap, nil
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "invalid registry URL %s", c.url)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "fetch %s", c.url)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "fetch %s", c.url)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "read %s", c.url)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("registry not found (status %d)", code)
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
