package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nDmitry/iainsufeed/internal/app"
	"github.com/nDmitry/iainsufeed/internal/cache"
)

const cacheKeyPrefix = "iainsufeed:page:"

// Source is anything that returns the markup of a URL.
type Source interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// CachedSource keeps successfully fetched markup in a cache. Cache failures
// are logged and never fail the fetch.
type CachedSource struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	valid  func(body string) bool
	logger *slog.Logger
}

func Cached(source Source, c cache.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: app.Logger(),
	}
}

// WithValidator only caches, and only serves from cache, markup accepted by
// valid. Interstitial or soft-blocked pages are refetched on the next run.
func (s *CachedSource) WithValidator(valid func(body string) bool) *CachedSource {
	s.valid = valid
	return s
}

func (s *CachedSource) accepts(body string) bool {
	return s.valid == nil || s.valid(body)
}

func (s *CachedSource) Fetch(ctx context.Context, url string) (string, error) {
	key := cacheKeyPrefix + url

	cached, err := s.cache.Get(ctx, key)

	switch {
	case err == nil && s.accepts(string(cached)):
		s.logger.Debug("Page cache hit", "url", url)
		return string(cached), nil
	case err == nil:
		s.logger.Debug("Ignoring cached page that failed validation", "url", url)
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.Error("Cache error", "url", url, "error", err)
	}

	body, err := s.source.Fetch(ctx, url)

	if err != nil {
		return "", err
	}

	if !s.accepts(body) {
		s.logger.Debug("Not caching page that failed validation", "url", url)
		return body, nil
	}

	if err := s.cache.Set(ctx, key, []byte(body), s.ttl); err != nil {
		s.logger.Error("Failed to cache page", "url", url, "error", err)
	}

	return body, nil
}
