package fetcher_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nDmitry/iainsufeed/internal/cache"
	"github.com/nDmitry/iainsufeed/internal/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCache is a mock implementation of the Cache interface
type MockCache struct {
	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	return m.GetFunc(ctx, key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.SetFunc(ctx, key, value, ttl)
}

func (m *MockCache) Close() error {
	return nil
}

// MockSource is a mock implementation of the Source interface
type MockSource struct {
	FetchFunc func(ctx context.Context, url string) (string, error)
}

func (m *MockSource) Fetch(ctx context.Context, url string) (string, error) {
	return m.FetchFunc(ctx, url)
}

func TestCachedSource_Fetch(t *testing.T) {
	const url = "https://iainsurakarta.ac.id/artikel/1"

	t.Run("Cache miss fetches and stores", func(t *testing.T) {
		var storedKey string
		var storedTTL time.Duration

		c := &MockCache{
			GetFunc: func(_ context.Context, _ string) ([]byte, error) {
				return nil, cache.ErrCacheMiss
			},
			SetFunc: func(_ context.Context, key string, value []byte, ttl time.Duration) error {
				storedKey = key
				storedTTL = ttl
				assert.Equal(t, "<html>fresh</html>", string(value))
				return nil
			},
		}
		source := &MockSource{FetchFunc: func(_ context.Context, _ string) (string, error) {
			return "<html>fresh</html>", nil
		}}

		body, err := fetcher.Cached(source, c, time.Hour).Fetch(context.Background(), url)

		require.NoError(t, err)
		assert.Equal(t, "<html>fresh</html>", body)
		assert.Equal(t, "iainsufeed:page:"+url, storedKey)
		assert.Equal(t, time.Hour, storedTTL)
	})

	t.Run("Cache hit skips the source", func(t *testing.T) {
		c := &MockCache{
			GetFunc: func(_ context.Context, _ string) ([]byte, error) {
				return []byte("<html>cached</html>"), nil
			},
		}
		source := &MockSource{FetchFunc: func(_ context.Context, _ string) (string, error) {
			t.Fatal("source must not be called")
			return "", nil
		}}

		body, err := fetcher.Cached(source, c, time.Hour).Fetch(context.Background(), url)

		require.NoError(t, err)
		assert.Equal(t, "<html>cached</html>", body)
	})

	t.Run("Cache errors do not fail the fetch", func(t *testing.T) {
		c := &MockCache{
			GetFunc: func(_ context.Context, _ string) ([]byte, error) {
				return nil, errors.New("connection refused")
			},
			SetFunc: func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
				return errors.New("connection refused")
			},
		}
		source := &MockSource{FetchFunc: func(_ context.Context, _ string) (string, error) {
			return "<html>fresh</html>", nil
		}}

		body, err := fetcher.Cached(source, c, time.Hour).Fetch(context.Background(), url)

		require.NoError(t, err)
		assert.Equal(t, "<html>fresh</html>", body)
	})

	t.Run("Source failures are not cached", func(t *testing.T) {
		c := &MockCache{
			GetFunc: func(_ context.Context, _ string) ([]byte, error) {
				return nil, cache.ErrCacheMiss
			},
			SetFunc: func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
				t.Fatal("failures must not be cached")
				return nil
			},
		}
		source := &MockSource{FetchFunc: func(_ context.Context, _ string) (string, error) {
			return "", fetcher.ErrUnavailable
		}}

		_, err := fetcher.Cached(source, c, time.Hour).Fetch(context.Background(), url)

		assert.ErrorIs(t, err, fetcher.ErrUnavailable)
	})

	hasArticle := func(body string) bool {
		return strings.Contains(body, "<article")
	}

	t.Run("Pages failing validation are not cached", func(t *testing.T) {
		c := &MockCache{
			GetFunc: func(_ context.Context, _ string) ([]byte, error) {
				return nil, cache.ErrCacheMiss
			},
			SetFunc: func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
				t.Fatal("interstitial pages must not be cached")
				return nil
			},
		}
		source := &MockSource{FetchFunc: func(_ context.Context, _ string) (string, error) {
			return "<html>Checking your browser</html>", nil
		}}

		body, err := fetcher.Cached(source, c, time.Hour).WithValidator(hasArticle).Fetch(context.Background(), url)

		require.NoError(t, err)
		assert.Equal(t, "<html>Checking your browser</html>", body)
	})

	t.Run("Cached pages failing validation are refetched", func(t *testing.T) {
		var stored string

		c := &MockCache{
			GetFunc: func(_ context.Context, _ string) ([]byte, error) {
				return []byte("<html>Checking your browser</html>"), nil
			},
			SetFunc: func(_ context.Context, _ string, value []byte, _ time.Duration) error {
				stored = string(value)
				return nil
			},
		}
		source := &MockSource{FetchFunc: func(_ context.Context, _ string) (string, error) {
			return "<html><article>Jahe</article></html>", nil
		}}

		body, err := fetcher.Cached(source, c, time.Hour).WithValidator(hasArticle).Fetch(context.Background(), url)

		require.NoError(t, err)
		assert.Equal(t, "<html><article>Jahe</article></html>", body)
		assert.Equal(t, body, stored)
	})
}
