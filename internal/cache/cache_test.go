package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/nDmitry/iainsufeed/internal/cache"
	"github.com/stretchr/testify/assert"
)

func TestNop(t *testing.T) {
	var c cache.Cache = cache.Nop{}
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))

	val, err := c.Get(ctx, "key")

	assert.Nil(t, val)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	assert.NoError(t, c.Close())
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Nothing listens on the discard port.
	_, err := cache.NewRedisClient(ctx, "127.0.0.1:9")

	assert.Error(t, err)
}
