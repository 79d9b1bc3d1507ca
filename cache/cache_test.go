package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/nexus/entity"
)

// setupTestCache creates a miniredis instance and returns a connected Cache.
func setupTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := New(Options{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		TTL:            ttl,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		mr.Close()
	})

	return c, mr
}

func TestNew(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		c, err := New(Options{URL: fmt.Sprintf("redis://%s", mr.Addr())})
		require.NoError(t, err)
		require.NotNil(t, c)
		defer c.Close()
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := New(Options{
			URL:            "redis://localhost:1",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := New(Options{URL: "invalid://url"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Redis URL")
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "nexus:cache:fetch_all", Key("fetch_all"))
	assert.Equal(t, "nexus:cache:fetch_all:p1:p2", Key("fetch_all", "p1", "p2"))
}

func TestPutGetRoundTrip(t *testing.T) {
	c, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	records := []entity.Record{
		{"id": "a", "name": "Emotet", "platformId": "octi-prod"},
		{"id": "b", "name": "Blue Team", "platformId": "oaev-lab"},
	}

	key := Key("fetch_all", "octi-prod", "oaev-lab")
	require.NoError(t, c.PutRecords(ctx, key, records))

	got, hit, err := c.GetRecords(ctx, key)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, 2)
	assert.Equal(t, "a", entity.ID(got[0]))
	assert.Equal(t, "oaev-lab", got[1].PlatformID())
}

func TestGetMiss(t *testing.T) {
	c, _ := setupTestCache(t, time.Minute)

	_, hit, err := c.GetRecords(context.Background(), Key("fetch_all", "nope"))
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestEntryExpires(t *testing.T) {
	c, mr := setupTestCache(t, 10*time.Second)
	ctx := context.Background()

	key := Key("fetch_all", "p1")
	require.NoError(t, c.PutRecords(ctx, key, []entity.Record{{"id": "a"}}))

	mr.FastForward(11 * time.Second)

	_, hit, err := c.GetRecords(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit, "entry must expire after the TTL")
}

func TestInvalidate(t *testing.T) {
	c, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	key := Key("fetch_all", "p1")
	require.NoError(t, c.PutRecords(ctx, key, []entity.Record{{"id": "a"}}))
	require.NoError(t, c.Invalidate(ctx, key))

	_, hit, err := c.GetRecords(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	// Invalidating nothing or missing keys is not an error.
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Invalidate(ctx, "nexus:cache:ghost"))
}
