// ABOUTME: Tests for the disk-backed lookup cache
// ABOUTME: Uses an injected clock to drive TTL expiry deterministically
package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func openTestCache(t *testing.T, ttl time.Duration, clock *fakeClock) *Cache {
	t.Helper()
	c, err := Open(t.TempDir(), ttl, clock.Now)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	c := openTestCache(t, time.Hour, clock)

	type profile struct {
		LoginID string `json:"login_id"`
		Site    string `json:"site"`
	}

	require.NoError(t, c.Set("profile:whoami", profile{LoginID: "maxadmin", Site: "BEDFORD"}))

	var got profile
	hit, err := c.Get("profile:whoami", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "maxadmin", got.LoginID)
	assert.Equal(t, "BEDFORD", got.Site)
}

func TestCacheMissOnAbsentKey(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := openTestCache(t, time.Hour, clock)

	var out string
	hit, err := c.Get("nope", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheExpiresByInjectedClock(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	c := openTestCache(t, 30*time.Minute, clock)

	require.NoError(t, c.Set("site", "BEDFORD"))

	var out string
	hit, err := c.Get("site", &out)
	require.NoError(t, err)
	assert.True(t, hit)

	clock.Advance(31 * time.Minute)

	hit, err = c.Get("site", &out)
	require.NoError(t, err)
	assert.False(t, hit, "entry should expire once the clock passes the TTL")

	// The expired entry is gone even if the clock rolls back.
	clock.Advance(-31 * time.Minute)
	hit, err = c.Get("site", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheDelete(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := openTestCache(t, time.Hour, clock)

	require.NoError(t, c.Set("k", 42))
	require.NoError(t, c.Delete("k"))

	var out int
	hit, err := c.Get("k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.NoError(t, c.Delete("k"))
}

func TestCacheOverwriteRefreshesTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	c := openTestCache(t, time.Hour, clock)

	require.NoError(t, c.Set("site", "BEDFORD"))
	clock.Advance(45 * time.Minute)
	require.NoError(t, c.Set("site", "NASHUA"))
	clock.Advance(45 * time.Minute)

	var out string
	hit, err := c.Get("site", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "NASHUA", out)
}
