// ABOUTME: Disk-backed TTL cache for profile and site-resolution lookups
// ABOUTME: Explicit cache object with an injected clock, constructed once per process and passed by reference
package cache

import (
	"time"

	"github.com/dgraph-io/badger/v3"
	gojson "github.com/goccy/go-json"
)

// Clock supplies the current time. Injected so tests can control expiry.
type Clock func() time.Time

// Cache stores JSON-encoded values with a fixed TTL in a badger store.
// Expiry is judged against the injected clock, not badger's internal one,
// so a test clock sees entries expire deterministically.
type Cache struct {
	db    *badger.DB
	ttl   time.Duration
	clock Clock
}

type envelope struct {
	ExpiresAt time.Time         `json:"expires_at"`
	Value     gojson.RawMessage `json:"value"`
}

// Open opens (creating if needed) the cache at dir. A nil clock means
// wall-clock time.
func Open(dir string, ttl time.Duration, clock Clock) (*Cache, error) {
	if clock == nil {
		clock = time.Now
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{db: db, ttl: ttl, clock: clock}, nil
}

// Set stores value under key with the cache's TTL.
func (c *Cache) Set(key string, value any) error {
	raw, err := gojson.Marshal(value)
	if err != nil {
		return err
	}
	env, err := gojson.Marshal(envelope{
		ExpiresAt: c.clock().Add(c.ttl),
		Value:     raw,
	})
	if err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), env)
	})
}

// Get loads key into out. Returns false when the key is absent or expired;
// expired entries are dropped on read.
func (c *Cache) Get(key string, out any) (bool, error) {
	var env envelope
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gojson.Unmarshal(val, &env)
		})
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if c.clock().After(env.ExpiresAt) {
		_ = c.Delete(key)
		return false, nil
	}

	if err := gojson.Unmarshal(env.Value, out); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.db.Close()
}
