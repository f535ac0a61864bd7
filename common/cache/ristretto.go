package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// GeneralCache maps keys to the last time they were seen. Entries expire after
// the TTL given at construction; every entry costs 1.
type GeneralCache struct {
	store *ristretto.Cache
	ttl   time.Duration
}

func NewGeneralCache(maxEntries int64, ttl time.Duration) (*GeneralCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &GeneralCache{store: store, ttl: ttl}, nil
}

// Put records seen for key and waits until the write is visible to readers.
func (c *GeneralCache) Put(key string, seen time.Time) {
	c.store.SetWithTTL(key, seen, 1, c.ttl)
	c.store.Wait()
}

func (c *GeneralCache) GetTime(key string) (time.Time, bool) {
	value, ok := c.store.Get(key)
	if !ok {
		return time.Time{}, false
	}
	t, ok := value.(time.Time)
	return t, ok
}

func (c *GeneralCache) Close() {
	c.store.Close()
}
