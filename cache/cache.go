package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
	"jsonl2csv/models"
)

const runKeyPrefix = "run:"

// Cache holds recently completed run outcomes so status lookups don't hit
// badger for every poll.
type Cache struct {
	cache *cache.Cache
}

func New() *Cache {
	return &Cache{
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *Cache) Set(key string, value interface{}, expiration time.Duration) {
	c.cache.Set(key, value, expiration)
}

func (c *Cache) SetDefault(key string, value interface{}) {
	c.cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Delete(key string) {
	c.cache.Delete(key)
}

// SetRun caches a completed run record under its run id.
func (c *Cache) SetRun(record *models.RunRecord) {
	c.SetDefault(runKeyPrefix+record.RunID, record)
}

// GetRun returns a cached run record, if still present.
func (c *Cache) GetRun(runID string) (*models.RunRecord, bool) {
	v, found := c.Get(runKeyPrefix + runID)
	if !found {
		return nil, false
	}
	record, ok := v.(*models.RunRecord)
	return record, ok
}
