package cache

import (
	"encoding/json"
	"time"

	"github.com/tunnckoCore/ethsgw/schema"
)

// NoExpiration keeps entries for the whole process lifetime.
const NoExpiration = 100 * 365 * 24 * time.Hour

type Cache struct {
	Cache ICache
}

type ICache interface {
	Set(key string, entry []byte) error

	Get(key string) ([]byte, error)

	Len() int
}

func NewLocalCache(allKeysExpTime time.Duration) (*Cache, error) {
	cache, err := NewBigCache(allKeysExpTime)
	if err != nil {
		return nil, err
	}
	return &Cache{Cache: cache}, nil
}

// GetResponse returns the captured response stored under url.
func (c *Cache) GetResponse(url string) (*schema.CachedResponse, bool) {
	by, err := c.Cache.Get(url)
	if err != nil || len(by) == 0 {
		return nil, false
	}
	resp := &schema.CachedResponse{}
	if err = json.Unmarshal(by, resp); err != nil {
		return nil, false
	}
	return resp, true
}

func (c *Cache) SetResponse(url string, resp schema.CachedResponse) error {
	by, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.Cache.Set(url, by)
}
