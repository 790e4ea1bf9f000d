package memory

import (
	"time"

	"booton-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// DirectoryCache keeps recently listed coach pages hot. TTL is short on
// purpose: directory staleness is visible to users browsing coaches.
type DirectoryCache struct {
	cache *cache.Cache
}

func NewDirectoryCache() *DirectoryCache {
	c := cache.New(30*time.Second, 5*time.Minute)
	return &DirectoryCache{
		cache: c,
	}
}

func (r *DirectoryCache) Save(key string, coaches []*entity.Coach) {
	r.cache.Set(key, coaches, cache.DefaultExpiration)
}

func (r *DirectoryCache) Get(key string) ([]*entity.Coach, bool) {
	if x, found := r.cache.Get(key); found {
		return x.([]*entity.Coach), true
	}
	return nil, false
}

func (r *DirectoryCache) Invalidate() {
	r.cache.Flush()
}
