package geocode

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
	"github.com/matst80/location-listing/pkg/types"
)

const cachePrefix = "geocode:"

type localEntry struct {
	expires time.Time
	place   types.Place
}

// Cached remembers resolved places in redis and in a local memo. Failed
// lookups are not cached. A nil client keeps the cache in memory only.
type Cached struct {
	next   Service
	client redis.Cmdable
	ttl    time.Duration
	mu     sync.Mutex
	local  map[string]localEntry
	now    func() time.Time
}

func NewCached(next Service, client redis.Cmdable, ttl time.Duration) *Cached {
	return &Cached{
		next:   next,
		client: client,
		ttl:    ttl,
		local:  make(map[string]localEntry),
		now:    time.Now,
	}
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func cacheKey(address string) string {
	return cachePrefix + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (c *Cached) Resolve(ctx context.Context, address string) (types.Place, error) {
	key := cacheKey(address)
	if place, ok := c.get(ctx, key); ok {
		cacheHits.Inc()
		return place, nil
	}
	place, err := c.next.Resolve(ctx, address)
	if err != nil {
		return place, err
	}
	c.set(ctx, key, place)
	return place, nil
}

func (c *Cached) get(ctx context.Context, key string) (types.Place, bool) {
	c.mu.Lock()
	entry, found := c.local[key]
	if found && c.now().After(entry.expires) {
		delete(c.local, key)
		found = false
	}
	c.mu.Unlock()
	if found {
		return entry.place, true
	}
	if c.client == nil {
		return types.Place{}, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("geocode cache get %s: %v", key, err)
		}
		return types.Place{}, false
	}
	var place types.Place
	if err := jsoncompat.Unmarshal(data, &place); err != nil {
		return types.Place{}, false
	}
	c.remember(key, place)
	return place, true
}

func (c *Cached) set(ctx context.Context, key string, place types.Place) {
	c.remember(key, place)
	if c.client == nil {
		return
	}
	data, err := jsoncompat.Marshal(place)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("geocode cache set %s: %v", key, err)
	}
}

func (c *Cached) remember(key string, place types.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local[key] = localEntry{expires: c.now().Add(c.ttl), place: place}
}
