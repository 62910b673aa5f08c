package cache

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

const (
	megabyte        = 1024 * 1024
	visiblePlansKey = "plans::visible"
	minCacheSizeMB  = 1
	defaultCacheTTL = 30 * time.Second
)

// PlanCache holds the ordered plan list served to dashboards. Any plan write
// must call Invalidate once it has finished. A nil *PlanCache is a valid,
// always-missing cache. freecache rejects entries above 1/1024 of its size,
// so a list larger than that is simply not cached.
//
// Readers take a Generation before loading plans and hand it back to
// SetVisible; a list loaded before the latest Invalidate is dropped.
type PlanCache struct {
	cache     *freecache.Cache
	ttlSecond int

	mu  sync.Mutex
	gen uint64
}

func NewPlanCache(sizeMB int, ttl time.Duration) *PlanCache {
	if sizeMB < minCacheSizeMB {
		sizeMB = minCacheSizeMB
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	secs := int(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return &PlanCache{
		cache:     freecache.NewCache(sizeMB * megabyte),
		ttlSecond: secs,
	}
}

func (c *PlanCache) GetVisible() ([]domain.TrainingPlan, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.cache.Get([]byte(visiblePlansKey))
	if err != nil {
		return nil, false
	}
	var plans []domain.TrainingPlan
	if err := json.Unmarshal(raw, &plans); err != nil {
		log.Errorf("failed to unmarshal cached plans: %s", err)
		c.Invalidate()
		return nil, false
	}
	log.Tracef("found %d visible plans in cache", len(plans))
	return plans, true
}

// Generation identifies the cache state a reader started from.
func (c *PlanCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetVisible stores plans loaded at generation gen, unless the cache was
// invalidated since.
func (c *PlanCache) SetVisible(plans []domain.TrainingPlan, gen uint64) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(plans)
	if err != nil {
		log.Errorf("failed to marshal visible plans: %s", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		log.Tracef("dropping visible plans of generation %d, cache is at %d", gen, c.gen)
		return
	}
	if err := c.cache.Set([]byte(visiblePlansKey), raw, c.ttlSecond); err != nil {
		log.Debugf("visible plans not cached (%d bytes): %s", len(raw), err)
	}
}

func (c *PlanCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.cache.Del([]byte(visiblePlansKey))
}
