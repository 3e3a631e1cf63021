// Package viewcache holds rendered view payloads keyed by dashboard path
// and the per-mutation invalidation policy: every mutation kind declares
// up front which view paths it can stale, and successful writes invalidate
// exactly that set instead of flushing the whole cache.
package viewcache

import (
	"strings"
	"sync"
	"time"
)

// Mutation kinds, one per entity write path
const (
	MutationCustomer     = "customer"
	MutationRepair       = "repair"
	MutationWarranty     = "warranty"
	MutationComponent    = "component"
	MutationSupplier     = "supplier"
	MutationBrand        = "brand"
	MutationPhone        = "phone"
	MutationCategory     = "category"
	MutationCategoryItem = "category_item"
	MutationOrder        = "order"
	MutationSetting      = "setting"
)

// affectedViews maps a mutation kind to the static view paths it can stale.
// Parameterized paths (a parent category, a brand's phone list) are passed
// as extras by the handler that knows the id. Orders and supplier writes
// reach quote views indirectly: a sale moves the stock flag, a supplier
// change moves the label quotes are enriched with.
var affectedViews = map[string][]string{
	MutationCustomer:     {"/dashboard/customers"},
	MutationRepair:       {"/dashboard/repairs", "/dashboard/customers"},
	MutationWarranty:     {"/dashboard/warranties", "/dashboard/repairs"},
	MutationComponent:    {"/dashboard/components", "/quote"},
	MutationSupplier:     {"/dashboard/suppliers", "/quote"},
	MutationBrand:        {"/dashboard/brands"},
	MutationPhone:        {},
	MutationCategory:     {"/dashboard/categories"},
	MutationCategoryItem: {},
	MutationOrder:        {"/dashboard/orders", "/dashboard/components", "/quote"},
	MutationSetting:      {"/dashboard/settings", "/quote"},
}

type entry struct {
	payload  interface{}
	storedAt time.Time
}

// Cache is a path-keyed store of view payloads, safe for concurrent use
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// New creates a cache whose entries expire after ttl
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get returns the cached payload for path if present and fresh
func (c *Cache) Get(path string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok || time.Since(e.storedAt) > c.ttl {
		return nil, false
	}
	return e.payload, true
}

// Put stores a payload under path
func (c *Cache) Put(path string, payload interface{}) {
	c.mu.Lock()
	c.entries[path] = entry{payload: payload, storedAt: time.Now()}
	c.mu.Unlock()
}

// Invalidate drops the given paths and anything nested under them
func (c *Cache) Invalidate(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		delete(c.entries, p)
		for key := range c.entries {
			if strings.HasPrefix(key, p+"/") {
				delete(c.entries, key)
			}
		}
	}
}

// InvalidateMutation applies the declared affected-view set for a mutation
// kind, plus any parameterized extra paths supplied by the caller
func (c *Cache) InvalidateMutation(kind string, extra ...string) {
	c.Invalidate(append(append([]string{}, affectedViews[kind]...), extra...)...)
}

// Len reports the number of cached entries (expired ones included)
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
