package resource

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
)

// Batch names used as cache keys for the model sets.
const (
	BatchML  = "ml"
	BatchSVR = "svr"
	BatchCV  = "cv"
)

// CacheKey identifies one cached entry. Sex is empty for sex-neutral resources.
type CacheKey struct {
	Name string
	Sex  model.Sex
}

func (k CacheKey) String() string {
	if k.Sex == "" {
		return k.Name
	}
	return k.Name + "_" + string(k.Sex)
}

// Cache keeps resolved model sets for the lifetime of the process. An entry is
// only trusted while it was resolved for exactly the expected names; any
// mismatch triggers a full re-resolution of that entry. Entries are published
// whole, so readers never see a partially populated set.
//
// Resolution runs detached from the caller that started it. A caller whose
// context ends stops waiting and gets a canceled error; the others keep
// waiting on the shared result.
//
// Returned maps are shared between callers and must not be modified.
type Cache struct {
	resolver IService

	mu      sync.RWMutex
	entries map[CacheKey]cacheEntry
	group   singleflight.Group
}

type cacheEntry struct {
	names string
	data  map[string][]byte
}

func NewCache(resolver IService) *Cache {
	return &Cache{
		resolver: resolver,
		entries:  map[CacheKey]cacheEntry{},
	}
}

// fingerprint identifies a name list independent of its order.
func fingerprint(names []string) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), "\x00")
}

// Batch returns the complete model set for key, resolving it when the cached
// entry is absent or was resolved for different names.
func (c *Cache) Batch(ctx context.Context, key CacheKey, names []string, typ model.ResourceType) (map[string][]byte, error) {
	const op = "resource.cacheBatch"

	fp := fingerprint(names)
	if entry, ok := c.lookup(key, fp); ok {
		return entry, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String()+"|"+fp, func() (interface{}, error) {
		if entry, ok := c.lookup(key, fp); ok {
			return entry, nil
		}

		var sex *model.Sex
		if key.Sex != "" {
			s := key.Sex
			sex = &s
		}

		batch, err := c.resolver.ResolveBatch(detached, names, typ, sex)
		if err != nil {
			c.Invalidate(key)
			return nil, err
		}

		c.publish(key, fp, batch)
		return batch, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, model.WrapError(model.CodeCanceled, op, "canceled while waiting for "+key.String(), ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	lgr.Logger.Debug(
		"model batch resolved",
		slog.String("key", key.String()),
		slog.Int("models", len(names)),
		slog.Bool("shared", res.Shared),
	)
	return res.Val.(map[string][]byte), nil
}

// Resource returns a single resource, cached under (d.Name, d.Sex).
func (c *Cache) Resource(ctx context.Context, d model.ResourceDescriptor) ([]byte, error) {
	const op = "resource.cacheResource"

	key := CacheKey{Name: d.Name}
	if d.Sex != nil {
		key.Sex = *d.Sex
	}

	if entry, ok := c.lookup(key, d.Name); ok {
		return entry[d.Name], nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan("resource:"+key.String(), func() (interface{}, error) {
		if entry, ok := c.lookup(key, d.Name); ok {
			return entry[d.Name], nil
		}

		data, err := c.resolver.Resolve(detached, d)
		if err != nil {
			c.Invalidate(key)
			return nil, err
		}

		c.publish(key, d.Name, map[string][]byte{d.Name: data})
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, model.WrapError(model.CodeCanceled, op, "canceled while waiting for "+key.String(), ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Cache) lookup(key CacheKey, names string) (map[string][]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || entry.names != names {
		return nil, false
	}
	return entry.data, true
}

func (c *Cache) publish(key CacheKey, names string, data map[string][]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{names: names, data: data}
}

func (c *Cache) Invalidate(key CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of published entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
