// Package xdata implements the xdata_registry external collaborator named
// in §6: process-wide mutable metadata keyed by a developer field's stable
// key, flushed wholesale on a database-change notification. The design
// notes call for turning the source's "global registry mutated on a
// database-open notification" into an explicit object owned by the
// application with an explicit reset() call in place of an implicit
// notification handler — this package is that object. Backed by
// github.com/jellydator/ttlcache/v3, grounded on the shoveler module's
// declared (if unexercised) dependency on the same library.
package xdata

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Metadata is whatever descriptive information the owning application
// attaches to a developer field's stable key (units, display name, and
// similar) — opaque to this package.
type Metadata struct {
	Units       string
	DisplayName string
}

// Registry is the per-process mapping from a developer field's stable key
// (as produced by fitcore.DeveloperFieldRegistry.Describe) to its Metadata.
// A zero-value Registry is not usable; construct one with NewRegistry.
type Registry struct {
	cache *ttlcache.Cache[string, Metadata]
}

// DefaultTTL is how long an entry survives without being refreshed, chosen
// generously since metadata changes only when the owning application's
// database schema changes, not on any regular cadence.
const DefaultTTL = 24 * time.Hour

// NewRegistry constructs an empty registry and starts its background
// eviction loop. Callers should call Close when the registry is no longer
// needed.
func NewRegistry() *Registry {
	cache := ttlcache.New[string, Metadata](
		ttlcache.WithTTL[string, Metadata](DefaultTTL),
	)
	go cache.Start()
	return &Registry{cache: cache}
}

// Put records metadata for a stable key, as an application would when a
// field-description's stable key is first resolved.
func (r *Registry) Put(key string, meta Metadata) {
	r.cache.Set(key, meta, ttlcache.DefaultTTL)
}

// Get looks up metadata for a stable key.
func (r *Registry) Get(key string) (Metadata, bool) {
	item := r.cache.Get(key)
	if item == nil {
		return Metadata{}, false
	}
	return item.Value(), true
}

// Reset flushes the entire registry, the explicit equivalent of the
// source's implicit "database-opened" notification handler (§5, §9).
func (r *Registry) Reset() {
	r.cache.DeleteAll()
}

// Close stops the background eviction loop.
func (r *Registry) Close() {
	r.cache.Stop()
}
