// Package cache memoizes synthesized types per contract and mode.
//
// Entries are never evicted. Concurrent first requests for the same key share
// one assembly; failed assemblies are not stored.
package cache

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/proxyme/proxyme/internal/synth"
)

// Key identifies one synthesized type
type Key struct {
	// Identity is a comparable contract identity, see descriptor.ContractDescriptor
	Identity any
	Mode     synth.Mode
}

// Entry is one cached type
type Entry struct {
	Key  Key
	Type *synth.Type
}

// Stats counts cache activity
type Stats struct {
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Assemblies uint64 `json:"assemblies"`
}

// AssembleFunc builds the type for a missing key
type AssembleFunc func() (*synth.Type, error)

// Cache maps (contract, mode) keys to synthesized types
type Cache struct {
	entries sync.Map // Key -> *synth.Type
	tokens  sync.Map // identity -> flight token
	group   singleflight.Group
	logger  *zap.Logger

	hits       atomic.Uint64
	misses     atomic.Uint64
	assemblies atomic.Uint64
}

// Option configures a Cache
type Option func(*Cache)

// WithLogger sets the logger used for cache misses
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty cache
func New(opts ...Option) *Cache {
	c := &Cache{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCreate returns the type cached under key, assembling it on first use.
// At most one assembly runs per key for the lifetime of the cache.
func (c *Cache) GetOrCreate(key Key, assemble AssembleFunc) (*synth.Type, error) {
	if t, ok := c.Lookup(key); ok {
		c.hits.Add(1)
		return t, nil
	}
	c.misses.Add(1)

	v, err, shared := c.group.Do(c.flightKey(key), func() (any, error) {
		// Another flight may have finished between the lookup and Do
		if t, ok := c.Lookup(key); ok {
			return t, nil
		}

		t, err := assemble()
		if err != nil {
			return nil, err
		}
		c.assemblies.Add(1)
		c.entries.Store(key, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	t := v.(*synth.Type)
	c.logger.Debug("synthesis cache miss",
		zap.String("type", t.Name()),
		zap.Stringer("mode", key.Mode),
		zap.Bool("shared", shared),
	)
	return t, nil
}

// Lookup returns the cached type for key without assembling
func (c *Cache) Lookup(key Key) (*synth.Type, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*synth.Type), true
}

// Len returns the number of cached types
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Entries returns a snapshot of the cache ordered by type name
func (c *Cache) Entries() []Entry {
	var entries []Entry
	c.entries.Range(func(k, v any) bool {
		entries = append(entries, Entry{Key: k.(Key), Type: v.(*synth.Type)})
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Type.Name() < entries[j].Type.Name()
	})
	return entries
}

// Stats returns the activity counters
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Assemblies: c.assemblies.Load(),
	}
}

// flightKey maps a key to the string singleflight needs.
// Identities get a random token so distinct contracts never share a flight.
func (c *Cache) flightKey(key Key) string {
	token, ok := c.tokens.Load(key.Identity)
	if !ok {
		token, _ = c.tokens.LoadOrStore(key.Identity, uuid.NewString())
	}
	return token.(string) + "/" + key.Mode.String()
}
