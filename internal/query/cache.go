// Package query provides a small read cache with structured keys and
// dependency tags. Handlers cache list responses under a key built from the
// resource name plus its stable parameters; mutations invalidate by tag
// instead of guessing which parameter combinations are stale.
package query

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Key identifies one cached query: a resource name plus its parameters in a
// stable encoding.
type Key struct {
	Resource string
	Params   string
}

func NewKey(resource string, params ...any) Key {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}

	return Key{
		Resource: resource,
		Params:   strings.Join(parts, ":"),
	}
}

type entry struct {
	value   any
	tags    []string
	expires time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[Key]entry
	byTag   map[string]map[Key]struct{}
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries expire after ttl even without an
// explicit invalidation.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[Key]entry),
		byTag:   make(map[string]map[Key]struct{}),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if c.now().After(e.expires) {
		c.removeLocked(key)
		return nil, false
	}

	return e.value, true
}

// Set stores a value under the key and registers it against each tag.
func (c *Cache) Set(key Key, value any, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Replace any previous entry cleanly so stale tag registrations do not
	// accumulate.
	c.removeLocked(key)

	c.entries[key] = entry{
		value:   value,
		tags:    tags,
		expires: c.now().Add(c.ttl),
	}

	for _, tag := range tags {
		keys, ok := c.byTag[tag]
		if !ok {
			keys = make(map[Key]struct{})
			c.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

// InvalidateTags drops every entry registered under any of the given tags.
func (c *Cache) InvalidateTags(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.byTag[tag] {
			c.removeLocked(key)
		}
	}
}

func (c *Cache) removeLocked(key Key) {
	e, ok := c.entries[key]
	if !ok {
		return
	}

	delete(c.entries, key)

	for _, tag := range e.tags {
		if keys, ok := c.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.byTag, tag)
			}
		}
	}
}
