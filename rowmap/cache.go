package rowmap

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"row-mapper/internal/diagnostic"
)

type mapperKey struct {
	t      reflect.Type
	prefix string // normalized
}

type mapperEntry struct {
	mapper *Mapper
	err    error
}

type descriptorEntry struct {
	desc  *TypeDescriptor
	diags diagnostic.Diagnostics
	err   error
}

// cache memoizes descriptors per type and mappers per (type, prefix). Failures are
// cached as well, until reset. Concurrent misses of one key share a single build.
type cache struct {
	mu          sync.RWMutex
	generation  uint64
	descriptors map[reflect.Type]descriptorEntry
	mappers     map[mapperKey]mapperEntry

	group singleflight.Group

	descriptorBuilds atomic.Int64
	mapperBuilds     atomic.Int64
}

func newCache() *cache {
	return &cache{
		descriptors: map[reflect.Type]descriptorEntry{},
		mappers:     map[mapperKey]mapperEntry{},
	}
}

func (c *cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.descriptors = map[reflect.Type]descriptorEntry{}
	c.mappers = map[mapperKey]mapperEntry{}
}

func (c *cache) lookupDescriptor(t reflect.Type) (descriptorEntry, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.descriptors[t]

	return e, c.generation, ok
}

func (c *cache) lookupMapper(key mapperKey) (mapperEntry, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.mappers[key]

	return e, c.generation, ok
}

// descriptor returns the cached descriptor of t or builds it once.
func (c *cache) descriptor(t reflect.Type, build func() descriptorEntry) descriptorEntry {
	e, gen, ok := c.lookupDescriptor(t)
	if ok {
		return e
	}

	v, _, _ := c.group.Do(fmt.Sprintf("d/%d/%p", gen, t), func() (any, error) {
		if e, _, ok := c.lookupDescriptor(t); ok {
			return e, nil
		}

		e := build()
		c.descriptorBuilds.Add(1)

		c.mu.Lock()
		if c.generation == gen {
			c.descriptors[t] = e
		}
		c.mu.Unlock()

		return e, nil
	})

	return v.(descriptorEntry)
}

// mapper returns the cached mapper for key or builds it once.
func (c *cache) mapper(key mapperKey, build func() (*Mapper, error)) (*Mapper, error) {
	e, gen, ok := c.lookupMapper(key)
	if ok {
		return e.mapper, e.err
	}

	v, _, _ := c.group.Do(fmt.Sprintf("m/%d/%p/%s", gen, key.t, key.prefix), func() (any, error) {
		if e, _, ok := c.lookupMapper(key); ok {
			return e, nil
		}

		m, err := build()
		e := mapperEntry{mapper: m, err: err}
		c.mapperBuilds.Add(1)

		c.mu.Lock()
		if c.generation == gen {
			c.mappers[key] = e
		}
		c.mu.Unlock()

		return e, nil
	})

	e = v.(mapperEntry)

	return e.mapper, e.err
}

// Stats reports the content and activity of a registry cache.
type Stats struct {
	// Descriptors and Mappers count cached entries, failures included.
	Descriptors int
	Mappers     int
	// DescriptorBuilds and MapperBuilds count builds since the registry was created.
	DescriptorBuilds int64
	MapperBuilds     int64
}

func (c *cache) stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Descriptors:      len(c.descriptors),
		Mappers:          len(c.mappers),
		DescriptorBuilds: c.descriptorBuilds.Load(),
		MapperBuilds:     c.mapperBuilds.Load(),
	}
}
