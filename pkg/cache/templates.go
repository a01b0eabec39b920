// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

// Package cache keeps tokenized query templates so that repeated scans of the
// same foreign table do not lex the template again.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/timescale/promfdw/pkg/query"
)

const DefaultTemplateCacheSize = 256

// Templates is a CLOCK based approximate LRU of parsed templates. Lookups
// only take the read lock; the used bit is flipped atomically.
type Templates struct {
	// guards elements and storage
	lock     sync.RWMutex
	elements map[string]*element
	storage  []element

	// guards next and makes evictions sequential, taken before lock
	insertLock sync.Mutex
	next       int
}

type element struct {
	key   string
	value query.Template
	used  uint32
}

func NewTemplates(max int) *Templates {
	if max < 1 {
		max = 1
	}
	return &Templates{
		elements: make(map[string]*element, max),
		storage:  make([]element, 0, max),
	}
}

// Get returns the parsed template for source, parsing and caching it on a miss.
func (c *Templates) Get(source string) query.Template {
	templateQueries.Inc()
	if t, ok := c.lookup(source); ok {
		templateHits.Inc()
		return t
	}
	t := query.Parse(source)
	return c.insert(source, t)
}

func (c *Templates) lookup(key string) (query.Template, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	elem, ok := c.elements[key]
	if !ok {
		return query.Template{}, false
	}
	if atomic.LoadUint32(&elem.used) == 0 {
		atomic.StoreUint32(&elem.used, 1)
	}
	return elem.value, true
}

func (c *Templates) insert(key string, value query.Template) query.Template {
	c.insertLock.Lock()
	defer c.insertLock.Unlock()

	c.lock.Lock()
	defer c.lock.Unlock()

	if elem, ok := c.elements[key]; ok {
		return elem.value
	}

	if len(c.storage) < cap(c.storage) {
		c.storage = append(c.storage, element{key: key, value: value})
		c.elements[key] = &c.storage[len(c.storage)-1]
		templateEntries.Set(float64(len(c.storage)))
		return value
	}

	victim := c.evict()
	delete(c.elements, victim.key)
	*victim = element{key: key, value: value}
	c.elements[key] = victim
	templateEvictions.Inc()
	return value
}

// evict sweeps the ring clearing used bits until it finds an entry that was
// not touched since the last sweep. Two passes always find one.
func (c *Templates) evict() *element {
	for {
		elem := &c.storage[c.next]
		c.next = (c.next + 1) % len(c.storage)
		if atomic.SwapUint32(&elem.used, 0) == 0 {
			return elem
		}
	}
}

func (c *Templates) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.storage)
}

func (c *Templates) Cap() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return cap(c.storage)
}
