// Package shard provides a string-keyed map split into independently locked
// shards. Operations on keys that land in different shards never contend.
package shard

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const DefaultShards = 32

type bucket[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

// Map is safe for concurrent use. The zero value is not usable; call New.
type Map[V any] struct {
	buckets []*bucket[V]
	mask    uint64
}

// New creates a map with n shards, rounded up to a power of two.
// n <= 0 selects DefaultShards.
func New[V any](n int) *Map[V] {
	if n <= 0 {
		n = DefaultShards
	}

	size := 1
	for size < n {
		size <<= 1
	}

	m := &Map[V]{
		buckets: make([]*bucket[V], size),
		mask:    uint64(size - 1),
	}
	for i := range m.buckets {
		m.buckets[i] = &bucket[V]{m: make(map[string]V)}
	}
	return m
}

func (m *Map[V]) bucketFor(key string) *bucket[V] {
	return m.buckets[xxhash.Sum64String(key)&m.mask]
}

// Shards returns the number of shards.
func (m *Map[V]) Shards() int { return len(m.buckets) }

func (m *Map[V]) Get(key string) (V, bool) {
	b := m.bucketFor(key)
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.m[key]
	return v, ok
}

// Compute runs fn with the current value for key while holding the key's
// shard write lock. If fn returns store=true the returned value replaces the
// entry. The read-modify-write is atomic with respect to every other
// operation on the same key.
func (m *Map[V]) Compute(key string, fn func(cur V, exists bool) (next V, store bool)) (V, bool) {
	b := m.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, exists := b.m[key]
	next, store := fn(cur, exists)
	if store {
		b.m[key] = next
	}
	return next, store
}

// Range calls fn for each entry until fn returns false. Each shard is copied
// under its read lock and fn runs after the lock is released, so fn may block
// without stalling writers. Entries stored during a Range may or may not be
// visited.
func (m *Map[V]) Range(fn func(key string, v V) bool) {
	type entry struct {
		key string
		v   V
	}

	var buf []entry
	for _, b := range m.buckets {
		b.mu.RLock()
		buf = buf[:0]
		for k, v := range b.m {
			buf = append(buf, entry{key: k, v: v})
		}
		b.mu.RUnlock()

		for _, e := range buf {
			if !fn(e.key, e.v) {
				return
			}
		}
	}
}

func (m *Map[V]) Len() int {
	n := 0
	for _, b := range m.buckets {
		b.mu.RLock()
		n += len(b.m)
		b.mu.RUnlock()
	}
	return n
}
