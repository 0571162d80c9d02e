package safe

import (
	"sync"
)

// Map is a mutex guarded generic map keyed by string. The zero value is
// empty and ready to use.
type Map[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewMap returns a Map seeded with the given entries - the map is retained,
// not copied
func NewMap[T any](items map[string]T) *Map[T] {
	return &Map[T]{items: items}
}

// Get returns the value stored under key or the type's zero value when absent
func (m *Map[T]) Get(key string) T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[key]
}

// Exists returns true when a value is stored under key
func (m *Map[T]) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Set stores value under key
func (m *Map[T]) Set(key string, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(key, value)
}

// SetFunc hands the current value under key to fn and stores the value it
// returns - fn runs while the map is locked
func (m *Map[T]) SetFunc(key string, fn func(T) T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(key, fn(m.items[key]))
}

func (m *Map[T]) set(key string, value T) {
	if m.items == nil {
		m.items = map[string]T{}
	}
	m.items[key] = value
}

// Del removes the value stored under key
func (m *Map[T]) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Range calls fn for each entry of a point-in-time snapshot until fn returns
// false - fn runs unlocked so it may read or write the map
func (m *Map[T]) Range(fn func(key string, value T) bool) {
	for key, value := range m.AsMap() {
		if !fn(key, value) {
			break
		}
	}
}

// AsMap returns a shallow copy of the map's entries
func (m *Map[T]) AsMap() map[string]T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]T, len(m.items))
	for key, value := range m.items {
		out[key] = value
	}
	return out
}
