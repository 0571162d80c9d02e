package changekit

import (
	"github.com/autom8ter/changekit/internal/safe"
)

// Cache is in-memory state keyed by string
type Cache[T any] interface {
	// Get returns the value under key or the type's zero value when absent
	Get(key string) T
	// Exists returns true when a value is stored under key
	Exists(key string) bool
	// Set stores value under key
	Set(key string, value T)
	// SetFunc hands the current value under key to fn and stores what it returns
	SetFunc(key string, fn func(T) T)
	// Del removes the value stored under key
	Del(key string)
	// Range calls fn per entry until fn returns false
	Range(fn func(key string, value T) bool)
	// AsMap returns a copy of the cached entries
	AsMap() map[string]T
}

func newCache[T any](data map[string]T) Cache[T] {
	return safe.NewMap(data)
}
