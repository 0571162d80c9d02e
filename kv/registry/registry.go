package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/kv"
)

// Opener opens a key value database from provider specific parameters
type Opener func(params map[string]interface{}) (kv.DB, error)

var (
	mu      sync.RWMutex
	openers = map[string]Opener{}
)

// Register makes a provider available to Open under the given name - provider
// packages register themselves from init
func Register(name string, opener Opener) {
	mu.Lock()
	defer mu.Unlock()
	openers[name] = opener
}

// Open opens the named provider's database
func Open(name string, params map[string]interface{}) (kv.DB, error) {
	mu.RLock()
	opener, ok := openers[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.NotFound, "unregistered kv provider: %s (registered: %s)", name, strings.Join(Providers(), ","))
	}
	return opener(params)
}

// Providers returns the registered provider names sorted
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
