package adapter

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a new adapter instance.
type Factory func() Adapter

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes an adapter factory available under the given type name.
// It is intended to be called from adapter init functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates an adapter for the given config based on its Type.
func New(cfg Config) (Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown adapter type %q (registered: %v)", cfg.Type, registeredNames())
	}

	return factory(), nil
}

func registeredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
