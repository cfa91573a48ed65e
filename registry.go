package latent

import (
	"reflect"
	"sync"
)

var (
	planRegistry   = make(map[reflect.Type]*bindPlan)
	planRegistryMu sync.RWMutex
)

// planFor returns a cached bind plan or builds a new one.
func planFor[T any]() (*bindPlan, error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	planRegistryMu.RLock()
	if cached, ok := planRegistry[typ]; ok {
		planRegistryMu.RUnlock()
		return cached, nil
	}
	planRegistryMu.RUnlock()

	// Slow path: build and cache with write-lock
	planRegistryMu.Lock()
	defer planRegistryMu.Unlock()

	// Double-check pattern
	if cached, ok := planRegistry[typ]; ok {
		return cached, nil
	}

	plan, err := buildBindPlan[T]()
	if err != nil {
		return nil, err
	}

	planRegistry[typ] = plan
	return plan, nil
}

// ResetBindings clears the bind plan cache.
// This is primarily useful for test isolation.
func ResetBindings() {
	planRegistryMu.Lock()
	defer planRegistryMu.Unlock()
	planRegistry = make(map[reflect.Type]*bindPlan)
}
