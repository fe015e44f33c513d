package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownEngine is returned when a name is not registered.
var ErrUnknownEngine = errors.New("engine: unknown engine")

// Registry maps engine names to engines so the benchmark engine can be chosen
// from a flag or profile.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry returns a registry holding engines, registered in order.
func NewRegistry(engines ...Engine) (*Registry, error) {
	r := &Registry{engines: make(map[string]Engine, len(engines))}
	for _, eng := range engines {
		if err := r.Register(eng); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds eng under its Name(). Names are matched case-insensitively
// and must be unique.
func (r *Registry) Register(eng Engine) error {
	if eng == nil {
		return errors.New("engine: engine is required")
	}
	name := normaliseName(eng.Name())
	if name == "" {
		return errors.New("engine: engine name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[name]; exists {
		return fmt.Errorf("engine: engine %q already registered", name)
	}
	r.engines[name] = eng
	return nil
}

// Get returns the engine registered as name. An unknown name yields an error
// wrapping ErrUnknownEngine that lists the available engines.
func (r *Registry) Get(name string) (Engine, error) {
	key := normaliseName(name)

	r.mu.RLock()
	eng, ok := r.engines[key]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownEngine, name, strings.Join(r.List(), ", "))
	}
	return eng, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.engines[normaliseName(name)]
	return ok
}

func normaliseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
