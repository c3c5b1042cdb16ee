// Package registry provides a global registry for physics engine factories.
// Backends register themselves in init() functions, allowing the CLI and the
// frontends to pick an engine by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/appledash/internal/engine"
)

// EngineInfo contains metadata about a registered engine.
type EngineInfo struct {
	Name  string
	Title string
}

type entry struct {
	title   string
	factory engine.Factory
}

var (
	engines = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds an engine factory to the registry.
// Typically called from a backend's init() function.
// Panics if an engine with the same name is already registered.
func Register(name, title string, f engine.Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := engines[name]; exists {
		panic(fmt.Sprintf("registry: engine %q already registered", name))
	}

	engines[name] = entry{title: title, factory: f}
}

// List returns information about all registered engines, sorted by name.
func List() []EngineInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]EngineInfo, 0, len(engines))
	for name, e := range engines {
		result = append(result, EngineInfo{
			Name:  name,
			Title: e.title,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a new engine by name for the given world.
// Returns an error if the name is not registered.
func Create(name string, w engine.World) (engine.Engine, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown engine %q", name)
	}

	return e.factory(w), nil
}

// Exists checks if an engine with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := engines[name]
	return ok
}
