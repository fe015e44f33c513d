package tplbench

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-tplbench/pkg/bench"
	"github.com/goliatone/go-tplbench/pkg/engine"
	"github.com/goliatone/go-tplbench/pkg/engine/pongo"
)

// Binding aliases bench.Binding for callers configuring variables from the
// top-level package.
type Binding = bench.Binding

// DefaultRegistry returns a registry holding the built-in engines. options
// configure the pongo2 engine.
func DefaultRegistry(options ...pongo.Option) (*engine.Registry, error) {
	pongoEngine, err := pongo.New(options...)
	if err != nil {
		return nil, err
	}
	return engine.NewRegistry(pongoEngine)
}

// NewDriver builds a driver for the named engine from the default registry.
func NewDriver(engineName string, options ...bench.Option) (*bench.Driver, error) {
	registry, err := DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("tplbench: build registry: %w", err)
	}
	return NewRegistryDriver(registry, engineName, options...)
}

// NewRegistryDriver builds a driver for the engine registered as engineName.
func NewRegistryDriver(registry *engine.Registry, engineName string, options ...bench.Option) (*bench.Driver, error) {
	if registry == nil {
		return nil, errors.New("tplbench: registry is required")
	}
	eng, err := registry.Get(engineName)
	if err != nil {
		return nil, fmt.Errorf("tplbench: %w", err)
	}
	return bench.New(eng, options...)
}

// Run renders every path with the pongo2 engine using the driver defaults
// (100000 iterations, force-compile, variable = "bla") unless options
// override them.
func Run(ctx context.Context, paths []string, options ...bench.Option) error {
	driver, err := NewDriver(pongo.Name, options...)
	if err != nil {
		return err
	}
	return driver.Run(ctx, paths)
}
