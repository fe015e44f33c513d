package engine_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tplbench/pkg/engine"
)

type namedEngine string

func (n namedEngine) Name() string { return string(n) }

func (n namedEngine) NewContext(engine.Config) (engine.Context, error) { return nil, nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry, err := engine.NewRegistry(namedEngine("pongo2"), namedEngine("Alpha"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	got, err := registry.Get(" PONGO2 ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "pongo2" {
		t.Fatalf("unexpected engine %q", got.Name())
	}
	if !registry.Has("alpha") {
		t.Fatal("expected alpha to be registered")
	}
	if registry.Has("smarty") {
		t.Fatal("smarty should not be registered")
	}
	if diff := cmp.Diff([]string{"alpha", "pongo2"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Errors(t *testing.T) {
	var missing engine.Engine
	if _, err := engine.NewRegistry(missing); err == nil {
		t.Fatal("expected error for nil engine")
	}
	if _, err := engine.NewRegistry(namedEngine("  ")); err == nil {
		t.Fatal("expected error for unnamed engine")
	}

	registry, err := engine.NewRegistry(namedEngine("pongo2"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	err = registry.Register(namedEngine("Pongo2"))
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestRegistry_GetUnknownListsAvailable(t *testing.T) {
	registry, err := engine.NewRegistry(namedEngine("pongo2"), namedEngine("alpha"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	_, err = registry.Get("smarty")
	if !errors.Is(err, engine.ErrUnknownEngine) {
		t.Fatalf("expected ErrUnknownEngine, got %v", err)
	}
	if !strings.Contains(err.Error(), "available: alpha, pongo2") {
		t.Fatalf("expected available engines in %q", err.Error())
	}
}
