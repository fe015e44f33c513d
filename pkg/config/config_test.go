package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tplbench/pkg/bench"
	"github.com/goliatone/go-tplbench/pkg/config"
	"github.com/goliatone/go-tplbench/pkg/engine"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.Iterations != 100000 {
		t.Fatalf("iterations = %d, want 100000", cfg.Iterations)
	}
	if !cfg.ForceCompile {
		t.Fatal("force compile should default to true")
	}
	if cfg.Engine != "pongo2" {
		t.Fatalf("engine = %q, want pongo2", cfg.Engine)
	}
	if diff := cmp.Diff(bench.DefaultBindings(), cfg.Bindings()); diff != "" {
		t.Fatalf("default bindings mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "profile.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Iterations != 250 || cfg.ForceCompile || cfg.CompileDir != "/var/tmp/tplbench" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Engine != "pongo2" {
		t.Fatalf("engine default not kept: %q", cfg.Engine)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
	wantBase := filepath.Join("testdata", "..", "..", "..", "examples", "templates", "partials")
	if cfg.BaseDir != filepath.Clean(wantBase) {
		t.Fatalf("base dir = %q, want %q", cfg.BaseDir, filepath.Clean(wantBase))
	}
	if diff := cmp.Diff(map[string]any{"site": "tplbench"}, cfg.Globals); diff != "" {
		t.Fatalf("globals mismatch (-want +got):\n%s", diff)
	}
	if got := len(cfg.EngineOptions()); got != 2 {
		t.Fatalf("engine options = %d, want 2", got)
	}

	want := []bench.Binding{
		{Name: "title", Value: "Benchmark"},
		{Name: "variable", Value: "bla"},
	}
	if diff := cmp.Diff(want, cfg.Bindings()); diff != "" {
		t.Fatalf("bindings mismatch (-want +got):\n%s", diff)
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	wantEngine := engine.Config{CompileDir: "/var/tmp/tplbench", Encoding: engine.EncodingRaw}
	if diff := cmp.Diff(wantEngine, engineCfg); diff != "" {
		t.Fatalf("engine config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_JSONKeepsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "profile.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Iterations != 10 || cfg.Encoding != "sanitize" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.ForceCompile {
		t.Fatal("force compile default lost")
	}
	if cfg.BaseDir != "" || len(cfg.EngineOptions()) != 0 {
		t.Fatalf("unexpected engine options for %+v", cfg)
	}
	if diff := cmp.Diff(bench.DefaultBindings(), cfg.Bindings()); diff != "" {
		t.Fatalf("bindings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty.yaml":    "  \n",
		"invalid.yaml":  "iterations: [",
		"zero.yaml":     "iterations: 0",
		"encoding.yaml": "encoding: url",
		"engine.yaml":   "engine: ''",
	}

	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := config.Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	_, err := config.Load(filepath.Join(dir, "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config: read") {
		t.Fatalf("expected read error, got %v", err)
	}
}
