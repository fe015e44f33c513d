// Package config resolves benchmark settings from built-in defaults and an
// optional JSON or YAML profile file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tplbench/pkg/bench"
	"github.com/goliatone/go-tplbench/pkg/engine"
	"github.com/goliatone/go-tplbench/pkg/engine/pongo"
	"github.com/goliatone/go-tplbench/pkg/logging"
)

// Config holds every knob the CLI exposes.
type Config struct {
	Iterations   int
	Engine       string
	CompileDir   string
	ForceCompile bool
	Encoding     string
	Variables    map[string]any
	// BaseDir is searched for includes and parents not found next to the
	// referencing template.
	BaseDir string
	// Globals are visible to every template; Variables win on conflict.
	Globals map[string]any
	Log     logging.Config
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Iterations:   bench.DefaultIterations,
		Engine:       pongo.Name,
		CompileDir:   bench.DefaultCompileDir(),
		ForceCompile: true,
		Encoding:     string(engine.DefaultEncoding),
		Variables:    map[string]any{"variable": "bla"},
		Log:          logging.Config{Level: "info"},
	}
}

type fileConfig struct {
	Iterations   *int            `json:"iterations" yaml:"iterations"`
	Engine       *string         `json:"engine" yaml:"engine"`
	CompileDir   *string         `json:"compileDir" yaml:"compileDir"`
	ForceCompile *bool           `json:"forceCompile" yaml:"forceCompile"`
	Encoding     *string         `json:"encoding" yaml:"encoding"`
	Variables    map[string]any  `json:"variables" yaml:"variables"`
	BaseDir      *string         `json:"baseDir" yaml:"baseDir"`
	Globals      map[string]any  `json:"globals" yaml:"globals"`
	Log          *logging.Config `json:"log" yaml:"log"`
}

// Load reads the profile at path and applies it over Default. Keys missing
// from the file keep their defaults; a variables block replaces the default
// variables entirely. A relative baseDir is resolved against the profile's
// directory.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	file, err := parseFile(data, path)
	if err != nil {
		return Config{}, err
	}
	cfg.apply(file)
	if cfg.BaseDir != "" && !filepath.IsAbs(cfg.BaseDir) {
		cfg.BaseDir = filepath.Join(filepath.Dir(path), cfg.BaseDir)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseFile(data []byte, source string) (fileConfig, error) {
	var file fileConfig
	if len(strings.TrimSpace(string(data))) == 0 {
		return fileConfig{}, fmt.Errorf("config: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &file); err == nil {
		return file, nil
	}

	file = fileConfig{}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fileConfig{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return file, nil
}

func (c *Config) apply(file fileConfig) {
	if file.Iterations != nil {
		c.Iterations = *file.Iterations
	}
	if file.Engine != nil {
		c.Engine = strings.TrimSpace(*file.Engine)
	}
	if file.CompileDir != nil {
		c.CompileDir = strings.TrimSpace(*file.CompileDir)
	}
	if file.ForceCompile != nil {
		c.ForceCompile = *file.ForceCompile
	}
	if file.Encoding != nil {
		c.Encoding = strings.TrimSpace(*file.Encoding)
	}
	if file.Variables != nil {
		c.Variables = file.Variables
	}
	if file.BaseDir != nil {
		c.BaseDir = strings.TrimSpace(*file.BaseDir)
	}
	if file.Globals != nil {
		c.Globals = file.Globals
	}
	if file.Log != nil {
		c.Log = *file.Log
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("config: iterations must be at least 1, got %d", c.Iterations)
	}
	if strings.TrimSpace(c.Engine) == "" {
		return errors.New("config: engine is required")
	}
	if strings.TrimSpace(c.CompileDir) == "" {
		return errors.New("config: compile dir is required")
	}
	if _, err := engine.ParseEncoding(c.Encoding); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// EngineConfig converts the settings into an engine context configuration.
func (c Config) EngineConfig() (engine.Config, error) {
	enc, err := engine.ParseEncoding(c.Encoding)
	if err != nil {
		return engine.Config{}, fmt.Errorf("config: %w", err)
	}
	return engine.Config{
		CompileDir:   c.CompileDir,
		ForceCompile: c.ForceCompile,
		Encoding:     enc,
	}, nil
}

// EngineOptions returns the pongo2 options carried by the profile.
func (c Config) EngineOptions() []pongo.Option {
	var options []pongo.Option
	if c.BaseDir != "" {
		options = append(options, pongo.WithBaseDir(c.BaseDir))
	}
	if len(c.Globals) > 0 {
		options = append(options, pongo.WithGlobalData(c.Globals))
	}
	return options
}

// Bindings returns Variables as driver bindings sorted by name.
func (c Config) Bindings() []bench.Binding {
	names := make([]string, 0, len(c.Variables))
	for name := range c.Variables {
		if strings.TrimSpace(name) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]bench.Binding, 0, len(names))
	for _, name := range names {
		out = append(out, bench.Binding{Name: name, Value: c.Variables[name]})
	}
	return out
}
