package pongo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-tplbench/internal/compiledir"
	"github.com/goliatone/go-tplbench/pkg/engine"
)

// Name is the registry name of the pongo2 engine.
const Name = "pongo2"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	globalData map[string]any
}

// WithBaseDir resolves includes and extends that are not found next to the
// referencing template against dir.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithGlobalData seeds values visible to every template. Assigned variables
// take precedence.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine satisfies engine.Engine using pongo2. It is safe to share between
// contexts.
type Engine struct {
	mu sync.Mutex

	baseDir   string
	globals   pongo2.Context
	stores    map[string]*compiledir.Store
	compiled  map[string]compiledTemplate
	sanitizer *bluemonday.Policy
}

type compiledTemplate struct {
	tmpl    *pongo2.Template
	modTime time.Time
}

var _ engine.Engine = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir != "" {
		abs, err := filepath.Abs(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo2: base dir: %w", err)
		}
		cfg.baseDir = abs
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo2: base dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("pongo2: base dir %q is not a directory", cfg.baseDir)
		}
	}

	globals, err := convertToContext(cfg.globalData)
	if err != nil {
		return nil, fmt.Errorf("pongo2: apply global data: %w", err)
	}
	registerDefaultFilters()

	return &Engine{
		baseDir:   cfg.baseDir,
		globals:   globals,
		stores:    make(map[string]*compiledir.Store),
		compiled:  make(map[string]compiledTemplate),
		sanitizer: bluemonday.UGCPolicy(),
	}, nil
}

// Name implements engine.Engine.
func (e *Engine) Name() string {
	return Name
}

// NewContext validates cfg and prepares its compile directory.
func (e *Engine) NewContext(cfg engine.Config) (engine.Context, error) {
	if e == nil || e.stores == nil {
		return nil, errors.New("pongo2: engine is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Encoding = cfg.Encoding.OrDefault()

	store, err := e.storeFor(cfg.CompileDir)
	if err != nil {
		return nil, fmt.Errorf("pongo2: %w", err)
	}
	return &Context{engine: e, cfg: cfg, store: store}, nil
}

func (e *Engine) storeFor(dir string) (*compiledir.Store, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if store, ok := e.stores[dir]; ok {
		return store, nil
	}
	store, err := compiledir.Open(dir)
	if err != nil {
		return nil, err
	}
	e.stores[dir] = store
	return store, nil
}

// compile returns an executable template for path. Without force it reuses a
// fresh artifact, preferring the in-process copy when the artifact has not
// changed since it was parsed. An artifact that no longer parses is
// recompiled from source.
func (e *Engine) compile(store *compiledir.Store, path string, cfg engine.Config) (*pongo2.Template, error) {
	variant := cfg.Encoding.String()

	if !cfg.ForceCompile {
		if tmpl, ok := e.reuse(store, path, cfg); ok {
			return tmpl, nil
		}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo2: read template %q: %w", path, err)
	}

	artifactPath, payload, err := store.Write(path, variant, wrapEncoding(source, cfg.Encoding))
	if err != nil {
		return nil, fmt.Errorf("pongo2: %w", err)
	}

	tmpl, err := e.parse(path, payload, cfg.Encoding)
	if err != nil {
		return nil, err
	}

	if !cfg.ForceCompile {
		if info, err := os.Stat(artifactPath); err == nil {
			e.remember(artifactPath, info.ModTime(), tmpl)
		}
	}
	return tmpl, nil
}

func (e *Engine) reuse(store *compiledir.Store, path string, cfg engine.Config) (*pongo2.Template, bool) {
	variant := cfg.Encoding.String()

	artifactPath, modTime, fresh := store.Fresh(path, variant)
	if !fresh {
		return nil, false
	}

	e.mu.Lock()
	cached, ok := e.compiled[artifactPath]
	e.mu.Unlock()
	if ok && cached.modTime.Equal(modTime) {
		return cached.tmpl, true
	}

	payload, err := store.Read(path, variant)
	if err != nil {
		return nil, false
	}
	tmpl, err := e.parse(path, payload, cfg.Encoding)
	if err != nil {
		return nil, false
	}
	e.remember(artifactPath, modTime, tmpl)
	return tmpl, true
}

// parse loads payload as the template at path. A dedicated set per compile
// keeps relative includes anchored at path and applies enc to every file the
// template pulls in.
func (e *Engine) parse(path string, payload []byte, enc engine.Encoding) (*pongo2.Template, error) {
	set := pongo2.NewSet("tplbench", &fileLoader{
		baseDir:     e.baseDir,
		encoding:    enc,
		root:        path,
		rootPayload: payload,
	})
	set.Globals.Update(e.globals)

	tmpl, err := set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo2: compile template %q: %w", path, err)
	}
	return tmpl, nil
}

func (e *Engine) remember(artifactPath string, modTime time.Time, tmpl *pongo2.Template) {
	e.mu.Lock()
	e.compiled[artifactPath] = compiledTemplate{tmpl: tmpl, modTime: modTime}
	e.mu.Unlock()
}
