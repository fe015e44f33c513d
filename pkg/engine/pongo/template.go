package pongo

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-tplbench/internal/compiledir"
	"github.com/goliatone/go-tplbench/pkg/engine"
)

// Context is a configured view of the engine, bound to one compile directory
// and one force-compile setting.
type Context struct {
	engine *Engine
	cfg    engine.Config
	store  *compiledir.Store
}

var _ engine.Context = (*Context)(nil)

// Config returns the configuration the context was created with.
func (c *Context) Config() engine.Config {
	return c.cfg
}

// CreateTemplate returns a handle for path. The file is not read until Fetch.
func (c *Context) CreateTemplate(path string) (engine.Template, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("pongo2: template path is required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("pongo2: resolve template %q: %w", trimmed, err)
	}
	return &Template{ctx: c, path: abs, vars: make(map[string]any)}, nil
}

// Template is a pongo2 template handle with its own variable scope.
type Template struct {
	ctx  *Context
	path string
	vars map[string]any
}

var _ engine.Template = (*Template)(nil)

// Path returns the absolute template path.
func (t *Template) Path() string {
	return t.path
}

// Assign binds value to name for subsequent fetches.
func (t *Template) Assign(name string, value any) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	t.vars[name] = value
}

// Fetch compiles the template (honouring the context's force-compile flag)
// and renders it against the assigned variables.
func (t *Template) Fetch() (string, error) {
	e := t.ctx.engine

	tmpl, err := e.compile(t.ctx.store, t.path, t.ctx.cfg)
	if err != nil {
		return "", err
	}

	viewContext, err := convertToContext(t.vars)
	if err != nil {
		return "", fmt.Errorf("pongo2: convert data: %w", err)
	}

	rendered, err := tmpl.Execute(viewContext)
	if err != nil {
		return "", fmt.Errorf("pongo2: execute template %q: %w", t.path, err)
	}

	if t.ctx.cfg.Encoding == engine.EncodingSanitize {
		rendered = e.sanitizer.Sanitize(rendered)
	}
	return rendered, nil
}
