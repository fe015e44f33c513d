package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Engine constructs fresh contexts against a template engine implementation.
type Engine interface {
	Name() string
	NewContext(cfg Config) (Context, error)
}

// Context mirrors a configured engine instance. Contexts are cheap and are
// expected to be discarded after use.
type Context interface {
	CreateTemplate(path string) (Template, error)
}

// Template is a handle to one template file with its own variable scope.
type Template interface {
	Assign(name string, value any)
	Fetch() (string, error)
}

// Config configures a Context.
//
// ForceCompile is the only cache toggle. Template handles inherit it from the
// context that created them and carry no flag of their own.
type Config struct {
	// CompileDir is the scratch directory engines write compiled artifacts to.
	CompileDir string
	// ForceCompile skips any cached compiled artifact and recompiles from
	// source on every fetch.
	ForceCompile bool
	// Encoding selects how rendered output is escaped.
	Encoding Encoding
}

// Validate reports configuration errors that would prevent a context from
// being created.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CompileDir) == "" {
		return errors.New("engine: compile dir is required")
	}
	if !c.Encoding.Valid() {
		return fmt.Errorf("engine: unknown encoding %q", string(c.Encoding))
	}
	return nil
}
