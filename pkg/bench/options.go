package bench

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-tplbench/pkg/engine"
)

// DefaultIterations is the number of renders per path when no iteration count
// is configured.
const DefaultIterations = 100000

// DefaultCompileDirName is the scratch directory created under the system
// temp dir when no compile dir is configured.
const DefaultCompileDirName = "smarty_compile_dir"

// DefaultCompileDir returns the default scratch compile directory.
func DefaultCompileDir() string {
	return filepath.Join(os.TempDir(), DefaultCompileDirName)
}

// Binding is a variable assigned to every template before it is rendered.
type Binding struct {
	Name  string
	Value any
}

// DefaultBindings returns the single binding every render receives by
// default: variable = "bla".
func DefaultBindings() []Binding {
	return []Binding{{Name: "variable", Value: "bla"}}
}

// Option customises the driver configuration.
type Option func(*Driver)

// WithIterations sets how many times each path is rendered.
func WithIterations(n int) Option {
	return func(d *Driver) {
		d.iterations = n
	}
}

// WithEngineConfig replaces the engine context configuration wholesale.
func WithEngineConfig(cfg engine.Config) Option {
	return func(d *Driver) {
		d.engineConfig = cfg
	}
}

// WithCompileDir points every context at dir.
func WithCompileDir(dir string) Option {
	return func(d *Driver) {
		d.engineConfig.CompileDir = dir
	}
}

// WithForceCompile toggles cache bypass. It is enabled by default.
func WithForceCompile(force bool) Option {
	return func(d *Driver) {
		d.engineConfig.ForceCompile = force
	}
}

// WithEncoding selects the output encoding used by every context.
func WithEncoding(enc engine.Encoding) Option {
	return func(d *Driver) {
		d.engineConfig.Encoding = enc
	}
}

// WithBindings replaces the default bindings. Bindings are assigned in order.
func WithBindings(bindings ...Binding) Option {
	return func(d *Driver) {
		d.bindings = append([]Binding(nil), bindings...)
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *logrus.Entry) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}
