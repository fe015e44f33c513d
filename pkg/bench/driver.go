package bench

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-tplbench/pkg/engine"
)

// ErrNoPaths is returned by Run when no template paths are supplied.
var ErrNoPaths = errors.New("bench: at least one template path is required")

// Driver renders templates repeatedly through an engine.
type Driver struct {
	engine       engine.Engine
	iterations   int
	engineConfig engine.Config
	bindings     []Binding
	logger       *logrus.Entry
}

// New constructs a Driver for eng. Without options every path is rendered
// DefaultIterations times with force-compile enabled, the default compile
// dir and the default bindings.
func New(eng engine.Engine, options ...Option) (*Driver, error) {
	if eng == nil {
		return nil, errors.New("bench: engine is required")
	}

	d := &Driver{
		engine:     eng,
		iterations: DefaultIterations,
		engineConfig: engine.Config{
			CompileDir:   DefaultCompileDir(),
			ForceCompile: true,
		},
		bindings: DefaultBindings(),
		logger:   discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}

	if d.iterations < 1 {
		return nil, fmt.Errorf("bench: iterations must be at least 1, got %d", d.iterations)
	}
	if err := d.engineConfig.Validate(); err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	return d, nil
}

// Iterations returns the configured number of renders per path.
func (d *Driver) Iterations() int {
	return d.iterations
}

// EngineConfig returns the configuration every context is created with.
func (d *Driver) EngineConfig() engine.Config {
	return d.engineConfig
}

// Run renders each path Iterations times, finishing one path before starting
// the next. The first error aborts the remaining iterations and paths.
func (d *Driver) Run(ctx context.Context, paths []string) error {
	if ctx == nil {
		return errors.New("bench: context is required")
	}
	if len(paths) == 0 {
		return ErrNoPaths
	}

	for _, path := range paths {
		log := d.logger.WithFields(logrus.Fields{
			"engine":     d.engine.Name(),
			"template":   path,
			"iterations": d.iterations,
		})
		log.Debug("benchmark path started")

		for i := 0; i < d.iterations; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := d.renderOnce(path); err != nil {
				return fmt.Errorf("bench: %s (iteration %d): %w", path, i+1, err)
			}
		}

		log.Debug("benchmark path finished")
	}
	return nil
}

func (d *Driver) renderOnce(path string) error {
	engineCtx, err := d.engine.NewContext(d.engineConfig)
	if err != nil {
		return err
	}

	tpl, err := engineCtx.CreateTemplate(path)
	if err != nil {
		return err
	}
	for _, binding := range d.bindings {
		tpl.Assign(binding.Name, binding.Value)
	}

	_, err = tpl.Fetch()
	return err
}

func discardLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
