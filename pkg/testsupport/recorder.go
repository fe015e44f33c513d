package testsupport

import (
	"strings"
	"sync"

	"github.com/goliatone/go-tplbench/pkg/engine"
)

// Call captures one Fetch observed by a RecordingEngine.
type Call struct {
	Path     string
	Config   engine.Config
	Bindings map[string]any
}

// RecordingEngine is an engine.Engine stub that records every context,
// template and fetch in order. Fetch returns Output unless a failure was
// registered for the path via FailOn.
type RecordingEngine struct {
	Output string

	mu        sync.Mutex
	contexts  []engine.Config
	templates []string
	calls     []Call
	failures  map[string]error
}

var _ engine.Engine = (*RecordingEngine)(nil)

// NewRecordingEngine returns an empty recorder.
func NewRecordingEngine() *RecordingEngine {
	return &RecordingEngine{failures: make(map[string]error)}
}

// Name implements engine.Engine.
func (r *RecordingEngine) Name() string {
	return "recording"
}

// FailOn makes every Fetch of path return err.
func (r *RecordingEngine) FailOn(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[path] = err
}

// NewContext implements engine.Engine.
func (r *RecordingEngine) NewContext(cfg engine.Config) (engine.Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.contexts = append(r.contexts, cfg)
	r.mu.Unlock()
	return &recordingContext{engine: r, cfg: cfg}, nil
}

// Calls returns a copy of the recorded fetches.
func (r *RecordingEngine) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Paths returns the template path of every recorded fetch, in order.
func (r *RecordingEngine) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, call := range r.calls {
		out = append(out, call.Path)
	}
	return out
}

// Contexts returns the configs of every context created so far.
func (r *RecordingEngine) Contexts() []engine.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.Config(nil), r.contexts...)
}

// Templates returns the paths of every template handle created so far.
func (r *RecordingEngine) Templates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.templates...)
}

type recordingContext struct {
	engine *RecordingEngine
	cfg    engine.Config
}

func (c *recordingContext) CreateTemplate(path string) (engine.Template, error) {
	c.engine.mu.Lock()
	c.engine.templates = append(c.engine.templates, path)
	c.engine.mu.Unlock()
	return &recordingTemplate{ctx: c, path: path, vars: make(map[string]any)}, nil
}

type recordingTemplate struct {
	ctx  *recordingContext
	path string
	vars map[string]any
}

func (t *recordingTemplate) Assign(name string, value any) {
	if name = strings.TrimSpace(name); name == "" {
		return
	}
	t.vars[name] = value
}

func (t *recordingTemplate) Fetch() (string, error) {
	r := t.ctx.engine

	bindings := make(map[string]any, len(t.vars))
	for key, value := range t.vars {
		bindings[key] = value
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Path: t.path, Config: t.ctx.cfg, Bindings: bindings})
	if err, ok := r.failures[t.path]; ok {
		return "", err
	}
	return r.Output, nil
}
