package pongo

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/goliatone/go-tplbench/pkg/engine"
)

// extendsTag matches an extends tag in any spacing pongo2 accepts, including
// the whitespace-trim marker.
var extendsTag = regexp.MustCompile(`\{%-?\s*extends\b`)

// fileLoader resolves templates relative to the template that references
// them, falling back to baseDir. The root template is served from its
// compiled artifact and every other file is read from disk, so includes and
// parents are encoded the same way as the root.
type fileLoader struct {
	baseDir  string
	encoding engine.Encoding

	root        string
	rootPayload []byte
}

func (l *fileLoader) Abs(base, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if base != "" {
		candidate := filepath.Join(filepath.Dir(base), name)
		if l.baseDir == "" || fileExists(candidate) {
			return candidate
		}
	}
	if l.baseDir != "" {
		return filepath.Join(l.baseDir, name)
	}
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return name
}

func (l *fileLoader) Get(path string) (io.Reader, error) {
	if path == l.root && l.rootPayload != nil {
		return bytes.NewReader(l.rootPayload), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(wrapEncoding(data, l.encoding)), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// wrapEncoding turns autoescaping off for encodings that must see raw values.
// A template that extends a parent stays unwrapped since extends has to sit
// at root level; its blocks render inside the parent, which the loader wraps.
func wrapEncoding(source []byte, enc engine.Encoding) []byte {
	switch enc.OrDefault() {
	case engine.EncodingRaw, engine.EncodingSanitize:
		if extendsTag.Match(source) {
			return source
		}
		out := make([]byte, 0, len(source)+48)
		out = append(out, "{% autoescape off %}"...)
		out = append(out, source...)
		out = append(out, "{% endautoescape %}"...)
		return out
	default:
		return source
	}
}
