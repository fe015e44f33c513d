// Package compiledir manages the scratch directory that holds compiled
// template artifacts. Every artifact is written with an atomic replace so a
// reader never observes a partially written file.
package compiledir

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

const artifactExt = ".tplc"

// Store writes and inspects compiled artifacts inside a single directory.
type Store struct {
	dir string
}

// Open prepares dir for artifact writes, creating it when missing.
func Open(dir string) (*Store, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, errors.New("compiledir: directory is required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("compiledir: resolve %q: %w", trimmed, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("compiledir: create %q: %w", abs, err)
	}
	return &Store{dir: abs}, nil
}

// Dir returns the absolute directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// ArtifactPath returns the artifact location for source compiled under the
// given variant (for example an output encoding). The name is stable for a
// source/variant pair.
func (s *Store) ArtifactPath(source, variant string) string {
	sum := sha1.Sum([]byte(source))
	name := hex.EncodeToString(sum[:8]) + "." + filepath.Base(source)
	if variant = strings.TrimSpace(variant); variant != "" {
		name += "." + variant
	}
	return filepath.Join(s.dir, name+artifactExt)
}

// Write stores compiled as the artifact for source/variant and returns the
// artifact path together with the bytes that were written. The payload is
// prefixed with a template comment identifying the source, so the artifact
// remains a loadable template on its own.
func (s *Store) Write(source, variant string, compiled []byte) (string, []byte, error) {
	path := s.ArtifactPath(source, variant)
	payload := withHeader(source, compiled)
	if err := atomic.WriteFile(path, bytes.NewReader(payload)); err != nil {
		return "", nil, fmt.Errorf("compiledir: write %q: %w", path, err)
	}
	return path, payload, nil
}

// Read returns the artifact payload for source/variant.
func (s *Store) Read(source, variant string) ([]byte, error) {
	path := s.ArtifactPath(source, variant)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compiledir: read %q: %w", path, err)
	}
	return data, nil
}

// Fresh reports whether an artifact for source/variant exists and is not
// older than the source file. The artifact path and modification time are
// returned for cache bookkeeping.
func (s *Store) Fresh(source, variant string) (string, time.Time, bool) {
	path := s.ArtifactPath(source, variant)

	artifact, err := os.Stat(path)
	if err != nil {
		return path, time.Time{}, false
	}
	src, err := os.Stat(source)
	if err != nil {
		return path, time.Time{}, false
	}
	if artifact.ModTime().Before(src.ModTime()) {
		return path, artifact.ModTime(), false
	}
	return path, artifact.ModTime(), true
}

func withHeader(source string, compiled []byte) []byte {
	sum := sha256.Sum256(compiled)
	name := strings.ReplaceAll(filepath.Base(source), "#}", "")

	var buf bytes.Buffer
	buf.Grow(len(compiled) + 96)
	fmt.Fprintf(&buf, "{# tplbench source=%s sha256=%s #}", name, hex.EncodeToString(sum[:]))
	buf.Write(compiled)
	return buf.Bytes()
}
