package compiledir_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-tplbench/internal/compiledir"
)

func TestOpen_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "compile")

	store, err := compiledir.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	info, err := os.Stat(store.Dir())
	if err != nil {
		t.Fatalf("stat compile dir: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %s to be a directory", store.Dir())
	}
}

func TestOpen_RequiresDirectory(t *testing.T) {
	if _, err := compiledir.Open("   "); err == nil {
		t.Fatal("expected error for blank directory")
	}
}

func TestArtifactPath_StablePerVariant(t *testing.T) {
	store := openStore(t)
	source := filepath.Join(t.TempDir(), "page.tpl")

	first := store.ArtifactPath(source, "html")
	second := store.ArtifactPath(source, "html")
	raw := store.ArtifactPath(source, "raw")

	if first != second {
		t.Fatalf("artifact path not stable: %q vs %q", first, second)
	}
	if first == raw {
		t.Fatalf("variants share artifact path %q", first)
	}
	if !strings.HasSuffix(first, "page.tpl.html.tplc") {
		t.Fatalf("unexpected artifact name %q", filepath.Base(first))
	}
	if filepath.Dir(first) != store.Dir() {
		t.Fatalf("artifact outside compile dir: %q", first)
	}
}

func TestWrite_PrefixesHeader(t *testing.T) {
	store := openStore(t)
	source := writeSource(t, "hello {{ variable }}")

	path, payload, err := store.Write(source, "html", []byte("hello {{ variable }}"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(onDisk) != string(payload) {
		t.Fatalf("payload mismatch\nwant: %q\n got: %q", payload, onDisk)
	}
	if !strings.HasPrefix(string(onDisk), "{# tplbench source=source.tpl sha256=") {
		t.Fatalf("missing header: %q", onDisk)
	}
	if !strings.HasSuffix(string(onDisk), "#}hello {{ variable }}") {
		t.Fatalf("compiled body not preserved: %q", onDisk)
	}

	read, err := store.Read(source, "html")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(read) != string(payload) {
		t.Fatalf("read mismatch\nwant: %q\n got: %q", payload, read)
	}
}

func TestFresh(t *testing.T) {
	store := openStore(t)
	source := writeSource(t, "body")

	if _, _, ok := store.Fresh(source, ""); ok {
		t.Fatal("expected missing artifact to be stale")
	}

	path, _, err := store.Write(source, "", []byte("body"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, ok := store.Fresh(source, ""); !ok {
		t.Fatal("expected freshly written artifact to be fresh")
	}

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if _, _, ok := store.Fresh(source, ""); ok {
		t.Fatal("expected artifact older than source to be stale")
	}
}

func openStore(t *testing.T) *compiledir.Store {
	t.Helper()
	store, err := compiledir.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return store
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.tpl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}
