package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileAdapter_WritesContent(t *testing.T) {
	ctx := newTestContext()
	path := filepath.Join(t.TempDir(), "conf", "app.properties")

	adapter := NewFileAdapter("app config", map[string]interface{}{
		"path":    path,
		"content": "port=8080\n",
	})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !result.Changed {
		t.Fatal("Expected Changed=true")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "port=8080\n" {
		t.Errorf("Unexpected content: %q", data)
	}
}

func TestFileAdapter_Idempotent(t *testing.T) {
	ctx := newTestContext()
	path := filepath.Join(t.TempDir(), "app.properties")
	if err := os.WriteFile(path, []byte("port=8080\n"), 0644); err != nil {
		t.Fatal(err)
	}

	adapter := NewFileAdapter("app config", map[string]interface{}{
		"path":    path,
		"content": "port=8080\n",
	})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.Changed {
		t.Fatal("Expected no change for identical content")
	}
}

func TestFileAdapter_DiffShowsContentChange(t *testing.T) {
	ctx := newTestContext()
	path := filepath.Join(t.TempDir(), "app.properties")
	if err := os.WriteFile(path, []byte("port=8080\n"), 0644); err != nil {
		t.Fatal(err)
	}

	adapter := NewFileAdapter("app config", map[string]interface{}{
		"path":    path,
		"content": "port=9090\n",
	}).(*FileAdapter)

	diff, err := adapter.Diff(ctx)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if !strings.Contains(diff, "- port=8080") || !strings.Contains(diff, "+ port=9090") {
		t.Errorf("Unexpected diff output:\n%s", diff)
	}
}

func TestFileAdapter_CopiesFromSource(t *testing.T) {
	ctx := newTestContext()
	dir := t.TempDir()
	src := filepath.Join(dir, "template.conf")
	dest := filepath.Join(dir, "app.conf")
	if err := os.WriteFile(src, []byte("managed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	adapter := NewFileAdapter("copy config", map[string]interface{}{
		"path": dest,
		"src":  src,
	})

	if _, err := adapter.Apply(ctx); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "managed\n" {
		t.Errorf("Unexpected content: %q", data)
	}
}

func TestFileAdapter_Absent(t *testing.T) {
	ctx := newTestContext()
	path := filepath.Join(t.TempDir(), "stale.conf")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	adapter := NewFileAdapter("remove stale", map[string]interface{}{
		"path":  path,
		"state": "absent",
	})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !result.Changed {
		t.Fatal("Expected Changed=true for removal")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("File still exists")
	}
}

func TestFileAdapter_RejectsContentAndSource(t *testing.T) {
	ctx := newTestContext()
	adapter := NewFileAdapter("bad", map[string]interface{}{
		"path":    "/tmp/x",
		"content": "a",
		"src":     "/tmp/y",
	})
	if err := adapter.Validate(ctx); err == nil {
		t.Fatal("Expected validation error for content+src")
	}
}
