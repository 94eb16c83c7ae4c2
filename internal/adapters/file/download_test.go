package file

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadAdapter_FileScheme(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "release.tar.gz")
	dest := filepath.Join(tmp, "dist", "release.tar.gz")

	if err := os.WriteFile(src, []byte("archive-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := newTestContext()
	adapter := NewDownloadAdapter("fetch release", map[string]interface{}{
		"url":  "file://" + src,
		"dest": dest,
	})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !result.Changed {
		t.Fatal("Expected Changed=true on first download")
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Destination missing: %v", err)
	}
	if string(content) != "archive-bytes" {
		t.Errorf("Unexpected content: %q", content)
	}
}

func TestDownloadAdapter_SkippedWhenPresent(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "release.tar.gz")
	if err := os.WriteFile(dest, []byte("cached"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := newTestContext()
	adapter := NewDownloadAdapter("fetch release", map[string]interface{}{
		"url":  "https://releases.example.com/release.tar.gz",
		"dest": dest,
	})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.Changed {
		t.Fatal("Existing destination must skip the download")
	}
}

func TestDownloadAdapter_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("served-bytes"))
	}))
	defer srv.Close()

	tmp := t.TempDir()
	dest := filepath.Join(tmp, "out.bin")

	ctx := newTestContext()
	adapter := NewDownloadAdapter("fetch", map[string]interface{}{
		"url":  srv.URL + "/out.bin",
		"dest": dest,
	})

	if _, err := adapter.Apply(ctx); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	content, _ := os.ReadFile(dest)
	if string(content) != "served-bytes" {
		t.Errorf("Unexpected content: %q", content)
	}
}

func TestDownloadAdapter_Validate_BadScheme(t *testing.T) {
	adapter := NewDownloadAdapter("fetch", map[string]interface{}{
		"url":  "ftp://example.com/x",
		"dest": "/tmp/x",
	})
	if err := adapter.Validate(newTestContext()); err == nil {
		t.Fatal("Expected validation error for unsupported scheme")
	}
}
