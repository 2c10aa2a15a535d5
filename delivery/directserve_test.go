package delivery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteToServeDir(t *testing.T) {
	baseDir := t.TempDir()
	accessInfo := map[string]string{
		"baseDir":  baseDir,
		"folder":   "user-1",
		"filename": "abc123_clip.mp4",
	}

	err := WriteResult(context.Background(), accessInfo, strings.NewReader("encoded data"), "directServe")
	if err != nil {
		t.Fatalf("Failed to write result: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(baseDir, "user-1", "abc123_clip.mp4"))
	if err != nil {
		t.Fatalf("Expected delivered file: %v", err)
	}
	if string(data) != "encoded data" {
		t.Errorf("Delivered content mismatch: %q", data)
	}
}

func TestWriteResultUnknownBackend(t *testing.T) {
	err := WriteResult(context.Background(), nil, strings.NewReader(""), "carrier-pigeon")
	if err == nil {
		t.Error("Expected error for unknown backend type")
	}
}
