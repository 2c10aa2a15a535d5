package success

import (
	"path/filepath"
	"testing"
	"time"
)

func initTestStore(t *testing.T) {
	t.Helper()
	if err := Init(filepath.Join(t.TempDir(), "success.db")); err != nil {
		t.Fatalf("Failed to initialize success store: %v", err)
	}
	t.Cleanup(func() { Close() })
}

func TestSuccessStore(t *testing.T) {
	initTestStore(t)

	err := StoreSuccess("test-hash-123", "user-1", "abc_clip.mp4", 2048, "H.265 | 720p | CRF 24")
	if err != nil {
		t.Fatalf("Failed to store success: %v", err)
	}

	record, err := GetSuccess("test-hash-123")
	if err != nil {
		t.Fatalf("Failed to get success: %v", err)
	}
	if record == nil {
		t.Fatal("Expected success record, got nil")
	}
	if record.Hash != "test-hash-123" {
		t.Errorf("Expected hash test-hash-123, got %s", record.Hash)
	}
	if record.UserID != "user-1" {
		t.Errorf("Expected user-1, got %s", record.UserID)
	}
	if record.OutputFile != "abc_clip.mp4" {
		t.Errorf("Expected output file abc_clip.mp4, got %s", record.OutputFile)
	}
	if record.SizeBytes != 2048 {
		t.Errorf("Expected size 2048, got %d", record.SizeBytes)
	}
	if time.Since(record.Timestamp) > time.Minute {
		t.Errorf("Timestamp seems too old: %v", record.Timestamp)
	}

	// Missing records are (nil, nil)
	missing, err := GetSuccess("non-existent-hash")
	if err != nil {
		t.Fatalf("Failed to get non-existent success: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for non-existent success record")
	}
}

func TestSuccessStoreList(t *testing.T) {
	initTestStore(t)

	hashes := []string{"list-hash-1", "list-hash-2", "list-hash-3"}
	for _, h := range hashes {
		if err := StoreSuccess(h, "user-1", h+".mp4", 100, ""); err != nil {
			t.Fatalf("Failed to store success %s: %v", h, err)
		}
	}

	records, err := ListRecords()
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}
	if len(records) != len(hashes) {
		t.Fatalf("Expected %d records, got %d", len(hashes), len(records))
	}

	seen := make(map[string]bool)
	for _, r := range records {
		seen[r.Hash] = true
	}
	for _, h := range hashes {
		if !seen[h] {
			t.Errorf("Record %s missing from list", h)
		}
	}
}

func TestSuccessDelete(t *testing.T) {
	initTestStore(t)

	if err := StoreSuccess("delete-me", "user-1", "x.mp4", 1, ""); err != nil {
		t.Fatalf("Failed to store success: %v", err)
	}
	if err := DeleteSuccess("delete-me"); err != nil {
		t.Fatalf("Failed to delete success: %v", err)
	}
	record, err := GetSuccess("delete-me")
	if err != nil {
		t.Fatalf("Failed to get deleted success: %v", err)
	}
	if record != nil {
		t.Error("Expected record to be deleted")
	}
}

func TestSuccessCleanupOldRecords(t *testing.T) {
	initTestStore(t)

	if err := StoreSuccess("fresh-hash", "user-1", "fresh.mp4", 1, ""); err != nil {
		t.Fatalf("Failed to store success: %v", err)
	}

	// Records newer than maxAge survive
	if err := CleanupOldRecords(time.Hour); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	record, err := GetSuccess("fresh-hash")
	if err != nil || record == nil {
		t.Fatalf("Fresh record should survive cleanup, got (%v, %v)", record, err)
	}

	// With a zero maxAge everything is older than the cutoff
	if err := CleanupOldRecords(0); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	record, err = GetSuccess("fresh-hash")
	if err != nil {
		t.Fatalf("Failed to get record after cleanup: %v", err)
	}
	if record != nil {
		t.Error("Expected record to be removed by cleanup")
	}
}

func TestSuccessStoreUninitialized(t *testing.T) {
	Close()
	if err := StoreSuccess("x", "u", "f", 1, ""); err == nil {
		t.Error("Expected error on uninitialized store")
	}
	if _, err := GetSuccess("x"); err == nil {
		t.Error("Expected error on uninitialized store")
	}
}
