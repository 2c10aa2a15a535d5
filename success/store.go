// Package success keeps a durable record of finished encodes, keyed by the
// job's content hash.
package success

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pebble "github.com/cockroachdb/pebble"
)

// Record represents a successfully completed encode job.
type Record struct {
	Hash       string    `json:"hash"`
	UserID     string    `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"`
	OutputFile string    `json:"output_file"` // delivered filename under the user's folder
	SizeBytes  int64     `json:"size_bytes"`
	Caption    string    `json:"caption"` // settings summary shown to the user
}

var db *pebble.DB

// Init opens the success store at dbPath.
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("open success store: %w", err)
	}
	return nil
}

// Close closes the success store.
func Close() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// StoreSuccess stores a completed job record.
func StoreSuccess(hash, userID, outputFile string, sizeBytes int64, caption string) error {
	if db == nil {
		return fmt.Errorf("success store not initialized")
	}

	record := Record{
		Hash:       hash,
		UserID:     userID,
		Timestamp:  time.Now(),
		OutputFile: outputFile,
		SizeBytes:  sizeBytes,
		Caption:    caption,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal success record: %w", err)
	}
	return db.Set([]byte(hash), data, pebble.Sync)
}

// GetSuccess retrieves a record by hash; a missing record is (nil, nil).
func GetSuccess(hash string) (*Record, error) {
	if db == nil {
		return nil, fmt.Errorf("success store not initialized")
	}

	data, closer, err := db.Get([]byte(hash))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal success record: %w", err)
	}
	return &record, nil
}

// DeleteSuccess removes a record.
func DeleteSuccess(hash string) error {
	if db == nil {
		return fmt.Errorf("success store not initialized")
	}
	return db.Delete([]byte(hash), pebble.Sync)
}

// ListRecords returns all success records (for admin/debugging).
func ListRecords() ([]Record, error) {
	if db == nil {
		return nil, fmt.Errorf("success store not initialized")
	}

	var records []Record
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var record Record
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue // skip invalid records
		}
		records = append(records, record)
	}
	return records, iter.Error()
}

// CleanupOldRecords removes records older than maxAge.
func CleanupOldRecords(maxAge time.Duration) error {
	if db == nil {
		return fmt.Errorf("success store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()

	var keysToDelete [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		var record Record
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue
		}
		if record.Timestamp.Before(cutoff) {
			key := make([]byte, len(iter.Key()))
			copy(key, iter.Key())
			keysToDelete = append(keysToDelete, key)
		}
	}

	for _, key := range keysToDelete {
		if err := db.Delete(key, pebble.Sync); err != nil {
			return fmt.Errorf("delete old success record: %w", err)
		}
	}
	return nil
}
