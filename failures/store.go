// Package failures keeps a durable record of failed encodes, keyed by the
// job's content hash. The stored error text is the bounded diagnostic excerpt
// captured by the job runner, never the full encoder output.
package failures

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pebble "github.com/cockroachdb/pebble"
)

// Record represents a processing failure.
type Record struct {
	Hash      string    `json:"hash"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
	Caption   string    `json:"caption"` // settings summary, empty when unknown
}

var db *pebble.DB

// Init opens the failure store at dbPath.
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("open failure store: %w", err)
	}
	return nil
}

// Close closes the failure store.
func Close() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// StoreFailure stores a processing failure.
func StoreFailure(hash, userID string, cause error, caption string) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
	}

	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	record := Record{
		Hash:      hash,
		UserID:    userID,
		Timestamp: time.Now(),
		Error:     msg,
		Caption:   caption,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal failure record: %w", err)
	}
	return db.Set([]byte(hash), data, pebble.Sync)
}

// GetFailure retrieves a failure record by hash; a missing record is (nil, nil).
func GetFailure(hash string) (*Record, error) {
	if db == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	data, closer, err := db.Get([]byte(hash))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get failure: %w", err)
	}
	defer closer.Close()

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal failure record: %w", err)
	}
	return &record, nil
}

// DeleteFailure removes a failure record.
func DeleteFailure(hash string) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
	}
	return db.Delete([]byte(hash), pebble.Sync)
}

// ListFailures returns all failure records (for admin purposes).
func ListFailures() ([]Record, error) {
	if db == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	var records []Record
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var record Record
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue // skip invalid records
		}
		records = append(records, record)
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iteration error: %w", err)
	}
	return records, nil
}

// CleanupOldRecords removes failure records older than maxAge.
func CleanupOldRecords(maxAge time.Duration) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
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
			return fmt.Errorf("delete old failure record: %w", err)
		}
	}
	return nil
}
