// Package credentials stores delivery backend credentials (S3 keys, GCS
// service accounts, SFTP logins) under opaque access keys handed out at
// registration time. Jobs reference credentials by key, never inline.
package credentials

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"shrinkray/logger"
)

var db *pebble.DB

// OpenDB opens the credentials database at the specified path.
func OpenDB(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		logger.Errorf("Failed to open credentials DB: %v", err)
		return err
	}
	return nil
}

// CloseDB closes the DB.
func CloseDB() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// GetCredentials returns the credential map stored under key.
func GetCredentials(key string) (map[string]string, error) {
	if db == nil {
		return nil, fmt.Errorf("credentials store not initialized")
	}
	value, closer, err := db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	creds := make(map[string]string)
	if err := json.Unmarshal(value, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// StoreCredentials stores the credentials map under the given key.
func StoreCredentials(key string, creds map[string]string) error {
	if db == nil {
		return fmt.Errorf("credentials store not initialized")
	}
	encoded, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return db.Set([]byte(key), encoded, pebble.Sync)
}

// DeleteCredentials deletes the credentials for the given key.
func DeleteCredentials(key string) error {
	if db == nil {
		return fmt.Errorf("credentials store not initialized")
	}
	return db.Delete([]byte(key), pebble.Sync)
}
