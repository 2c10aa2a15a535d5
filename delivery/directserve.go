package delivery

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"shrinkray/logger"
)

// WriteToServeDir writes the finished file into the directory served under
// /files/: {baseDir}/{folder}/{filename}. This is the default way a result is
// handed back to the user.
func WriteToServeDir(_ context.Context, accessInfo map[string]string, reader io.Reader) error {
	baseDir := accessInfo["baseDir"]
	folder := accessInfo["folder"]
	filename := accessInfo["filename"]

	fullDir := filepath.Join(baseDir, folder)
	fullPath := filepath.Join(fullDir, filename)

	if err := os.MkdirAll(fullDir, 0755); err != nil {
		return fmt.Errorf("create serve directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create file %s: %w", fullPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("write file %s: %w", fullPath, err)
	}

	logger.Infof("Saved result '%s' to '%s'", filename, fullPath)
	return nil
}
