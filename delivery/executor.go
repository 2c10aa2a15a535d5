// Package delivery writes finished encodes to their destinations. The local
// serve directory is the default hand-back channel; S3, GCS and SFTP targets
// can be enabled per deployment.
package delivery

import (
	"context"
	"fmt"
	"io"
)

// WriteResult dispatches the finished file to one backend. accessInfo carries
// the merged credentials and per-file fields the backend expects.
func WriteResult(ctx context.Context, accessInfo map[string]string, reader io.Reader, backendType string) error {
	switch backendType {
	case "directServe":
		if err := WriteToServeDir(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("write to serve dir: %w", err)
		}
	case "s3":
		if err := UploadToS3(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("upload to S3: %w", err)
		}
	case "gcs":
		if err := UploadToGCS(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("upload to GCS: %w", err)
		}
	case "sftp":
		if err := UploadToSFTP(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("upload to SFTP: %w", err)
		}
	default:
		return fmt.Errorf("unknown backend type: %s", backendType)
	}
	return nil
}
