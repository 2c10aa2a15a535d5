package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// getDataDir determines the data directory path from environment or default.
// Priority: SHRINKRAY_DATA_DIR environment variable > "./data" default
func getDataDir() string {
	if dir := os.Getenv("SHRINKRAY_DATA_DIR"); dir != "" {
		return dir
	}
	return "./data"
}

// GetDataDir returns the current data directory path. Checked at runtime so
// tests and admins can repoint it without restarting anything else.
func GetDataDir() string {
	return getDataDir()
}

// GetSettingsPath returns the path of the per-user encode settings file.
// Path: {DATA_DIR}/settings.json unless SHRINKRAY_SETTINGS_FILE overrides it.
func GetSettingsPath() string {
	if p := os.Getenv("SHRINKRAY_SETTINGS_FILE"); p != "" {
		return p
	}
	return filepath.Join(GetDataDir(), "settings.json")
}

// GetCredentialsDBPath returns the full path to the delivery credentials database.
func GetCredentialsDBPath() string {
	return filepath.Join(GetDataDir(), "credentials.db")
}

// GetFailuresDBPath returns the full path to the failures database.
func GetFailuresDBPath() string {
	return filepath.Join(GetDataDir(), "failures.db")
}

// GetSuccessDBPath returns the full path to the success database.
func GetSuccessDBPath() string {
	return filepath.Join(GetDataDir(), "success.db")
}

// GetServeDir returns the base directory for direct file serving. Finished
// encodes land here and are exposed under /files/ by the HTTP server.
// Configurable via SHRINKRAY_SERVE_DIR; defaults to "./serve".
func GetServeDir() string {
	if dir := os.Getenv("SHRINKRAY_SERVE_DIR"); dir != "" {
		return dir
	}
	return "./serve"
}

// GetListenAddr returns the HTTP listen address (SHRINKRAY_ADDR, default :8080).
func GetListenAddr() string {
	if addr := os.Getenv("SHRINKRAY_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

// GetFFmpegPath returns the encoder binary to invoke (SHRINKRAY_FFMPEG,
// default "ffmpeg", resolved via PATH).
func GetFFmpegPath() string {
	if bin := os.Getenv("SHRINKRAY_FFMPEG"); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// GetFFprobePath returns the geometry probe binary (SHRINKRAY_FFPROBE,
// default "ffprobe").
func GetFFprobePath() string {
	if bin := os.Getenv("SHRINKRAY_FFPROBE"); bin != "" {
		return bin
	}
	return "ffprobe"
}

// MaxConcurrentJobs returns the global encode concurrency ceiling
// (SHRINKRAY_MAX_JOBS, default 1). Transcodes are CPU and memory heavy, so
// the ceiling is deliberately conservative. Values below 1 are treated as 1.
func MaxConcurrentJobs() int {
	raw := os.Getenv("SHRINKRAY_MAX_JOBS")
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// JWTSecret returns the shared HMAC secret used to verify access tokens.
func JWTSecret() []byte {
	return []byte(os.Getenv("SHRINKRAY_JWT_SECRET"))
}

// DeliveryTarget names an extra result destination beyond the local serve dir.
type DeliveryTarget struct {
	Type           string // "s3", "gcs" or "sftp"
	CredentialsKey string // access key into the credentials store
}

// DeliveryTargets parses SHRINKRAY_DELIVERY, a comma separated list of
// "type:credentialsKey" entries, e.g. "s3:a1b2c3,sftp:d4e5f6".
// Malformed entries are skipped.
func DeliveryTargets() []DeliveryTarget {
	raw := os.Getenv("SHRINKRAY_DELIVERY")
	if raw == "" {
		return nil
	}
	var targets []DeliveryTarget
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		kind, key, ok := strings.Cut(entry, ":")
		if !ok || kind == "" || key == "" {
			continue
		}
		targets = append(targets, DeliveryTarget{Type: kind, CredentialsKey: key})
	}
	return targets
}
