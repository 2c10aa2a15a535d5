package config

import (
	"path/filepath"
	"testing"
)

func TestDataDirDefault(t *testing.T) {
	t.Setenv("SHRINKRAY_DATA_DIR", "")
	if got := GetDataDir(); got != "./data" {
		t.Errorf("Expected default data dir ./data, got %s", got)
	}

	t.Setenv("SHRINKRAY_DATA_DIR", "/var/lib/shrinkray")
	if got := GetDataDir(); got != "/var/lib/shrinkray" {
		t.Errorf("Expected overridden data dir, got %s", got)
	}
	if got := GetSuccessDBPath(); got != filepath.Join("/var/lib/shrinkray", "success.db") {
		t.Errorf("DB paths must follow the data dir, got %s", got)
	}
}

func TestSettingsPathOverride(t *testing.T) {
	t.Setenv("SHRINKRAY_DATA_DIR", "/data")
	t.Setenv("SHRINKRAY_SETTINGS_FILE", "")
	if got := GetSettingsPath(); got != filepath.Join("/data", "settings.json") {
		t.Errorf("Expected settings path under data dir, got %s", got)
	}

	t.Setenv("SHRINKRAY_SETTINGS_FILE", "/etc/shrinkray/settings.json")
	if got := GetSettingsPath(); got != "/etc/shrinkray/settings.json" {
		t.Errorf("Expected overridden settings path, got %s", got)
	}
}

func TestMaxConcurrentJobs(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"1", 1},
		{"4", 4},
		{"0", 1},
		{"-3", 1},
		{"garbage", 1},
	}
	for _, tc := range cases {
		t.Setenv("SHRINKRAY_MAX_JOBS", tc.raw)
		if got := MaxConcurrentJobs(); got != tc.want {
			t.Errorf("MaxConcurrentJobs with %q = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestEncoderPathDefaults(t *testing.T) {
	t.Setenv("SHRINKRAY_FFMPEG", "")
	t.Setenv("SHRINKRAY_FFPROBE", "")
	if got := GetFFmpegPath(); got != "ffmpeg" {
		t.Errorf("Expected default ffmpeg, got %s", got)
	}
	if got := GetFFprobePath(); got != "ffprobe" {
		t.Errorf("Expected default ffprobe, got %s", got)
	}

	t.Setenv("SHRINKRAY_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	if got := GetFFmpegPath(); got != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("Expected overridden ffmpeg path, got %s", got)
	}
}

func TestDeliveryTargets(t *testing.T) {
	t.Setenv("SHRINKRAY_DELIVERY", "")
	if got := DeliveryTargets(); got != nil {
		t.Errorf("Expected no targets for empty env, got %v", got)
	}

	t.Setenv("SHRINKRAY_DELIVERY", "s3:a1b2c3")
	targets := DeliveryTargets()
	if len(targets) != 1 || targets[0].Type != "s3" || targets[0].CredentialsKey != "a1b2c3" {
		t.Errorf("Unexpected targets: %v", targets)
	}

	t.Setenv("SHRINKRAY_DELIVERY", "s3:a1b2c3, sftp:d4e5f6 ,gcs:778899")
	targets = DeliveryTargets()
	if len(targets) != 3 {
		t.Fatalf("Expected 3 targets, got %v", targets)
	}
	if targets[1].Type != "sftp" || targets[1].CredentialsKey != "d4e5f6" {
		t.Errorf("Unexpected second target: %+v", targets[1])
	}

	// Malformed entries are skipped, not fatal
	t.Setenv("SHRINKRAY_DELIVERY", "s3:a1b2c3,,bogus,:nokey,notype:,sftp:ok")
	targets = DeliveryTargets()
	if len(targets) != 2 {
		t.Fatalf("Expected malformed entries to be skipped, got %v", targets)
	}
	if targets[0].Type != "s3" || targets[1].Type != "sftp" {
		t.Errorf("Unexpected targets after skipping: %v", targets)
	}
}
