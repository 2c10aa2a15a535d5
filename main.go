package main

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"time"

	"shrinkray/config"
	"shrinkray/credentials"
	"shrinkray/failures"
	"shrinkray/job"
	"shrinkray/logger"
	"shrinkray/routes"
	"shrinkray/settings"
	"shrinkray/success"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Stderr)
	logger.Info("Starting shrinkray server initialization")

	if err := os.MkdirAll(config.GetDataDir(), 0o755); err != nil {
		logger.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize credentials store
	if err := credentials.OpenDB(config.GetCredentialsDBPath()); err != nil {
		logger.Fatalf("Failed to initialize credentials store: %v", err)
	}
	defer credentials.CloseDB()

	// Initialize failure store
	if err := failures.Init(config.GetFailuresDBPath()); err != nil {
		logger.Fatalf("Failed to initialize failure store: %v", err)
	}
	defer failures.Close()

	// Initialize success store
	if err := success.Init(config.GetSuccessDBPath()); err != nil {
		logger.Fatalf("Failed to initialize success store: %v", err)
	}
	defer success.Close()

	routes.Settings = settings.NewStore(config.GetSettingsPath())

	checkEncoders()

	// Leftover job directories from a previous run are swept, never resumed.
	if err := job.SweepOrphans(); err != nil {
		logger.Errorf("Failed to sweep orphaned job directories: %v", err)
	}

	job.InitSlots(config.MaxConcurrentJobs())
	logger.Infof("Concurrent encode slots: %d", config.MaxConcurrentJobs())

	// Start cleanup routine for old records (runs every 24 hours)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupRoutine(ctx)

	// Start job processing routine
	go job.ProcessPendingJobs()

	// Register HTTP routes
	http.HandleFunc("/upload", routes.UploadHandler)
	http.HandleFunc("/settings", routes.SettingsHandler)
	http.HandleFunc("/status", routes.JobStatusHandler)
	http.HandleFunc("/cancel", routes.CancelJobHandler)
	http.HandleFunc("/credentials", routes.RegisterCredentialsHandler)
	http.HandleFunc("/failures", routes.FailureQueryHandler)
	http.HandleFunc("/failures/list", routes.FailureListHandler)
	http.HandleFunc("/success", routes.SuccessQueryHandler)
	http.HandleFunc("/success/list", routes.SuccessListHandler)
	http.HandleFunc("/health", routes.HealthHandler)
	http.HandleFunc("/version", routes.VersionHandler)
	http.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(config.GetServeDir()))))

	addr := config.GetListenAddr()
	logger.Infof("shrinkray server starting on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}

// checkEncoders warns when the configured ffmpeg/ffprobe binaries are not on
// PATH. Jobs still run; they fail individually if the binary stays missing.
func checkEncoders() {
	if _, err := exec.LookPath(config.GetFFmpegPath()); err != nil {
		logger.Warnf("ffmpeg binary %q not found: %v", config.GetFFmpegPath(), err)
	}
	if _, err := exec.LookPath(config.GetFFprobePath()); err != nil {
		logger.Warnf("ffprobe binary %q not found: %v", config.GetFFprobePath(), err)
	}
}

// cleanupRoutine periodically cleans up old success and failure records
func cleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup routine stopped due to context cancellation")
			return
		case <-ticker.C:
			// Clean up records older than 30 days
			maxAge := 30 * 24 * time.Hour

			if err := success.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old success records: %v", err)
			}
			if err := failures.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old failure records: %v", err)
			}
		}
	}
}
