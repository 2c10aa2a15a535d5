package job

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"shrinkray/config"
	"shrinkray/credentials"
	"shrinkray/delivery"
	"shrinkray/failures"
	"shrinkray/ffmpeg"
	"shrinkray/logger"
	"shrinkray/probe"
	"shrinkray/success"
)

// Process runs a single job from its directory: probe, encode, deliver,
// record. The job directory with the input and output files is removed on
// every exit path once the job is terminal.
func Process(dir string) error {
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Errorf("Failed to clean up job directory %s: %v", dir, err)
		}
	}()

	instr, err := ReadInstructions(dir)
	if err != nil {
		logger.Errorf("Failed to read instructions in %s: %v", dir, err)
		return storeFailure(Instructions{Hash: filepath.Base(dir)}, err)
	}

	logger.Infof("Processing job %s for user %s: %s", instr.Hash, instr.UserID, instr.InputFile)

	outputDir := filepath.Join(dir, "output")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return storeFailure(instr, fmt.Errorf("create output directory: %w", err))
	}

	inputPath := filepath.Join(dir, instr.InputFile)
	outputPath := filepath.Join(outputDir, instr.OutputFile)
	ctx := context.Background()

	args := ffmpeg.Build(instr.Settings, inputPath, outputPath, probeGeometry(ctx, instr, inputPath))
	logger.Debugf("ffmpeg %s", strings.Join(args, " "))

	size, err := Run(ctx, config.GetFFmpegPath(), args, outputPath)
	if err != nil {
		return storeFailure(instr, err)
	}

	deliveredName, err := deliver(ctx, instr, outputPath)
	if err != nil {
		return storeFailure(instr, err)
	}

	if err := success.StoreSuccess(instr.Hash, instr.UserID, deliveredName, size, instr.Settings.Summary()); err != nil {
		// The encode itself succeeded; a bad bookkeeping write must not fail the job.
		logger.Errorf("Failed to store success record for %s: %v", instr.Hash, err)
	}

	logger.Infof("Job %s completed: %s (%d bytes)", instr.Hash, deliveredName, size)
	return nil
}

// probeGeometry discovers the input dimensions when the settings ask for a
// resize. Any probe failure degrades to nil, which makes the builder skip the
// scale filter and keep source resolution.
func probeGeometry(ctx context.Context, instr Instructions, inputPath string) *probe.Geometry {
	if _, needsScale := instr.Settings.TargetHeight(); !needsScale {
		return nil
	}
	result, err := probe.Inspect(ctx, config.GetFFprobePath(), inputPath)
	if err != nil {
		logger.Warnf("Probe failed for %s, keeping source resolution: %v", instr.Hash, err)
		return nil
	}
	geom, ok := result.Geometry()
	if !ok {
		logger.Warnf("No video stream found in %s, keeping source resolution", instr.Hash)
		return nil
	}
	return &geom
}

// deliver writes the finished file to the local serve directory and to every
// extra delivery target configured for the deployment. Returns the delivered
// filename.
func deliver(ctx context.Context, instr Instructions, outputPath string) (string, error) {
	name := instr.Hash + "_" + instr.OutputFile

	file, err := os.Open(outputPath)
	if err != nil {
		return "", fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	accessInfo := map[string]string{
		"baseDir":  config.GetServeDir(),
		"folder":   instr.UserID,
		"filename": name,
	}
	if err := delivery.WriteResult(ctx, accessInfo, file, "directServe"); err != nil {
		return "", fmt.Errorf("deliver result: %w", err)
	}

	for _, target := range config.DeliveryTargets() {
		creds, err := credentials.GetCredentials(target.CredentialsKey)
		if err != nil {
			return "", fmt.Errorf("credentials for %s target: %w", target.Type, err)
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewind output file: %w", err)
		}
		if err := delivery.WriteResult(ctx, prepareAccessInfo(target.Type, creds, instr.UserID, name), file, target.Type); err != nil {
			return "", fmt.Errorf("deliver to %s: %w", target.Type, err)
		}
	}
	return name, nil
}

// prepareAccessInfo merges stored credentials with the per-file fields each
// backend expects.
func prepareAccessInfo(kind string, creds map[string]string, folder, filename string) map[string]string {
	accessInfo := make(map[string]string, len(creds)+4)
	for k, v := range creds {
		accessInfo[k] = v
	}
	accessInfo["filename"] = filename
	accessInfo["folder"] = folder

	remote := path.Join(folder, filename)
	switch kind {
	case "s3":
		accessInfo["key"] = remote
	case "gcs":
		accessInfo["object"] = remote
	case "sftp":
		accessInfo["remotePath"] = path.Join(creds["baseDir"], remote)
	}
	return accessInfo
}

// storeFailure records the failure and returns the original error.
func storeFailure(instr Instructions, cause error) error {
	if instr.Hash == "" {
		logger.Errorf("Cannot store failure: missing hash")
		return cause
	}
	caption := ""
	if instr.UserID != "" {
		caption = instr.Settings.Summary()
	}
	if err := failures.StoreFailure(instr.Hash, instr.UserID, cause, caption); err != nil {
		logger.Errorf("Failed to store failure record for %s: %v", instr.Hash, err)
	}
	return cause
}
