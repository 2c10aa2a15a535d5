package routes

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"shrinkray/ffmpeg"
	"shrinkray/job"
	"shrinkray/logger"
	"shrinkray/utils"
)

// videoExtensions is the fallback classification when the upload carries no
// usable content type. One predicate, not one handler per extension.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".m4v":  true,
	".ts":   true,
	".wmv":  true,
	".flv":  true,
	".mpg":  true,
	".mpeg": true,
}

// isVideoUpload accepts any video-like upload by mime type or extension.
func isVideoUpload(header *multipart.FileHeader) bool {
	if ct := header.Header.Get("Content-Type"); strings.HasPrefix(ct, "video/") {
		return true
	}
	return videoExtensions[strings.ToLower(filepath.Ext(header.Filename))]
}

// UploadResponse acknowledges an accepted encode job.
type UploadResponse struct {
	Hash       string `json:"hash"`
	OutputFile string `json:"output_file"`
	Caption    string `json:"caption"`
	State      string `json:"state"`
}

// UploadHandler accepts a video upload, snapshots the caller's encode
// settings and queues the job. The job is keyed by the SHA256 of the content;
// re-uploading identical content while a job exists is rejected.
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := verifyToken(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
		return
	}
	userID := claims.UserID()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Failed to get file from form", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !isVideoUpload(header) {
		http.Error(w, "Only video uploads are accepted", http.StatusUnsupportedMediaType)
		return
	}

	jobDir, hash, err := stageUpload(file, header.Filename)
	if err != nil {
		logger.Errorf("Failed to stage upload for user %s: %v", userID, err)
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	if jobDir == "" {
		http.Error(w, fmt.Sprintf("A job for this content already exists: %s", hash), http.StatusConflict)
		return
	}

	// Snapshot the settings now; later changes must not affect this job.
	snapshot := Settings.Get(userID)

	instr := job.Instructions{
		Dir:        jobDir,
		InputFile:  header.Filename,
		OutputFile: outputName(header.Filename, ffmpeg.Container(snapshot)),
		Hash:       hash,
		UserID:     userID,
		Settings:   snapshot,
	}

	if err := job.WriteInstructions(jobDir, instr); err != nil {
		logger.Errorf("Failed to write instructions for %s: %v", hash, err)
		os.RemoveAll(jobDir)
		http.Error(w, "Failed to queue job", http.StatusInternalServerError)
		return
	}

	job.AddPendingJob(jobDir)
	logger.Infof("Queued job %s for user %s (%s)", hash, userID, header.Filename)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(UploadResponse{
		Hash:       hash,
		OutputFile: instr.OutputFile,
		Caption:    snapshot.Summary(),
		State:      "pending",
	}); err != nil {
		logger.Errorf("Failed to encode upload response: %v", err)
	}
}

// stageUpload streams the upload to a staging directory while hashing it,
// then renames the directory to its content hash. Returns ("", hash, nil)
// when a directory for that hash already exists.
func stageUpload(file multipart.File, filename string) (string, string, error) {
	stage, err := utils.GenerateRandomHex(8)
	if err != nil {
		return "", "", err
	}
	stageDir := filepath.Join(os.TempDir(), "shrinkray-"+stage)
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return "", "", err
	}

	dst, err := os.Create(filepath.Join(stageDir, filename))
	if err != nil {
		os.RemoveAll(stageDir)
		return "", "", err
	}

	hasher := sha256.New()
	_, err = io.Copy(io.MultiWriter(dst, hasher), file)
	dst.Close()
	if err != nil {
		os.RemoveAll(stageDir)
		return "", "", err
	}
	hash := hex.EncodeToString(hasher.Sum(nil))

	jobDir := filepath.Join(os.TempDir(), hash)
	if _, err := os.Stat(jobDir); err == nil {
		os.RemoveAll(stageDir)
		return "", hash, nil
	}
	if err := os.Rename(stageDir, jobDir); err != nil {
		os.RemoveAll(stageDir)
		return "", "", err
	}
	return jobDir, hash, nil
}

// outputName derives the output filename from the upload name and the
// container required by the settings.
func outputName(original, container string) string {
	base := strings.TrimSuffix(original, filepath.Ext(original))
	if base == "" {
		base = "output"
	}
	return base + container
}
