package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"

	"shrinkray/job"
	"shrinkray/logger"
	"shrinkray/success"
	"shrinkray/utils"
)

// JobStatusResponse reports where a job is in its lifecycle. Completed jobs
// carry the download path and the settings caption.
type JobStatusResponse struct {
	Hash         string `json:"hash"`
	State        string `json:"state"`
	DownloadPath string `json:"download_path,omitempty"`
	Size         string `json:"size,omitempty"`
	Caption      string `json:"caption,omitempty"`
}

// JobStatusHandler returns the status of a job by hash.
func JobStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hash := r.URL.Query().Get("hash")
	if hash == "" {
		http.Error(w, "Missing hash parameter", http.StatusBadRequest)
		return
	}

	state, exists := job.GetJobState(hash)
	if !exists {
		http.Error(w, fmt.Sprintf("Job with hash %s not found", hash), http.StatusNotFound)
		return
	}

	response := JobStatusResponse{Hash: hash, State: state.String()}
	if state == job.StateCompleted {
		if record, err := success.GetSuccess(hash); err == nil && record != nil {
			response.DownloadPath = path.Join("/files", record.UserID, record.OutputFile)
			response.Size = utils.HumanSize(record.SizeBytes)
			response.Caption = record.Caption
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Errorf("Failed to encode status response: %v", err)
	}
}
