package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"shrinkray/failures"
	"shrinkray/logger"
	"shrinkray/success"
)

// SuccessQueryHandler returns the success record for a job hash.
func SuccessQueryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hash := r.URL.Query().Get("hash")
	if hash == "" {
		http.Error(w, "Missing hash parameter", http.StatusBadRequest)
		return
	}

	record, err := success.GetSuccess(hash)
	if err != nil {
		logger.Errorf("Failed to query success record %s: %v", hash, err)
		http.Error(w, "Failed to query success record", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, fmt.Sprintf("No success record for hash %s", hash), http.StatusNotFound)
		return
	}
	respondJSON(w, record)
}

// SuccessListHandler returns all success records.
func SuccessListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := success.ListRecords()
	if err != nil {
		logger.Errorf("Failed to list success records: %v", err)
		http.Error(w, "Failed to list success records", http.StatusInternalServerError)
		return
	}
	respondJSON(w, records)
}

// FailureQueryHandler returns the failure record for a job hash.
func FailureQueryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hash := r.URL.Query().Get("hash")
	if hash == "" {
		http.Error(w, "Missing hash parameter", http.StatusBadRequest)
		return
	}

	record, err := failures.GetFailure(hash)
	if err != nil {
		logger.Errorf("Failed to query failure record %s: %v", hash, err)
		http.Error(w, "Failed to query failure record", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, fmt.Sprintf("No failure record for hash %s", hash), http.StatusNotFound)
		return
	}
	respondJSON(w, record)
}

// FailureListHandler returns all failure records.
func FailureListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := failures.ListFailures()
	if err != nil {
		logger.Errorf("Failed to list failure records: %v", err)
		http.Error(w, "Failed to list failure records", http.StatusInternalServerError)
		return
	}
	respondJSON(w, records)
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}
