package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"shrinkray/logger"
	"shrinkray/models"
)

// SettingsResponse is the settings payload returned to the caller.
type SettingsResponse struct {
	Settings models.EncodeSettings `json:"settings"`
	Caption  string                `json:"caption"`
}

// settingsUpdate is a partial update. Absent fields keep their current value.
// CRFDelta applies a relative quality adjustment and combines with CRF last
// writer wins semantics: an absolute CRF is applied first, then the delta.
type settingsUpdate struct {
	Codec      *string `json:"codec,omitempty"`
	Resolution *string `json:"resolution,omitempty"`
	Preset     *string `json:"preset,omitempty"`
	CRF        *int    `json:"crf,omitempty"`
	CRFDelta   *int    `json:"crf_delta,omitempty"`
	Audio      *string `json:"audio,omitempty"`
	Subs       *string `json:"subs,omitempty"`
}

// SettingsHandler reads (GET) or mutates (POST) the caller's encode settings.
// This is the mutation boundary: enum values are validated and CRF is clamped
// here, so jobs downstream always see a valid configuration.
func SettingsHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := verifyToken(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
		return
	}
	userID := claims.UserID()

	switch r.Method {
	case http.MethodGet:
		respondSettings(w, Settings.Get(userID))

	case http.MethodPost:
		var update settingsUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		current := Settings.Get(userID)
		applyUpdate(&current, update)
		if err := current.Validate(); err != nil {
			http.Error(w, fmt.Sprintf("Invalid settings: %v", err), http.StatusBadRequest)
			return
		}
		if err := Settings.Set(userID, current); err != nil {
			logger.Errorf("Failed to persist settings for user %s: %v", userID, err)
			http.Error(w, "Failed to store settings", http.StatusInternalServerError)
			return
		}

		logger.Infof("Updated settings for user %s: %s", userID, current.Summary())
		respondSettings(w, current)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func applyUpdate(s *models.EncodeSettings, update settingsUpdate) {
	if update.Codec != nil {
		s.Codec = models.Codec(*update.Codec)
	}
	if update.Resolution != nil {
		s.Resolution = models.Resolution(*update.Resolution)
	}
	if update.Preset != nil {
		s.Preset = models.Preset(*update.Preset)
	}
	if update.CRF != nil {
		s.CRF = models.ClampCRF(*update.CRF)
	}
	if update.CRFDelta != nil {
		s.AdjustCRF(*update.CRFDelta)
	}
	if update.Audio != nil {
		s.Audio = models.StreamPolicy(*update.Audio)
	}
	if update.Subs != nil {
		s.Subs = models.StreamPolicy(*update.Subs)
	}
}

func respondSettings(w http.ResponseWriter, s models.EncodeSettings) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SettingsResponse{Settings: s, Caption: s.Summary()}); err != nil {
		logger.Errorf("Failed to encode settings response: %v", err)
	}
}
