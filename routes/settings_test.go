package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shrinkray/models"
	"shrinkray/settings"
	"shrinkray/utils"
)

const testJWTSecret = "routes-test-secret-for-hs256-signing"

// authHeader builds a bearer token for the given user.
func authHeader(t *testing.T, userID string) string {
	t.Helper()
	now := time.Now()
	token, err := utils.CreateAccessToken(&models.AccessClaims{
		Subject:   userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}, []byte(testJWTSecret))
	if err != nil {
		t.Fatalf("Failed to create test token: %v", err)
	}
	return "Bearer " + token
}

func setupSettingsTest(t *testing.T) {
	t.Helper()
	t.Setenv("SHRINKRAY_JWT_SECRET", testJWTSecret)
	Settings = settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
}

func TestSettingsHandlerRequiresToken(t *testing.T) {
	setupSettingsTest(t)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	rec := httptest.NewRecorder()
	SettingsHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}
}

func TestSettingsHandlerGetDefaults(t *testing.T) {
	setupSettingsTest(t)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("Authorization", authHeader(t, "user-1"))
	rec := httptest.NewRecorder()
	SettingsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SettingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Settings != models.DefaultSettings() {
		t.Errorf("Expected defaults for new user, got %+v", resp.Settings)
	}
	if resp.Caption == "" {
		t.Error("Expected a settings caption")
	}
}

func TestSettingsHandlerUpdate(t *testing.T) {
	setupSettingsTest(t)

	body := strings.NewReader(`{"codec": "h264", "resolution": "1080p", "crf": 20}`)
	req := httptest.NewRequest(http.MethodPost, "/settings", body)
	req.Header.Set("Authorization", authHeader(t, "user-1"))
	rec := httptest.NewRecorder()
	SettingsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SettingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Settings.Codec != models.CodecH264 {
		t.Errorf("Expected codec h264, got %s", resp.Settings.Codec)
	}
	if resp.Settings.Resolution != models.Resolution1080p {
		t.Errorf("Expected resolution 1080p, got %s", resp.Settings.Resolution)
	}
	if resp.Settings.CRF != 20 {
		t.Errorf("Expected CRF 20, got %d", resp.Settings.CRF)
	}
	// Untouched fields keep their defaults
	if resp.Settings.Audio != models.StreamCopy {
		t.Errorf("Expected default audio policy, got %s", resp.Settings.Audio)
	}

	// The update is persisted
	if got := Settings.Get("user-1"); got != resp.Settings {
		t.Errorf("Persisted settings %+v differ from response %+v", got, resp.Settings)
	}
	// And scoped to the user
	if got := Settings.Get("user-2"); got != models.DefaultSettings() {
		t.Errorf("Other users must keep defaults, got %+v", got)
	}
}

func TestSettingsHandlerCRFDelta(t *testing.T) {
	setupSettingsTest(t)

	post := func(body string) SettingsResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(body))
		req.Header.Set("Authorization", authHeader(t, "user-1"))
		rec := httptest.NewRecorder()
		SettingsHandler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp SettingsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		return resp
	}

	if resp := post(`{"crf_delta": -2}`); resp.Settings.CRF != 22 {
		t.Errorf("Expected CRF 22 after delta -2 from default 24, got %d", resp.Settings.CRF)
	}
	if resp := post(`{"crf_delta": 5}`); resp.Settings.CRF != 27 {
		t.Errorf("Expected CRF 27 after delta +5, got %d", resp.Settings.CRF)
	}

	// Delta clamps at the bounds
	post(`{"crf": 0}`)
	if resp := post(`{"crf_delta": -1}`); resp.Settings.CRF != 0 {
		t.Errorf("Expected CRF to stay at 0, got %d", resp.Settings.CRF)
	}
	post(`{"crf": 51}`)
	if resp := post(`{"crf_delta": 1}`); resp.Settings.CRF != 51 {
		t.Errorf("Expected CRF to stay at 51, got %d", resp.Settings.CRF)
	}
}

func TestSettingsHandlerRejectsInvalidValues(t *testing.T) {
	setupSettingsTest(t)

	cases := []string{
		`{"codec": "av1"}`,
		`{"resolution": "4k"}`,
		`{"preset": "veryslow"}`,
		`{"audio": "reencode"}`,
		`{"subs": "burn"}`,
		`{not json`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(body))
		req.Header.Set("Authorization", authHeader(t, "user-1"))
		rec := httptest.NewRecorder()
		SettingsHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d", body, rec.Code)
		}
	}

	// Rejected updates leave the stored settings untouched
	if got := Settings.Get("user-1"); got != models.DefaultSettings() {
		t.Errorf("Settings must be unchanged after rejected updates, got %+v", got)
	}
}

func TestSettingsHandlerMethodNotAllowed(t *testing.T) {
	setupSettingsTest(t)

	req := httptest.NewRequest(http.MethodDelete, "/settings", nil)
	req.Header.Set("Authorization", authHeader(t, "user-1"))
	rec := httptest.NewRecorder()
	SettingsHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}
