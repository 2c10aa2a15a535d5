// Package settings persists per-user encode settings in a single JSON file,
// keyed by opaque user-id strings. The whole mapping is read and rewritten on
// every update; writes go through a temp file and an atomic rename so a crash
// mid-write never leaves a torn file behind.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"shrinkray/models"

	"github.com/google/renameio/v2"
)

// record mirrors EncodeSettings with optional fields so that partially
// populated entries on disk can be merged over the defaults. A plain int CRF
// would make a stored 0 indistinguishable from an absent field.
type record struct {
	Codec      string `json:"codec,omitempty"`
	Resolution string `json:"resolution,omitempty"`
	Preset     string `json:"preset,omitempty"`
	CRF        *int   `json:"crf,omitempty"`
	Audio      string `json:"audio,omitempty"`
	Subs       string `json:"subs,omitempty"`
}

// Store is safe for concurrent use within one process. There is no
// cross-process coordination; the deployment runs a single instance.
type Store struct {
	path     string
	defaults models.EncodeSettings
	mu       sync.Mutex
}

// NewStore returns a store backed by the JSON file at path. A missing file is
// treated as an empty mapping; nothing is created until the first Set.
func NewStore(path string) *Store {
	return &Store{path: path, defaults: models.DefaultSettings()}
}

// Get returns the stored settings for userID merged over the defaults. An
// unknown user gets pure defaults and no record is created. Get never fails:
// unreadable or corrupt state degrades to defaults.
func (st *Store) Get(userID string) models.EncodeSettings {
	st.mu.Lock()
	defer st.mu.Unlock()

	data := st.read()
	rec, ok := data[userID]
	if !ok {
		return st.defaults
	}
	return st.merge(rec)
}

// Set durably replaces the settings for userID. The full mapping is rewritten
// and swapped into place atomically.
func (st *Store) Set(userID string, s models.EncodeSettings) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	data := st.read()
	data[userID] = toRecord(s)
	return st.write(data)
}

func (st *Store) read() map[string]record {
	raw, err := os.ReadFile(st.path)
	if err != nil {
		return map[string]record{}
	}
	data := map[string]record{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return map[string]record{}
	}
	return data
}

func (st *Store) write(data map[string]record) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings file: %w", err)
	}
	if err := renameio.WriteFile(st.path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// merge fills every absent field from the defaults.
func (st *Store) merge(rec record) models.EncodeSettings {
	out := st.defaults
	if rec.Codec != "" {
		out.Codec = models.Codec(rec.Codec)
	}
	if rec.Resolution != "" {
		out.Resolution = models.Resolution(rec.Resolution)
	}
	if rec.Preset != "" {
		out.Preset = models.Preset(rec.Preset)
	}
	if rec.CRF != nil {
		out.CRF = models.ClampCRF(*rec.CRF)
	}
	if rec.Audio != "" {
		out.Audio = models.StreamPolicy(rec.Audio)
	}
	if rec.Subs != "" {
		out.Subs = models.StreamPolicy(rec.Subs)
	}
	return out
}

func toRecord(s models.EncodeSettings) record {
	crf := s.CRF
	return record{
		Codec:      string(s.Codec),
		Resolution: string(s.Resolution),
		Preset:     string(s.Preset),
		CRF:        &crf,
		Audio:      string(s.Audio),
		Subs:       string(s.Subs),
	}
}
