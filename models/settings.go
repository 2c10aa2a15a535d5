package models

import "fmt"

// Codec selects the video encoder family.
type Codec string

const (
	CodecH265 Codec = "h265" // libx265, main10 profile
	CodecH264 Codec = "h264" // libx264, high profile
)

// Resolution is the target resolution class. ResolutionSource means no
// scaling filter is applied at all.
type Resolution string

const (
	ResolutionSource Resolution = "source"
	Resolution480p   Resolution = "480p"
	Resolution720p   Resolution = "720p"
	Resolution1080p  Resolution = "1080p"
)

// Preset is the user-facing speed/quality knob. "low" maps to the encoder's
// slower preset, it is a relabeling rather than a pass-through string.
type Preset string

const (
	PresetMedium Preset = "medium"
	PresetLow    Preset = "low"
)

// StreamPolicy controls whether an audio or subtitle stream is carried over.
type StreamPolicy string

const (
	StreamCopy StreamPolicy = "copy" // copy stream without re-encoding
	StreamNone StreamPolicy = "none" // omit stream from output
)

// CRF bounds. Lower CRF means higher quality and larger output.
const (
	CRFMin = 0
	CRFMax = 51
)

// EncodeSettings is one user's encode configuration. One record per user,
// mutated only through the settings routes, read on every upload.
type EncodeSettings struct {
	Codec      Codec        `json:"codec"`
	Resolution Resolution   `json:"resolution"`
	Preset     Preset       `json:"preset"`
	CRF        int          `json:"crf"`
	Audio      StreamPolicy `json:"audio"`
	Subs       StreamPolicy `json:"subs"`
}

// DefaultSettings returns the documented defaults: H.265 main10 L4.0 at 720p,
// CRF 24, preset medium, audio copied, subtitles dropped.
func DefaultSettings() EncodeSettings {
	return EncodeSettings{
		Codec:      CodecH265,
		Resolution: Resolution720p,
		Preset:     PresetMedium,
		CRF:        24,
		Audio:      StreamCopy,
		Subs:       StreamNone,
	}
}

// Validate rejects unknown enum values and out-of-range CRF. It is called at
// the mutation boundary; the command builder assumes validated settings.
func (s EncodeSettings) Validate() error {
	switch s.Codec {
	case CodecH265, CodecH264:
	default:
		return fmt.Errorf("unknown codec %q", s.Codec)
	}
	switch s.Resolution {
	case ResolutionSource, Resolution480p, Resolution720p, Resolution1080p:
	default:
		return fmt.Errorf("unknown resolution %q", s.Resolution)
	}
	switch s.Preset {
	case PresetMedium, PresetLow:
	default:
		return fmt.Errorf("unknown preset %q", s.Preset)
	}
	if s.CRF < CRFMin || s.CRF > CRFMax {
		return fmt.Errorf("crf %d out of range [%d,%d]", s.CRF, CRFMin, CRFMax)
	}
	switch s.Audio {
	case StreamCopy, StreamNone:
	default:
		return fmt.Errorf("unknown audio policy %q", s.Audio)
	}
	switch s.Subs {
	case StreamCopy, StreamNone:
	default:
		return fmt.Errorf("unknown subtitle policy %q", s.Subs)
	}
	return nil
}

// AdjustCRF shifts the quality factor by delta, clamping at both bounds.
func (s *EncodeSettings) AdjustCRF(delta int) {
	s.CRF = ClampCRF(s.CRF + delta)
}

// ClampCRF forces v into [CRFMin, CRFMax].
func ClampCRF(v int) int {
	if v < CRFMin {
		return CRFMin
	}
	if v > CRFMax {
		return CRFMax
	}
	return v
}

// TargetHeight returns the scale target in pixels, or false for source
// resolution (no scaling).
func (s EncodeSettings) TargetHeight() (int, bool) {
	switch s.Resolution {
	case Resolution480p:
		return 480, true
	case Resolution720p:
		return 720, true
	case Resolution1080p:
		return 1080, true
	default:
		return 0, false
	}
}

// Summary renders the human-readable caption attached to finished jobs.
func (s EncodeSettings) Summary() string {
	codec := "H.265"
	if s.Codec == CodecH264 {
		codec = "H.264"
	}
	return fmt.Sprintf("%s | %s | CRF %d | preset %s | audio %s | subs %s",
		codec, s.Resolution, s.CRF, s.Preset, s.Audio, s.Subs)
}
