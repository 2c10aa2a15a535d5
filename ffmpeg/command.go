// Package ffmpeg maps validated encode settings onto an ffmpeg argument list.
// Building is pure: the same settings and geometry always produce the same
// invocation, and arguments are passed as a discrete list, never through a
// shell.
package ffmpeg

import (
	"fmt"
	"math"

	"shrinkray/models"
	"shrinkray/probe"
)

// Output container extensions. mp4 subtitle support is unreliable across
// players and muxers, so retaining subtitles forces mkv.
const (
	DefaultContainer         = ".mp4"
	SubtitleCapableContainer = ".mkv"
)

// presetMap translates the user-facing preset to the encoder preset.
// "low" means lower speed, higher quality.
var presetMap = map[models.Preset]string{
	models.PresetMedium: "medium",
	models.PresetLow:    "slow",
}

// Container returns the output extension required by the settings.
func Container(s models.EncodeSettings) string {
	if s.Subs == models.StreamCopy {
		return SubtitleCapableContainer
	}
	return DefaultContainer
}

// Build composes the full ffmpeg invocation in a fixed order: global flags,
// input binding, stream mapping, scale filter, video block, audio block,
// subtitle block, output path.
//
// geom may be nil when probing failed or found no video stream; in that case
// the scale filter is omitted and the encode runs at source resolution.
// The frame rate is never set, source timing always passes through.
func Build(s models.EncodeSettings, inputPath, outputPath string, geom *probe.Geometry) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", inputPath,
		"-map", "0",
	}

	if filter, ok := scaleFilter(s, geom); ok {
		args = append(args, "-vf", filter)
	}

	preset := presetMap[s.Preset]
	if preset == "" {
		preset = "medium"
	}

	switch s.Codec {
	case models.CodecH264:
		args = append(args,
			"-c:v", "libx264",
			"-preset", preset,
			"-crf", fmt.Sprint(s.CRF),
			"-profile:v", "high",
			"-level:v", "4.0",
		)
	default:
		args = append(args,
			"-c:v", "libx265",
			"-preset", preset,
			"-crf", fmt.Sprint(s.CRF),
			"-x265-params", "profile=main10:level=4.0",
		)
	}

	if s.Audio == models.StreamCopy {
		args = append(args, "-c:a", "copy")
	} else {
		args = append(args, "-an")
	}

	if s.Subs == models.StreamCopy {
		args = append(args, "-c:s", "copy")
	} else {
		args = append(args, "-sn")
	}

	return append(args, outputPath)
}

// scaleFilter derives the ratio-preserving scale directive. The width is
// rounded to the nearest even value, required by 4:2:0 chroma subsampling.
func scaleFilter(s models.EncodeSettings, geom *probe.Geometry) (string, bool) {
	height, ok := s.TargetHeight()
	if !ok {
		return "", false
	}
	if geom == nil || geom.Width <= 0 || geom.Height <= 0 {
		// Unknown source geometry: keep source resolution rather than fail.
		return "", false
	}
	width := evenWidth(geom.Width, geom.Height, height)
	return fmt.Sprintf("scale=%d:%d", width, height), true
}

func evenWidth(srcW, srcH, targetH int) int {
	return int(math.Round(float64(srcW)*float64(targetH)/float64(srcH)/2.0)) * 2
}
