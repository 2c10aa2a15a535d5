// Package probe shells out to ffprobe to discover input stream properties
// without decoding the file. Callers treat any failure here as soft: a job
// that cannot be probed proceeds at source resolution.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result is the decoded ffprobe stream listing.
type Result struct {
	Streams []Stream `json:"streams"`
}

// Stream describes a single stream in the input container.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Geometry is the pixel size of the first video stream.
type Geometry struct {
	Width  int
	Height int
}

// Inspect runs ffprobe against path and decodes its JSON output. A non-zero
// exit is returned as an error with the tool's output attached.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	if binary == "" {
		binary = "ffprobe"
	}
	if path == "" {
		return Result{}, errors.New("probe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-hide_banner", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		detail := ""
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		return Result{}, fmt.Errorf("probe %s: %w: %s", path, err, detail)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("probe parse: %w", err)
	}
	return result, nil
}

// Geometry returns the dimensions of the first video stream, or false when
// the input has no usable video stream.
func (r Result) Geometry() (Geometry, bool) {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, "video") && s.Width > 0 && s.Height > 0 {
			return Geometry{Width: s.Width, Height: s.Height}, true
		}
	}
	return Geometry{}, false
}
