package probe

import (
	"context"
	"encoding/json"
	"testing"
)

const sampleProbeOutput = `{
	"streams": [
		{"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
		{"index": 1, "codec_name": "aac", "codec_type": "audio"},
		{"index": 2, "codec_name": "subrip", "codec_type": "subtitle"}
	]
}`

func TestGeometryFromProbeOutput(t *testing.T) {
	var result Result
	if err := json.Unmarshal([]byte(sampleProbeOutput), &result); err != nil {
		t.Fatalf("Failed to decode probe output: %v", err)
	}

	if len(result.Streams) != 3 {
		t.Fatalf("Expected 3 streams, got %d", len(result.Streams))
	}

	geom, ok := result.Geometry()
	if !ok {
		t.Fatal("Expected geometry from video stream")
	}
	if geom.Width != 1920 || geom.Height != 1080 {
		t.Errorf("Expected 1920x1080, got %dx%d", geom.Width, geom.Height)
	}
}

func TestGeometryNoVideoStream(t *testing.T) {
	result := Result{Streams: []Stream{
		{Index: 0, CodecName: "aac", CodecType: "audio"},
	}}
	if _, ok := result.Geometry(); ok {
		t.Error("Expected no geometry for audio-only input")
	}
}

func TestGeometrySkipsZeroSizedVideo(t *testing.T) {
	result := Result{Streams: []Stream{
		{Index: 0, CodecName: "mjpeg", CodecType: "video", Width: 0, Height: 0},
		{Index: 1, CodecName: "h264", CodecType: "video", Width: 1280, Height: 720},
	}}
	geom, ok := result.Geometry()
	if !ok {
		t.Fatal("Expected geometry from second video stream")
	}
	if geom.Width != 1280 || geom.Height != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", geom.Width, geom.Height)
	}
}

func TestInspectEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", ""); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestInspectMissingBinary(t *testing.T) {
	if _, err := Inspect(context.Background(), "/nonexistent/ffprobe", "input.mp4"); err == nil {
		t.Error("Expected error for missing binary")
	}
}
