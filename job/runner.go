package job

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// stderrTailLimit bounds how much encoder diagnostic output is retained.
// Pathological inputs can make ffmpeg emit megabytes of errors; only the tail
// is useful and only an excerpt is ever reported.
const stderrTailLimit = 4096

// tailBuffer is an io.Writer keeping the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}

// Run launches the encoder child process with the exact argument list and
// waits for it. Success requires both a zero exit status and the expected
// output file existing afterward; some encoders exit zero on malformed input
// without producing anything. On failure the bounded stderr tail becomes the
// failure reason. There is no retry and no timeout.
func Run(ctx context.Context, bin string, args []string, outputPath string) (int64, error) {
	tail := &tailBuffer{limit: stderrTailLimit}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = tail

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("encoder failed: %v: %s", err, excerpt(tail))
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return 0, fmt.Errorf("encoder exited cleanly but produced no output: %s", excerpt(tail))
	}
	return info.Size(), nil
}

func excerpt(t *tailBuffer) string {
	s := strings.TrimSpace(t.String())
	if s == "" {
		return "(no diagnostic output)"
	}
	return s
}
