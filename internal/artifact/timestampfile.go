package artifact

import (
	"fmt"
	"io"
	"time"
)

// WriteTimestampFile writes the ASCII ISO-8601 timestamp file of §6. No
// fingerprint header: the format is intentionally trivial so the hot-swap
// coordinator (C10) can read it cheaply on every poll.
func WriteTimestampFile(w io.Writer, ts time.Time) error {
	_, err := io.WriteString(w, ts.UTC().Format(time.RFC3339))
	return err
}

func ReadTimestampFile(r io.Reader) (string, error) {
	buf := make([]byte, 64)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("artifact: read timestamp: %w", err)
	}
	return string(buf[:n]), nil
}
