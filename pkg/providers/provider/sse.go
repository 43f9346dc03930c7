package provider

import (
	"bufio"
	"bytes"
	"io"
)

// SSE payloads are usually small, but a single data line can carry a large
// JSON chunk; the scanner buffer is sized to tolerate that.
const (
	sseInitialBuffer = 64 * 1024
	sseMaxBuffer     = 1024 * 1024
)

var dataPrefix = []byte("data:")

// ScanSSE reads a server-sent event stream from r and calls fn with each
// data payload, stripped of its "data:" prefix and leading space. Blank
// lines, comments, and non-data fields are skipped. Scanning stops when fn
// returns false or the stream ends. The payload slice aliases the scanner's
// buffer and must not be retained across calls.
func ScanSSE(r io.Reader, fn func(data []byte) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, sseInitialBuffer), sseMaxBuffer)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !bytes.HasPrefix(line, dataPrefix) {
			continue
		}

		payload := bytes.TrimPrefix(line, dataPrefix)
		payload = bytes.TrimPrefix(payload, []byte(" "))

		if !fn(payload) {
			return nil
		}
	}

	return scanner.Err()
}
