package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DataPrefix is the literal that marks an event payload line.
const DataPrefix = "data: "

// maxSSELineSize is the maximum size of a single line (1 MB). The default
// bufio.Scanner limit of 64 KiB is too small for long completion chunks.
// A longer line makes Next return an error wrapping bufio.ErrTooLong.
const maxSSELineSize = 1 * 1024 * 1024

// LineScanner splits a streamed response body into lines and hands back the
// payload of every line that starts with [DataPrefix], in arrival order.
// Everything else (blank separators, "event:" lines, ":" comments) is dropped.
//
// A line fragmented across several network reads is reassembled before it is
// inspected, and a final line without a trailing newline is still delivered
// when the body ends. At most one incomplete line is held in memory.
//
// LineScanner does not interpret payloads; sentinels such as "[DONE]" are the
// caller's business.
type LineScanner struct {
	scanner *bufio.Scanner
	skipped int
}

// NewLineScanner creates a LineScanner reading from reader.
func NewLineScanner(reader io.Reader) *LineScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	scanner.Split(bufio.ScanLines)
	return &LineScanner{scanner: scanner}
}

// Next returns the next payload with the prefix stripped.
// It returns io.EOF once the reader is exhausted.
func (lineScanner *LineScanner) Next() (string, error) {
	for lineScanner.scanner.Scan() {
		line := lineScanner.scanner.Text()

		payload, found := strings.CutPrefix(line, DataPrefix)
		if !found {
			lineScanner.skipped++
			continue
		}
		return payload, nil
	}

	if err := lineScanner.scanner.Err(); err != nil {
		return "", fmt.Errorf("SSE scanner error: %w", err)
	}
	return "", io.EOF
}

// Skipped reports how many non-payload lines have been discarded so far.
func (lineScanner *LineScanner) Skipped() int {
	return lineScanner.skipped
}
