package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// MaxExportSize bounds the size of a single export document.
const MaxExportSize = 64 << 20

// ErrTooLarge is returned when an export exceeds MaxExportSize.
var ErrTooLarge = errors.New("chat export too large")

// Read loads an entire export document from r.
func Read(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxExportSize+1))
	if err != nil {
		return "", fmt.Errorf("reading chat export: %w", err)
	}
	if len(data) > MaxExportSize {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, MaxExportSize)
	}
	return string(data), nil
}

// ReadFile loads an export document from disk.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return "", fmt.Errorf("opening chat export %s: %w", path, err)
	}
	defer f.Close()

	text, err := Read(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// Senders returns the distinct authors in messages, sorted, without the
// group notification sentinel.
func Senders(messages []Message) []string {
	seen := make(map[string]bool)
	senders := make([]string, 0)
	for i := range messages {
		s := messages[i].Sender
		if s == GroupNotification || seen[s] {
			continue
		}
		seen[s] = true
		senders = append(senders, s)
	}
	sort.Strings(senders)
	return senders
}
