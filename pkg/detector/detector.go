// Package detector inspects chat exports to identify their message prefix
// layout before analysis.
package detector

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// DetectionResult holds the result of inspecting an export.
type DetectionResult struct {
	Matches       []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines  int           // Number of non-empty lines sampled
	PrefixLines   int           // Lines opening a message under the best match
	AmbiguityNote string        // Warning about day/month ordering if applicable
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *ExportFormat
	Confidence float64   // Share of message-opening lines this format parsed, 0.0 to 1.0
	MatchCount int       // Number of lines that parsed
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Parsed timestamp from sample
}

// Detector samples export lines to identify the prefix layout.
type Detector struct {
	formats    []*ExportFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 200).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 200,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile inspects an export file.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return d.DetectFromReader(ctx, file)
}

// DetectFromReader inspects export text read from r.
func (d *Detector) DetectFromReader(ctx context.Context, r io.Reader) (*DetectionResult, error) {
	lines, err := d.sample(ctx, r)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines inspects a slice of export lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	type formatStats struct {
		format     *ExportFormat
		order      int
		matchCount int
		sampleLine string
		parsedTime time.Time
	}

	stats := make(map[string]*formatStats)
	opening := 0

	for _, line := range lines {
		line = strings.TrimSpace(parser.Normalize(line))
		if line == "" {
			continue
		}
		result.SampledLines++

		opens := false
		for i, format := range d.formats {
			matches := format.Pattern.FindStringSubmatch(line)
			if len(matches) < 2 {
				continue
			}
			opens = true

			parsedTime, ok := parseTimestamp(matches[1], format.Layouts)
			if !ok {
				continue
			}

			key := format.Name
			if stats[key] == nil {
				stats[key] = &formatStats{
					format:     format,
					order:      i,
					sampleLine: line,
					parsedTime: parsedTime,
				}
			}
			stats[key].matchCount++
		}
		if opens {
			opening++
		}
	}

	if opening == 0 {
		return result
	}

	orders := make(map[string]int, len(stats))
	for _, s := range stats {
		orders[s.format.Name] = s.order
		result.Matches = append(result.Matches, FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(opening),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			ParsedTime: s.parsedTime,
		})
	}

	// Sort by match count descending, then by format order
	sort.Slice(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		if a.MatchCount != b.MatchCount {
			return a.MatchCount > b.MatchCount
		}
		return orders[a.Format.Name] < orders[b.Format.Name]
	})

	if len(result.Matches) > 0 {
		result.PrefixLines = result.Matches[0].MatchCount
	}

	result.AmbiguityNote = ambiguityNote(result.Matches)

	return result
}

// ambiguityNote explains what the sample says about day/month order.
func ambiguityNote(matches []FormatMatch) string {
	if len(matches) == 0 || !matches[0].Format.Ambiguous {
		return ""
	}

	best := matches[0]
	if !best.Format.Supported {
		return "Dates appear to be month-first (M/D/YY). chatstat reads dates as day/month, " +
			"so these messages would be misdated or left undated. Re-export the chat with a day-first locale."
	}

	for _, m := range matches[1:] {
		if m.Format.Ambiguous && m.MatchCount == best.MatchCount {
			return "No sampled date has a day above 12, so day/month order cannot be confirmed. " +
				"chatstat reads dates as day/month (D/M/YY)."
		}
	}
	return ""
}

var meridiemSuffix = regexp.MustCompile(`(\d)\s?([AP]M)$`)

// parseTimestamp tries each layout in order. The am/pm marker is upper-cased
// and separated from the clock before parsing.
func parseTimestamp(ts string, layouts []string) (time.Time, bool) {
	ts = meridiemSuffix.ReplaceAllString(strings.ToUpper(ts), "$1 $2")
	for _, layout := range layouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sample reads up to sampleSize non-empty lines.
func (d *Detector) sample(ctx context.Context, r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// Supported returns true if the best match is a layout chatstat can parse.
func (r *DetectionResult) Supported() bool {
	best := r.BestMatch()
	return best != nil && best.Format.Supported
}
