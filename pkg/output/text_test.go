package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

const testExport = `1/2/23, 9:15 am - Alice created group "Trip"
1/2/23, 9:16 am - Alice: hello trip planning
1/2/23, 9:20 am - Bob: hello https://example.com
2/2/23, 11:45 pm - Bob: <Media omitted>
3/3/23, 12:05 am - Carol: planning done
`

func createTestReport(t *testing.T, user string) *Report {
	t.Helper()
	msgs, stats := parser.New().ParseWithStats(testExport)
	result, err := analyzer.New().Analyze(context.Background(), user, msgs)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return NewReport(result, "chat.txt", stats, "")
}

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "text", false},
		{"text", "text", false},
		{"json", "json", false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.name, FormatOptions{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFormatter(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && f.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", f.Name(), tt.want)
			}
		})
	}
}

func TestTextFormatter_Format_Overall(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := createTestReport(t, analyzer.Overall)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"=== chatstat: chat.txt ===",
		"User: Overall",
		"Total messages: 5",
		"Links shared:   1",
		"[MOST BUSY USERS]",
		"50.00%",
		"[MOST COMMON WORDS]",
		"February-2023",
		"March-2023",
		"[WEEK ACTIVITY]",
		"Sunday",
		"[MONTH ACTIVITY]",
		"December",
		"Summary: 5 records, 3 senders, 1 notifications, 0 undated",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if strings.Contains(output, "[ACTIVITY HEATMAP]") {
		t.Error("heatmap should only be shown in verbose mode")
	}
}

func TestTextFormatter_Format_SingleUser(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := createTestReport(t, "Bob")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "[MOST BUSY USERS]") {
		t.Error("busy users should only be shown for Overall")
	}
	if !strings.Contains(output, "Media shared:   1") {
		t.Error("output missing media count")
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})
	report := createTestReport(t, analyzer.Overall)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()

	// Quiet mode should be a single line
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Errorf("Quiet output has %d lines, want 1", len(lines))
	}

	if !strings.HasPrefix(output, "chatstat: chat.txt [Overall]: 5 messages") {
		t.Errorf("Quiet output = %q", output)
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})
	report := createTestReport(t, analyzer.Overall)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"[DAILY TIMELINE]", "2023-02-01 3", "[ACTIVITY HEATMAP]", "Session:", "Duration:"} {
		if !strings.Contains(output, want) {
			t.Errorf("verbose output missing %q", want)
		}
	}
}

func TestTextFormatter_Format_Empty(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	result, err := analyzer.New().Analyze(context.Background(), analyzer.Overall, parser.Parse(""))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	report := NewReport(result, "empty.txt", parser.ParseStats{}, "")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"No authored messages", "No words", "No dated messages", "Summary: 0 records"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if report.HasMessages() {
		t.Error("HasMessages() = true for empty export")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		n, peak, width int
		want           string
	}{
		{0, 10, 5, ""},
		{5, 0, 5, ""},
		{10, 10, 5, "#####"},
		{1, 100, 5, "#"},
		{5, 10, 4, "##"},
	}

	for _, tt := range tests {
		if got := bar(tt.n, tt.peak, tt.width); got != tt.want {
			t.Errorf("bar(%d, %d, %d) = %q, want %q", tt.n, tt.peak, tt.width, got, tt.want)
		}
	}
}
