package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	s := report.Summary
	_, err := fmt.Fprintf(w, "chatstat: %s [%s]: %s messages, %s words, %d media, %d links\n",
		report.Metadata.Source, s.User,
		humanize.Comma(int64(s.Messages)),
		humanize.Comma(int64(s.Words)),
		s.Media, s.Links)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	r := report.Result
	s := report.Summary

	fmt.Fprintf(w, "=== chatstat: %s ===\n", report.Metadata.Source)
	fmt.Fprintf(w, "User: %s\n", s.User)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[STATS]")
	fmt.Fprintf(w, "  Total messages: %s\n", humanize.Comma(int64(s.Messages)))
	fmt.Fprintf(w, "  Total words:    %s\n", humanize.Comma(int64(s.Words)))
	fmt.Fprintf(w, "  Media shared:   %s\n", humanize.Comma(int64(s.Media)))
	fmt.Fprintf(w, "  Links shared:   %s\n", humanize.Comma(int64(s.Links)))
	fmt.Fprintln(w)

	if r.BusyUsers != nil {
		f.formatBusyUsers(r.BusyUsers, w)
	}

	fmt.Fprintln(w, "[MOST COMMON WORDS]")
	if len(r.CommonWords) == 0 {
		fmt.Fprintln(w, "  No words")
	}
	for i, wc := range r.CommonWords {
		fmt.Fprintf(w, "  %2d. %-20s %d\n", i+1, wc.Word, wc.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[MONTHLY TIMELINE]")
	if len(r.MonthlyTimeline) == 0 {
		fmt.Fprintln(w, "  No dated messages")
	}
	for _, p := range r.MonthlyTimeline {
		fmt.Fprintf(w, "  %-16s %d\n", p.Label, p.Count)
	}
	fmt.Fprintln(w)

	if f.opts.Verbose {
		fmt.Fprintln(w, "[DAILY TIMELINE]")
		for _, p := range r.DailyTimeline {
			fmt.Fprintf(w, "  %s %d\n", p.Date, p.Count)
		}
		fmt.Fprintln(w)
	}

	f.formatActivity("[WEEK ACTIVITY]", r.WeekActivity, w)
	f.formatActivity("[MONTH ACTIVITY]", r.MonthActivity, w)

	if f.opts.Verbose {
		f.formatHeatmap(&r.Heatmap, w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d records, %d senders, %d notifications, %d undated\n",
		s.Records, s.Senders, s.Notifications, s.Undated)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Session: %s\n", report.Metadata.SessionID)
		if report.Metadata.ConfigFile != "" {
			fmt.Fprintf(w, "Config: %s\n", report.Metadata.ConfigFile)
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatBusyUsers(busy *analyzer.BusyUsers, w io.Writer) {
	fmt.Fprintln(w, "[MOST BUSY USERS]")
	if len(busy.Top) == 0 {
		fmt.Fprintln(w, "  No authored messages")
		fmt.Fprintln(w)
		return
	}
	for i, c := range busy.Top {
		fmt.Fprintf(w, "  %d. %-20s %d\n", i+1, c.Sender, c.Count)
	}

	fmt.Fprintln(w, "  Share:")
	for _, sh := range busy.Shares {
		fmt.Fprintf(w, "    %-20s %6.2f%%\n", sh.Sender, sh.Percent)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatActivity(title string, counts []analyzer.LabelCount, w io.Writer) {
	fmt.Fprintln(w, title)
	peak := 0
	for _, lc := range counts {
		if lc.Count > peak {
			peak = lc.Count
		}
	}
	for _, lc := range counts {
		fmt.Fprintf(w, "  %-10s %5d %s\n", lc.Label, lc.Count, bar(lc.Count, peak, 30))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatHeatmap(h *analyzer.Heatmap, w io.Writer) {
	fmt.Fprintln(w, "[ACTIVITY HEATMAP]")
	fmt.Fprintf(w, "  %-10s", "")
	for hour := range h.Periods {
		fmt.Fprintf(w, " %2d", hour)
	}
	fmt.Fprintln(w)

	for i, day := range h.Days {
		fmt.Fprintf(w, "  %-10s", day)
		for _, c := range h.Counts[i] {
			if c == 0 {
				fmt.Fprint(w, "  .")
				continue
			}
			fmt.Fprintf(w, " %2d", c)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// bar draws a proportional bar of at most width cells.
func bar(n, peak, width int) string {
	if peak == 0 || n == 0 {
		return ""
	}
	cells := n * width / peak
	if cells == 0 {
		cells = 1
	}
	return strings.Repeat("#", cells)
}
