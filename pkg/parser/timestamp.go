package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the Go layout for a normalized export prefix:
// day/month/2-digit-year with a 12-hour clock.
const TimestampLayout = "2/1/06, 3:04 PM"

// MessageStartPattern matches the prefix that opens every exported message,
// e.g. "13/02/23, 9:41 pm - ". Capture groups: date, clock, meridiem.
var MessageStartPattern = regexp.MustCompile(
	`(?m)^(\d{1,2}/\d{1,2}/\d{2}(?:\d{2})?),\s(\d{1,2}:\d{2})\s?((?i:am|pm))?\s-\s`)

var errNoMeridiem = errors.New("missing am/pm marker")

// TimestampExtractor parses message-start prefixes into times.
type TimestampExtractor struct {
	pattern *regexp.Regexp
	layout  string
	loc     *time.Location
}

// NewTimestampExtractor creates an extractor for the export prefix grammar.
// Times are interpreted in loc; nil means UTC.
func NewTimestampExtractor(loc *time.Location) *TimestampExtractor {
	if loc == nil {
		loc = time.UTC
	}
	return &TimestampExtractor{
		pattern: MessageStartPattern,
		layout:  TimestampLayout,
		loc:     loc,
	}
}

// Extract parses a message-start prefix such as "1/2/23, 3:04 pm - ".
// Returns an error if the prefix does not match or the time is not valid
// under the day/month/yy 12-hour layout.
func (e *TimestampExtractor) Extract(prefix string) (time.Time, error) {
	matches := e.pattern.FindStringSubmatch(prefix)
	if len(matches) < 4 {
		return time.Time{}, fmt.Errorf("timestamp pattern did not match %q", prefix)
	}

	date, clock, meridiem := matches[1], matches[2], matches[3]
	if meridiem == "" {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", strings.TrimSpace(prefix), errNoMeridiem)
	}

	value := date + ", " + clock + " " + strings.ToUpper(meridiem)
	ts, err := time.ParseInLocation(e.layout, value, e.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", value, err)
	}

	return ts, nil
}

// PeriodLabel returns the hour-bucket label for an hour of day.
// Hour 0 is "00-1", hour 23 is "23-00", everything else "h-h+1".
func PeriodLabel(hour int) string {
	switch hour {
	case 0:
		return "00-1"
	case 23:
		return "23-00"
	default:
		return strconv.Itoa(hour) + "-" + strconv.Itoa(hour+1)
	}
}

// Periods returns all 24 hour-bucket labels in chronological order.
func Periods() []string {
	labels := make([]string, 24)
	for h := range labels {
		labels[h] = PeriodLabel(h)
	}
	return labels
}

// NewTiming derives the calendar fields for a timestamp.
func NewTiming(ts time.Time) *Timing {
	return &Timing{
		OnlyDate: ts.Format(time.DateOnly),
		Year:     ts.Year(),
		MonthNum: int(ts.Month()),
		Month:    ts.Month().String(),
		Day:      ts.Day(),
		DayName:  ts.Weekday().String(),
		Hour:     ts.Hour(),
		Minute:   ts.Minute(),
		Period:   PeriodLabel(ts.Hour()),
	}
}
