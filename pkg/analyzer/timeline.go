package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// weekdays is the row order of weekly statistics.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeekdayNames returns weekday names Monday first.
func WeekdayNames() []string {
	names := make([]string, len(weekdays))
	for i, d := range weekdays {
		names[i] = d.String()
	}
	return names
}

// MonthNames returns month names in calendar order.
func MonthNames() []string {
	names := make([]string, 12)
	for i := range names {
		names[i] = time.Month(i + 1).String()
	}
	return names
}

// dated yields the in-scope messages that carry a parsed timestamp.
func dated(user string, msgs []parser.Message) []*parser.Timing {
	scoped := Scope(user, msgs)
	timings := make([]*parser.Timing, 0, len(scoped))
	for i := range scoped {
		if scoped[i].Timing != nil {
			timings = append(timings, scoped[i].Timing)
		}
	}
	return timings
}

// MonthlyTimeline counts messages per calendar month, oldest first.
func (a *Analyzer) MonthlyTimeline(user string, msgs []parser.Message) []MonthlyPoint {
	byMonth := make(map[int]*MonthlyPoint)
	for _, t := range dated(user, msgs) {
		key := t.Year*12 + t.MonthNum - 1
		p, ok := byMonth[key]
		if !ok {
			p = &MonthlyPoint{
				Year:     t.Year,
				MonthNum: t.MonthNum,
				Month:    t.Month,
				Label:    fmt.Sprintf("%s-%d", t.Month, t.Year),
			}
			byMonth[key] = p
		}
		p.Count++
	}

	keys := make([]int, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	points := make([]MonthlyPoint, len(keys))
	for i, k := range keys {
		points[i] = *byMonth[k]
	}
	return points
}

// DailyTimeline counts messages per calendar date, oldest first.
func (a *Analyzer) DailyTimeline(user string, msgs []parser.Message) []DailyPoint {
	byDate := make(map[string]int)
	for _, t := range dated(user, msgs) {
		byDate[t.OnlyDate]++
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]DailyPoint, len(dates))
	for i, d := range dates {
		points[i] = DailyPoint{Date: d, Count: byDate[d]}
	}
	return points
}

// WeekActivityMap counts messages per weekday. All seven days are present,
// Monday first.
func (a *Analyzer) WeekActivityMap(user string, msgs []parser.Message) []LabelCount {
	return labelCounts(WeekdayNames(), dated(user, msgs), func(t *parser.Timing) string {
		return t.DayName
	})
}

// MonthActivityMap counts messages per month name. All twelve months are
// present in calendar order.
func (a *Analyzer) MonthActivityMap(user string, msgs []parser.Message) []LabelCount {
	return labelCounts(MonthNames(), dated(user, msgs), func(t *parser.Timing) string {
		return t.Month
	})
}

func labelCounts(labels []string, timings []*parser.Timing, key func(*parser.Timing) string) []LabelCount {
	index := make(map[string]int, len(labels))
	out := make([]LabelCount, len(labels))
	for i, l := range labels {
		index[l] = i
		out[i] = LabelCount{Label: l}
	}
	for _, t := range timings {
		if i, ok := index[key(t)]; ok {
			out[i].Count++
		}
	}
	return out
}

// ActivityHeatmap counts messages per weekday and hour bucket. Every
// weekday row (Monday first) and every period column ("00-1" .. "23-00")
// is present.
func (a *Analyzer) ActivityHeatmap(user string, msgs []parser.Message) Heatmap {
	days := WeekdayNames()
	dayIndex := make(map[string]int, len(days))
	for i, d := range days {
		dayIndex[d] = i
	}

	counts := make([][]int, len(days))
	for i := range counts {
		counts[i] = make([]int, 24)
	}

	for _, t := range dated(user, msgs) {
		row, ok := dayIndex[t.DayName]
		if !ok || t.Hour < 0 || t.Hour > 23 {
			continue
		}
		counts[row][t.Hour]++
	}

	return Heatmap{
		Days:    days,
		Periods: parser.Periods(),
		Counts:  counts,
	}
}
