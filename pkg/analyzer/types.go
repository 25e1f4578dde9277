// Package analyzer computes descriptive statistics over parsed chat messages.
package analyzer

import "time"

// Stats are the headline counts for a selected user.
type Stats struct {
	Messages int `json:"messages"`
	Words    int `json:"words"`
	Media    int `json:"media"`
	Links    int `json:"links"`
}

// SenderCount is a sender with its message count.
type SenderCount struct {
	Sender string `json:"sender"`
	Count  int    `json:"count"`
}

// SenderShare is a sender with its percentage of all authored messages.
type SenderShare struct {
	Sender  string  `json:"sender"`
	Percent float64 `json:"percent"`
}

// BusyUsers ranks senders by message volume.
type BusyUsers struct {
	// Top holds the busiest senders, most active first.
	Top []SenderCount `json:"top"`

	// Shares holds every sender's share of authored messages, rounded to 2 decimals.
	Shares []SenderShare `json:"shares"`
}

// WordCount is a word with its frequency.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// CloudWord is a word-cloud entry. Weight is Count relative to the most
// frequent word, in (0, 1].
type CloudWord struct {
	Word   string  `json:"word"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// WordCloud is the frequency surface handed to an external layout engine.
type WordCloud struct {
	Words []CloudWord `json:"words"`
}

// MonthlyPoint is one month of the monthly timeline.
type MonthlyPoint struct {
	Year     int    `json:"year"`
	MonthNum int    `json:"month_num"`
	Month    string `json:"month"`
	Label    string `json:"label"` // "January-2023"
	Count    int    `json:"count"`
}

// DailyPoint is one calendar day of the daily timeline.
type DailyPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// LabelCount is a labelled bucket of an activity map.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Heatmap counts messages per weekday (rows) and hour bucket (columns).
type Heatmap struct {
	Days    []string `json:"days"`
	Periods []string `json:"periods"`
	Counts  [][]int  `json:"counts"`
}

// At returns the count for a weekday name and period label, 0 if either is unknown.
func (h *Heatmap) At(day, period string) int {
	for i, d := range h.Days {
		if d != day {
			continue
		}
		for j, p := range h.Periods {
			if p == period {
				return h.Counts[i][j]
			}
		}
	}
	return 0
}

// Total returns the sum of all cells.
func (h *Heatmap) Total() int {
	total := 0
	for _, row := range h.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// Result bundles every statistic for one analysis session.
type Result struct {
	// SessionID identifies this analysis run.
	SessionID string `json:"session_id"`

	// User is the selected user, or Overall.
	User string `json:"user"`

	// Records is the number of parsed messages in the session.
	Records int `json:"records"`

	// Undated counts records whose timestamp could not be parsed; they are
	// excluded from the timelines, activity maps and heatmap.
	Undated int `json:"undated"`

	// Senders lists the distinct authors, sorted.
	Senders []string `json:"senders"`

	Stats Stats `json:"stats"`

	// BusyUsers is only computed for Overall.
	BusyUsers *BusyUsers `json:"busy_users,omitempty"`

	CommonWords     []WordCount    `json:"common_words"`
	WordCloud       WordCloud      `json:"word_cloud"`
	MonthlyTimeline []MonthlyPoint `json:"monthly_timeline"`
	DailyTimeline   []DailyPoint   `json:"daily_timeline"`
	WeekActivity    []LabelCount   `json:"week_activity"`
	MonthActivity   []LabelCount   `json:"month_activity"`
	Heatmap         Heatmap        `json:"heatmap"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
