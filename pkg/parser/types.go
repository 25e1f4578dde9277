// Package parser turns exported WhatsApp chat text into message records.
package parser

import "time"

// GroupNotification is the sender recorded for system lines (joins, leaves,
// subject changes) that carry no "name: " prefix.
const GroupNotification = "group_notification"

// Message is a single parsed chat entry.
type Message struct {
	// Timestamp is the parsed message time, nil if the prefix could not be parsed.
	Timestamp *time.Time `json:"timestamp"`

	// Sender is the author display name or GroupNotification.
	Sender string `json:"sender"`

	// Text is the trimmed message body.
	Text string `json:"text"`

	// Timing holds calendar fields derived from Timestamp, nil when Timestamp is nil.
	Timing *Timing `json:"timing,omitempty"`
}

// IsNotification reports whether the message is a system/group event.
func (m *Message) IsNotification() bool {
	return m.Sender == GroupNotification
}

// Timing is the set of calendar fields derived once from a message timestamp.
type Timing struct {
	OnlyDate string `json:"only_date"` // YYYY-MM-DD
	Year     int    `json:"year"`
	MonthNum int    `json:"month_num"`
	Month    string `json:"month"`
	Day      int    `json:"day"`
	DayName  string `json:"day_name"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Period   string `json:"period"`
}

// ParseStats summarizes a single Parse call.
type ParseStats struct {
	// Messages is the number of records produced.
	Messages int

	// Notifications is the number of records attributed to GroupNotification.
	Notifications int

	// InvalidTimestamps counts records whose prefix did not parse.
	InvalidTimestamps int

	// PreambleBytes is the length of text discarded before the first message.
	PreambleBytes int
}
