package parser

import (
	"log/slog"
	"strings"
	"time"
)

// senderSeparator divides "Name: text" in an authored message body.
const senderSeparator = ": "

// Parser converts raw export text into messages.
// A Parser holds no per-call state and may be shared between goroutines.
type Parser struct {
	extractor *TimestampExtractor
	logger    *slog.Logger
	loc       *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for per-record diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithLocation sets the time zone the export's wall-clock times are read in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		p.loc = loc
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.extractor = NewTimestampExtractor(p.loc)
	return p
}

// Parse parses raw export text with default options.
func Parse(raw string) []Message {
	msgs, _ := New().ParseWithStats(raw)
	return msgs
}

// Parse converts raw export text into messages in input order.
// Input without any message prefix yields an empty, non-nil slice.
func (p *Parser) Parse(raw string) []Message {
	msgs, _ := p.ParseWithStats(raw)
	return msgs
}

// ParseWithStats is Parse plus a summary of what was parsed.
func (p *Parser) ParseWithStats(raw string) ([]Message, ParseStats) {
	text := Normalize(raw)
	bounds := MessageStartPattern.FindAllStringIndex(text, -1)

	var stats ParseStats
	messages := make([]Message, 0, len(bounds))
	if len(bounds) == 0 {
		stats.PreambleBytes = len(text)
		return messages, stats
	}
	stats.PreambleBytes = bounds[0][0]

	for i, b := range bounds {
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		prefix := text[b[0]:b[1]]
		body := text[b[1]:end]

		msg := Message{}
		msg.Sender, msg.Text = splitSender(body)

		ts, err := p.extractor.Extract(prefix)
		if err != nil {
			stats.InvalidTimestamps++
			p.logger.Debug("unparseable message timestamp",
				"index", i,
				"prefix", strings.TrimSpace(prefix),
				"error", err)
		} else {
			msg.Timestamp = &ts
			msg.Timing = NewTiming(ts)
		}

		if msg.IsNotification() {
			stats.Notifications++
		}
		messages = append(messages, msg)
	}
	stats.Messages = len(messages)

	return messages, stats
}

// splitSender splits a message body at the first ": " into sender and text.
// The sender must be at least one character long, so a body that opens with
// ": " is split at the next occurrence. Bodies without a separator are
// group notifications.
func splitSender(body string) (sender, text string) {
	if len(body) > 0 {
		if idx := strings.Index(body[1:], senderSeparator); idx >= 0 {
			idx++
			return strings.TrimSpace(body[:idx]), strings.TrimSpace(body[idx+len(senderSeparator):])
		}
	}
	return GroupNotification, strings.TrimSpace(body)
}

// Normalize prepares export text for matching: it drops a leading byte
// order mark, converts CRLF line endings and replaces the no-break spaces
// some WhatsApp versions put before the am/pm marker.
func Normalize(raw string) string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	return normalizer.Replace(raw)
}

var normalizer = strings.NewReplacer(
	"\r\n", "\n",
	"\u202f", " ",
	"\u00a0", " ",
)
