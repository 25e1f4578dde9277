package analyzer

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"mvdan.cc/xurls/v2"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// Overall selects every message instead of a single sender.
const Overall = "Overall"

// Analyzer computes statistics over parsed messages. It holds only
// configuration, so one Analyzer may serve any number of sessions
// concurrently. Message slices passed in are never modified.
type Analyzer struct {
	stopWords        map[string]struct{}
	mediaPlaceholder string
	topUsers         int
	topWords         int
	urls             *regexp.Regexp
	logger           *slog.Logger
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithStopWords sets the words excluded from word statistics.
// Words are expected in lower case.
func WithStopWords(words []string) AnalyzerOption {
	return func(a *Analyzer) {
		a.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			a.stopWords[w] = struct{}{}
		}
	}
}

// WithMediaPlaceholder sets the text that marks an omitted attachment.
func WithMediaPlaceholder(s string) AnalyzerOption {
	return func(a *Analyzer) {
		a.mediaPlaceholder = s
	}
}

// WithTopUsers limits the busiest-users ranking.
func WithTopUsers(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.topUsers = n
		}
	}
}

// WithTopWords limits the most-common-words table.
func WithTopWords(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.topWords = n
		}
	}
}

// WithLogger sets the logger for session diagnostics.
func WithLogger(l *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an analyzer with default settings and no stop words.
func New(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		stopWords:        map[string]struct{}{},
		mediaPlaceholder: config.DefaultMediaPlaceholder,
		topUsers:         config.DefaultTopUsers,
		topWords:         config.DefaultTopWords,
		urls:             xurls.Relaxed(),
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FromConfig creates an analyzer from a validated configuration.
// Extra options are applied after the configuration.
func FromConfig(cfg *config.Config, opts ...AnalyzerOption) *Analyzer {
	base := []AnalyzerOption{
		WithStopWords(cfg.ResolvedStopWords()),
		WithMediaPlaceholder(cfg.MediaPlaceholder),
		WithTopUsers(cfg.TopUsers),
		WithTopWords(cfg.TopWords),
	}
	return New(append(base, opts...)...)
}

// Scope restricts messages to a single sender. Overall returns msgs as is.
func Scope(user string, msgs []parser.Message) []parser.Message {
	if user == Overall {
		return msgs
	}
	scoped := make([]parser.Message, 0)
	for i := range msgs {
		if msgs[i].Sender == user {
			scoped = append(scoped, msgs[i])
		}
	}
	return scoped
}

// UserOptions lists the selectable users: Overall followed by every
// sender in sorted order.
func UserOptions(msgs []parser.Message) []string {
	return append([]string{Overall}, parser.Senders(msgs)...)
}

// Analyze runs every statistic for one session. The busiest-users ranking
// is only computed for Overall. Cancellation is checked between stages.
func (a *Analyzer) Analyze(ctx context.Context, user string, msgs []parser.Message) (*Result, error) {
	result := &Result{
		SessionID: uuid.NewString(),
		User:      user,
		Records:   len(msgs),
		Senders:   parser.Senders(msgs),
		StartTime: time.Now(),
	}
	for i := range msgs {
		if msgs[i].Timing == nil {
			result.Undated++
		}
	}

	log := a.logger.With("session_id", result.SessionID, "user", user)
	log.Debug("analysis started", "records", result.Records, "undated", result.Undated)

	stages := []func(){
		func() { result.Stats = a.FetchStats(user, msgs) },
		func() {
			if user == Overall {
				busy := a.MostBusyUsers(msgs)
				result.BusyUsers = &busy
			}
		},
		func() { result.CommonWords = a.MostCommonWords(user, msgs) },
		func() { result.WordCloud = a.WordCloud(user, msgs) },
		func() { result.MonthlyTimeline = a.MonthlyTimeline(user, msgs) },
		func() { result.DailyTimeline = a.DailyTimeline(user, msgs) },
		func() { result.WeekActivity = a.WeekActivityMap(user, msgs) },
		func() { result.MonthActivity = a.MonthActivityMap(user, msgs) },
		func() { result.Heatmap = a.ActivityHeatmap(user, msgs) },
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stage()
	}

	result.EndTime = time.Now()
	log.Debug("analysis finished",
		"messages", result.Stats.Messages,
		"duration", result.EndTime.Sub(result.StartTime))

	return result, nil
}
