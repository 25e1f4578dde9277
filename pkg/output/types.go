// Package output provides formatting and output generation for analysis results.
package output

import (
	"time"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// Report is the complete output of one analysis session.
type Report struct {
	// Summary provides the headline numbers.
	Summary Summary `json:"summary"`

	// Result holds every statistic computed for the session.
	Result *analyzer.Result `json:"result"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Summary provides the headline numbers of a session.
type Summary struct {
	User          string `json:"user"`
	Records       int    `json:"records"`
	Messages      int    `json:"messages"`
	Notifications int    `json:"notifications"`
	Senders       int    `json:"senders"`
	Words         int    `json:"words"`
	Media         int    `json:"media"`
	Links         int    `json:"links"`
	Undated       int    `json:"undated"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// SessionID identifies the analysis session.
	SessionID string `json:"session_id"`

	// Source is the export file that was analyzed.
	Source string `json:"source"`

	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Parse summarizes the parsing step.
	Parse parser.ParseStats `json:"parse"`

	// AnalyzedAt is when the analysis finished.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from an analysis result.
func NewReport(result *analyzer.Result, source string, stats parser.ParseStats, configFile string) *Report {
	return &Report{
		Result: result,
		Metadata: Metadata{
			SessionID:  result.SessionID,
			Source:     source,
			ConfigFile: configFile,
			Parse:      stats,
			AnalyzedAt: result.EndTime,
			Duration:   result.EndTime.Sub(result.StartTime),
		},
		Summary: Summary{
			User:          result.User,
			Records:       result.Records,
			Messages:      result.Stats.Messages,
			Notifications: stats.Notifications,
			Senders:       len(result.Senders),
			Words:         result.Stats.Words,
			Media:         result.Stats.Media,
			Links:         result.Stats.Links,
			Undated:       result.Undated,
		},
	}
}

// HasMessages returns true if the export contained any recognizable message.
func (r *Report) HasMessages() bool {
	return r.Summary.Records > 0
}
