package analyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// FetchStats counts messages, words, media placeholders and links for a
// user. For Overall, group notifications are included in the counts.
func (a *Analyzer) FetchStats(user string, msgs []parser.Message) Stats {
	var s Stats
	for _, m := range Scope(user, msgs) {
		s.Messages++
		s.Words += len(strings.Fields(m.Text))
		if m.Text == a.mediaPlaceholder {
			s.Media++
		}
		s.Links += len(a.urls.FindAllString(m.Text, -1))
	}
	return s
}

// MostBusyUsers ranks authors by message count, ignoring group
// notifications. Ties keep the order in which senders first appear.
func (a *Analyzer) MostBusyUsers(msgs []parser.Message) BusyUsers {
	counts := countSenders(msgs)

	total := 0
	for _, c := range counts {
		total += c.Count
	}

	top := counts
	if len(top) > a.topUsers {
		top = top[:a.topUsers]
	}

	shares := make([]SenderShare, len(counts))
	for i, c := range counts {
		shares[i] = SenderShare{
			Sender:  c.Sender,
			Percent: round2(float64(c.Count) * 100 / float64(total)),
		}
	}

	return BusyUsers{
		Top:    append([]SenderCount(nil), top...),
		Shares: shares,
	}
}

// countSenders returns per-sender counts, most active first.
func countSenders(msgs []parser.Message) []SenderCount {
	index := make(map[string]int)
	counts := make([]SenderCount, 0)
	for i := range msgs {
		sender := msgs[i].Sender
		if sender == parser.GroupNotification {
			continue
		}
		if j, ok := index[sender]; ok {
			counts[j].Count++
			continue
		}
		index[sender] = len(counts)
		counts = append(counts, SenderCount{Sender: sender, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
