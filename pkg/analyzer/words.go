package analyzer

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// MostCommonWords returns the most frequent words a user wrote, excluding
// notifications, media placeholders and stop words. Ties keep the order in
// which words were first seen.
func (a *Analyzer) MostCommonWords(user string, msgs []parser.Message) []WordCount {
	counts := a.wordCounts(user, msgs)
	if len(counts) > a.topWords {
		counts = counts[:a.topWords]
	}
	return counts
}

// WordCloud returns the full word-frequency surface for a user, filtered
// like MostCommonWords but not truncated.
func (a *Analyzer) WordCloud(user string, msgs []parser.Message) WordCloud {
	counts := a.wordCounts(user, msgs)
	words := make([]CloudWord, len(counts))
	if len(counts) == 0 {
		return WordCloud{Words: words}
	}

	top := float64(counts[0].Count)
	for i, c := range counts {
		words[i] = CloudWord{
			Word:   c.Word,
			Count:  c.Count,
			Weight: float64(c.Count) / top,
		}
	}
	return WordCloud{Words: words}
}

// wordCounts tallies lower-cased whitespace tokens, most frequent first.
func (a *Analyzer) wordCounts(user string, msgs []parser.Message) []WordCount {
	lower := cases.Lower(language.Und)
	index := make(map[string]int)
	counts := make([]WordCount, 0)

	for _, m := range Scope(user, msgs) {
		if m.IsNotification() || m.Text == a.mediaPlaceholder {
			continue
		}
		for _, word := range strings.Fields(lower.String(m.Text)) {
			if _, stop := a.stopWords[word]; stop {
				continue
			}
			if j, ok := index[word]; ok {
				counts[j].Count++
				continue
			}
			index[word] = len(counts)
			counts = append(counts, WordCount{Word: word, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
