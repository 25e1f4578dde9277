package detector

import "regexp"

// ExportFormat is a known layout of the message prefix in a chat export.
type ExportFormat struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string; group 1 is the timestamp
	Layouts    []string       // Go time layouts tried in order
	Examples   []string       // Example message prefixes
	Supported  bool           // True if the chat parser reads this format
	Ambiguous  bool           // True if day/month order cannot be told from the layout
}

// DefaultFormats returns the export prefix layouts to detect.
// The supported Android layout comes first so it wins ties.
func DefaultFormats() []*ExportFormat {
	formats := []*ExportFormat{
		{
			Name:       "Android 12-hour (D/M/YY)",
			PatternStr: `^(\d{1,2}/\d{1,2}/\d{2}, \d{1,2}:\d{2}\s?(?i:am|pm)) - `,
			Layouts:    []string{"2/1/06, 3:04 PM"},
			Examples:   []string{"13/02/23, 9:41 pm - ", "1/2/23, 3:04 AM - "},
			Supported:  true,
			Ambiguous:  true,
		},
		{
			Name:       "Android 12-hour (M/D/YY)",
			PatternStr: `^(\d{1,2}/\d{1,2}/\d{2}, \d{1,2}:\d{2}\s?(?i:am|pm)) - `,
			Layouts:    []string{"1/2/06, 3:04 PM"},
			Examples:   []string{"2/13/23, 9:41 PM - "},
			Ambiguous:  true,
		},
		{
			Name:       "Android 24-hour (D/M/YY)",
			PatternStr: `^(\d{1,2}/\d{1,2}/\d{2}, \d{1,2}:\d{2}) - `,
			Layouts:    []string{"2/1/06, 15:04"},
			Examples:   []string{"13/02/23, 21:41 - "},
		},
		{
			Name:       "Android 12-hour (D/M/YYYY)",
			PatternStr: `^(\d{1,2}/\d{1,2}/\d{4}, \d{1,2}:\d{2}\s?(?i:am|pm)) - `,
			Layouts:    []string{"2/1/2006, 3:04 PM", "1/2/2006, 3:04 PM"},
			Examples:   []string{"13/02/2023, 9:41 pm - "},
		},
		{
			Name:       "Android 24-hour (D/M/YYYY)",
			PatternStr: `^(\d{1,2}/\d{1,2}/\d{4}, \d{1,2}:\d{2}) - `,
			Layouts:    []string{"2/1/2006, 15:04", "1/2/2006, 15:04"},
			Examples:   []string{"13/02/2023, 21:41 - "},
		},
		{
			Name:       "Dotted 24-hour (D.M.YY)",
			PatternStr: `^(\d{1,2}\.\d{1,2}\.\d{2,4}, \d{1,2}:\d{2}) - `,
			Layouts:    []string{"2.1.06, 15:04", "2.1.2006, 15:04"},
			Examples:   []string{"13.02.23, 21:41 - "},
		},
		{
			Name:       "iOS bracketed",
			PatternStr: `^\[(\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}:\d{2}(?:\s?(?i:am|pm))?)\] `,
			Layouts: []string{
				"2/1/06, 15:04:05", "2/1/06, 3:04:05 PM",
				"2/1/2006, 15:04:05", "2/1/2006, 3:04:05 PM",
				"1/2/06, 3:04:05 PM", "1/2/2006, 3:04:05 PM",
			},
			Examples: []string{"[13/02/23, 21:41:07] ", "[2/13/23, 9:41:07 PM] "},
		},
	}

	// Compile all patterns
	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}
