package parser

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `Messages and calls are end-to-end encrypted. No one outside of this chat can read them.
1/2/23, 3:04 pm - Alice created group "Weekend"
1/2/23, 3:04 pm - Alice: hello there
1/2/23, 3:05 pm - Bob: hey! see https://example.com
and this line continues the message
6/2/23, 11:59 PM - Alice: <Media omitted>
6/2/23, 12:01 am - Bob added Carol
31/2/23, 1:00 pm - Carol: broken date
`

func TestParse_SingleMessage(t *testing.T) {
	msgs := Parse("1/2/23, 3:04 pm - Alice: hello there")

	require.Len(t, msgs, 1)
	m := msgs[0]
	assert.Equal(t, "Alice", m.Sender)
	assert.Equal(t, "hello there", m.Text)
	require.NotNil(t, m.Timestamp)
	require.NotNil(t, m.Timing)
	assert.Equal(t, time.Date(2023, 2, 1, 15, 4, 0, 0, time.UTC), *m.Timestamp)
	assert.Equal(t, 15, m.Timing.Hour)
	assert.Equal(t, 4, m.Timing.Minute)
	assert.Equal(t, "15-16", m.Timing.Period)
	assert.Equal(t, "2023-02-01", m.Timing.OnlyDate)
	assert.Equal(t, "Wednesday", m.Timing.DayName)
	assert.Equal(t, "February", m.Timing.Month)
}

func TestParse_SystemLine(t *testing.T) {
	msgs := Parse("1/2/23, 3:04 pm - Alice added Bob")

	require.Len(t, msgs, 1)
	assert.Equal(t, GroupNotification, msgs[0].Sender)
	assert.Equal(t, "Alice added Bob", msgs[0].Text)
	assert.True(t, msgs[0].IsNotification())
}

func TestParse_NoTimestamps(t *testing.T) {
	inputs := []string{
		"",
		"just some text",
		"Alice: hello\nBob: hi",
		"2023-02-01 15:04 - Alice: iso dates are not supported",
	}

	for _, in := range inputs {
		msgs := Parse(in)
		assert.NotNil(t, msgs, "input %q", in)
		assert.Empty(t, msgs, "input %q", in)
	}
}

func TestParse_Export(t *testing.T) {
	msgs, stats := New().ParseWithStats(sampleExport)

	require.Len(t, msgs, 6)

	senders := make([]string, len(msgs))
	for i, m := range msgs {
		senders[i] = m.Sender
	}
	assert.Equal(t, []string{GroupNotification, "Alice", "Bob", "Alice", GroupNotification, "Carol"}, senders)

	assert.Equal(t, "hey! see https://example.com\nand this line continues the message", msgs[2].Text)
	assert.Equal(t, "<Media omitted>", msgs[3].Text)
	assert.Equal(t, "23-00", msgs[3].Timing.Period)
	assert.Equal(t, "Monday", msgs[3].Timing.DayName)
	assert.Equal(t, "00-1", msgs[4].Timing.Period)

	assert.Nil(t, msgs[5].Timestamp)
	assert.Nil(t, msgs[5].Timing)
	assert.Equal(t, "broken date", msgs[5].Text)

	assert.Equal(t, 6, stats.Messages)
	assert.Equal(t, 2, stats.Notifications)
	assert.Equal(t, 1, stats.InvalidTimestamps)
	assert.Equal(t, strings.Index(sampleExport, "1/2/23"), stats.PreambleBytes)
}

func TestParse_FirstSeparatorWins(t *testing.T) {
	msgs := Parse("1/2/23, 3:04 pm - Alice: note: remember the milk")

	require.Len(t, msgs, 1)
	assert.Equal(t, "Alice", msgs[0].Sender)
	assert.Equal(t, "note: remember the milk", msgs[0].Text)
}

func TestParse_ColonWithoutSpaceIsNotSeparator(t *testing.T) {
	msgs := Parse("1/2/23, 3:04 pm - Alice changed the subject to \"12:30 lunch\"")

	require.Len(t, msgs, 1)
	assert.Equal(t, GroupNotification, msgs[0].Sender)
}

func TestParse_SenderWithColonIsKnownLimitation(t *testing.T) {
	msgs := Parse("1/2/23, 3:04 pm - Dr: Who: hello")

	require.Len(t, msgs, 1)
	assert.Equal(t, "Dr", msgs[0].Sender)
	assert.Equal(t, "Who: hello", msgs[0].Text)
}

func TestParse_InvalidTimestampKeepsRecord(t *testing.T) {
	msgs := Parse("1/2/2023, 3:04 pm - Alice: four digit year\n1/2/23, 15:04 - Bob: no marker")

	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Nil(t, m.Timestamp)
		assert.Nil(t, m.Timing)
	}
	assert.Equal(t, "Alice", msgs[0].Sender)
	assert.Equal(t, "no marker", msgs[1].Text)
}

func TestParse_PatternAnchoredAtLineStart(t *testing.T) {
	msgs := Parse("1/2/23, 3:04 pm - Alice: see you at 2/2/23, 4:00 pm - ok?")

	require.Len(t, msgs, 1)
	assert.Equal(t, "see you at 2/2/23, 4:00 pm - ok?", msgs[0].Text)
}

func TestParse_NormalizesExportArtifacts(t *testing.T) {
	raw := "\ufeff1/2/23, 3:04 pm - Alice: hi\r\n1/2/23, 3:05\u202fPM - Bob: yo\r\n"
	msgs := Parse(raw)

	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Text)
	require.NotNil(t, msgs[1].Timestamp)
	assert.Equal(t, 15, msgs[1].Timing.Hour)
}

func TestParse_PreservesOrder(t *testing.T) {
	raw := "5/2/23, 9:00 am - Bob: later\n1/2/23, 9:00 am - Alice: earlier\n"
	msgs := Parse(raw)

	require.Len(t, msgs, 2)
	assert.Equal(t, "Bob", msgs[0].Sender)
	assert.Equal(t, "Alice", msgs[1].Sender)
}

func TestParser_LogsInvalidTimestamps(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	New(WithLogger(logger)).Parse("1/2/2023, 3:04 pm - Alice: hi")

	assert.Contains(t, buf.String(), "unparseable message timestamp")
}

func TestSplitSender(t *testing.T) {
	tests := []struct {
		body       string
		wantSender string
		wantText   string
	}{
		{"Alice: hi", "Alice", "hi"},
		{"  Alice :  spaced  \n", "Alice", "spaced"},
		{"Alice left", GroupNotification, "Alice left"},
		{": leading: separator", ": leading", "separator"},
		{"", GroupNotification, ""},
		{"Alice: ", "Alice", ""},
	}

	for _, tt := range tests {
		sender, text := splitSender(tt.body)
		assert.Equal(t, tt.wantSender, sender, "body %q", tt.body)
		assert.Equal(t, tt.wantText, text, "body %q", tt.body)
	}
}

func TestSenders(t *testing.T) {
	msgs := Parse(sampleExport)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, Senders(msgs))
	assert.Empty(t, Senders(nil))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleExport, text)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestRead_TooLarge(t *testing.T) {
	r := strings.NewReader(strings.Repeat("x", MaxExportSize+1))

	_, err := Read(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))
}
