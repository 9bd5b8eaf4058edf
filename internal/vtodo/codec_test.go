package vtodo

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"todocal/internal/models"
)

func newTestCodec(now time.Time) *Codec {
	c := NewCodec(nil)
	c.now = func() time.Time { return now }
	return c
}

func parseOne(t *testing.T, lines ...string) models.Todo {
	t.Helper()
	raw := "BEGIN:VTODO\r\n" + strings.Join(lines, "\r\n") + "\r\nEND:VTODO\r\n"
	todos := NewCodec(nil).Parse(raw, "test")
	require.Len(t, todos, 1)
	return todos[0]
}

func TestParseBasicBlock(t *testing.T) {
	todo := parseOne(t,
		"UID:abc-1",
		"SUMMARY:Buy milk",
		"STATUS:NEEDS-ACTION",
		"PRIORITY:2",
		"DUE:20250615",
	)

	want := models.Todo{
		ID:           "abc-1",
		Title:        "Buy milk",
		Completed:    false,
		Priority:     models.PriorityHigh,
		DueDate:      "2025-06-15",
		CalendarName: "test",
	}
	if diff := cmp.Diff(want, todo); diff != "" {
		t.Error(diff)
	}
}

func TestParseDefaults(t *testing.T) {
	todo := parseOne(t, "STATUS:NEEDS-ACTION")

	require.NotEmpty(t, todo.ID)
	_, err := uuid.Parse(todo.ID)
	require.NoError(t, err, "synthesized id should be a UUID")
	require.Equal(t, defaultTitle, todo.Title)
	require.Equal(t, models.PriorityMedium, todo.Priority)
	require.False(t, todo.Completed)
}

func TestParseLastWriteWins(t *testing.T) {
	todo := parseOne(t,
		"UID:abc-1",
		"SUMMARY:Task",
		"CREATED:20250101T120000Z",
		"DTSTAMP:20250102T130000Z",
	)
	require.Equal(t, "2025-01-02T13:00:00", todo.CreatedAt)

	// Reverse order: CREATED wins because it comes later.
	todo = parseOne(t,
		"UID:abc-1",
		"SUMMARY:Task",
		"DTSTAMP:20250102T130000Z",
		"CREATED:20250101T120000Z",
	)
	require.Equal(t, "2025-01-01T12:00:00", todo.CreatedAt)
}

func TestParseUnparseableTimestampKeepsEarlierValue(t *testing.T) {
	todo := parseOne(t,
		"UID:abc-1",
		"CREATED:20250101T120000Z",
		"DTSTAMP:garbage",
	)
	require.Equal(t, "2025-01-01T12:00:00", todo.CreatedAt)
}

func TestParseStatus(t *testing.T) {
	require.True(t, parseOne(t, "STATUS:COMPLETED").Completed)
	require.False(t, parseOne(t, "STATUS:NEEDS-ACTION").Completed)
	require.False(t, parseOne(t, "STATUS:IN-PROCESS").Completed)
	require.False(t, parseOne(t, "STATUS:completed").Completed)
}

func TestParseParametersIgnored(t *testing.T) {
	todo := parseOne(t,
		"UID:abc-1",
		"DUE;VALUE=DATE:20250615",
		"SUMMARY;LANGUAGE=en:With params",
	)
	require.Equal(t, "2025-06-15", todo.DueDate)
	require.Equal(t, "With params", todo.Title)
}

func TestParseEscapedValues(t *testing.T) {
	todo := parseOne(t,
		"UID:abc-1",
		`SUMMARY:Call Bob\; bring milk\, then go`,
		`DESCRIPTION:line one\nline two`,
		`CATEGORIES:home\,garden`,
	)
	require.Equal(t, "Call Bob; bring milk, then go", todo.Title)
	require.Equal(t, "line one\nline two", todo.Description)
	require.Equal(t, "home,garden", todo.Category)
}

func TestParseMalformedLines(t *testing.T) {
	todo := parseOne(t,
		"",
		"no colon here",
		"X-UNKNOWN:ignored",
		"DUE:not-a-date",
		"UID:abc-1",
	)
	require.Equal(t, "abc-1", todo.ID)
	require.Equal(t, defaultTitle, todo.Title)
	require.Empty(t, todo.DueDate)
}

func TestPriorityBuckets(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", models.PriorityHigh},
		{"2", models.PriorityHigh},
		{"3", models.PriorityHigh},
		{"4", models.PriorityMedium},
		{"5", models.PriorityMedium},
		{"6", models.PriorityMedium},
		{"7", models.PriorityLow},
		{"8", models.PriorityLow},
		{"9", models.PriorityLow},
		{"", models.PriorityMedium},
		{"0", models.PriorityMedium},
		{"10", models.PriorityMedium},
		{"abc", models.PriorityMedium},
	}
	for _, test := range tests {
		require.Equal(t, test.want, priorityFromScale(test.input), "priorityFromScale(%q)", test.input)
	}
}

func TestParseEmptyText(t *testing.T) {
	todos := NewCodec(nil).Parse("", "empty")
	require.NotNil(t, todos)
	require.Empty(t, todos)
}

func TestSerialize(t *testing.T) {
	codec := newTestCodec(time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC))

	todos := []models.Todo{
		{
			ID:          "abc-1",
			Title:       "Buy milk",
			Description: "From the corner shop",
			Priority:    models.PriorityHigh,
			Category:    "errands; weekly",
			DueDate:     "2025-06-15",
			CreatedAt:   "2025-01-01T12:00:00",
		},
		{
			ID:        "xyz-2",
			Title:     "Water plants",
			Completed: true,
			Priority:  models.PriorityLow,
		},
	}

	want := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//todocal//todocal//EN",
		"CALSCALE:GREGORIAN",
		"BEGIN:VTODO",
		"UID:abc-1",
		"SUMMARY:Buy milk",
		"DESCRIPTION:From the corner shop",
		"STATUS:NEEDS-ACTION",
		"PRIORITY:1",
		`CATEGORIES:errands\; weekly`,
		"DUE:20250615",
		"CREATED:20250101T120000Z",
		"DTSTAMP:20250601T103000Z",
		"END:VTODO",
		"BEGIN:VTODO",
		"UID:xyz-2",
		"SUMMARY:Water plants",
		"STATUS:COMPLETED",
		"PRIORITY:9",
		"DTSTAMP:20250601T103000Z",
		"END:VTODO",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	if diff := cmp.Diff(want, codec.Serialize(todos)); diff != "" {
		t.Error(diff)
	}
}

func TestSerializeDropsBadDates(t *testing.T) {
	codec := newTestCodec(time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC))
	out := codec.Serialize([]models.Todo{{
		ID:        "abc-1",
		Title:     "Task",
		Priority:  models.PriorityMedium,
		DueDate:   "June 15th",
		CreatedAt: "whenever",
	}})

	require.NotContains(t, out, "DUE:")
	require.NotContains(t, out, "CREATED:")
	// The file stays structurally valid regardless.
	require.Contains(t, out, "BEGIN:VTODO\r\n")
	require.Contains(t, out, "END:VTODO\r\n")
}

func TestSerializeUnknownPriority(t *testing.T) {
	codec := newTestCodec(time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC))
	out := codec.Serialize([]models.Todo{{ID: "a", Title: "t", Priority: "urgent"}})
	require.Contains(t, out, "PRIORITY:5\r\n")
}

func TestSerializeEmptyList(t *testing.T) {
	out := NewCodec(nil).Serialize(nil)
	want := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + prodID + "\r\nCALSCALE:GREGORIAN\r\nEND:VCALENDAR\r\n"
	require.Equal(t, want, out)
}

// Serialize then parse reproduces every field except CreatedAt, which lands
// on the DTSTAMP freshness marker: DTSTAMP is emitted after CREATED and the
// parser is last-write-wins.
func TestRoundTrip(t *testing.T) {
	stamp := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	codec := newTestCodec(stamp)

	todos := []models.Todo{
		{
			ID:          "abc-1",
			Title:       "Call Bob; bring milk, then go",
			Description: "two\nlines",
			Priority:    models.PriorityHigh,
			Category:    "errands",
			DueDate:     "2025-06-15",
			CreatedAt:   "2025-01-01T12:00:00",
		},
		{
			ID:        "xyz-2",
			Title:     "Water plants",
			Completed: true,
			Priority:  models.PriorityLow,
		},
	}

	got := codec.Parse(codec.Serialize(todos), "personal")

	want := make([]models.Todo, len(todos))
	copy(want, todos)
	for i := range want {
		want[i].CalendarName = "personal"
		want[i].CreatedAt = stamp.Format(isoDateTime)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
}
