// Package vtodo converts between iCalendar text (a restricted VTODO subset
// of RFC 5545) and todo records. Parsing never fails: malformed blocks
// degrade to records with defaulted fields, and unparseable values are
// dropped rather than stored. Serialization always emits a structurally
// valid file.
package vtodo

import (
	"log/slog"
	"time"

	"todocal/internal/models"
)

const (
	beginCalendar = "BEGIN:VCALENDAR"
	endCalendar   = "END:VCALENDAR"
	beginTodo     = "BEGIN:VTODO"
	endTodo       = "END:VTODO"

	prodID = "-//todocal//todocal//EN"

	statusCompleted   = "COMPLETED"
	statusNeedsAction = "NEEDS-ACTION"

	// defaultTitle is assigned to records whose SUMMARY is absent or empty.
	defaultTitle = "Untitled Task"

	crlf = "\r\n"
)

// Codec converts between calendar text and todo records. It holds no state
// across calls; the logger is an optional observability hook.
type Codec struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewCodec creates a Codec. A nil logger disables diagnostics.
func NewCodec(logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Codec{logger: logger, now: time.Now}
}

// Parse converts raw calendar text into todo records, one per VTODO block.
// It never fails: blocks missing data yield records with defaulted fields,
// and text with no blocks yields an empty list. calendarName tags each
// record with its provenance; it is not part of the on-disk format.
func (c *Codec) Parse(raw, calendarName string) []models.Todo {
	todos := []models.Todo{}
	for block := range Blocks(raw) {
		todos = append(todos, c.parseBlock(block, calendarName))
	}
	c.logger.Debug("parsed calendar", "calendar", calendarName, "todos", len(todos))
	return todos
}
