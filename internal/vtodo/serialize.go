package vtodo

import (
	"strings"

	"todocal/internal/models"
)

// Serialize renders todos as complete calendar text: a fixed VCALENDAR
// envelope with one VTODO block per record, CRLF line endings throughout.
// It always produces a structurally valid file; date fields that cannot be
// encoded are omitted rather than written malformed. DTSTAMP is set to the
// current time on every call, so it marks when the file was written, not
// when the record was created.
func (c *Codec) Serialize(todos []models.Todo) string {
	var b strings.Builder

	writeLine(&b, beginCalendar)
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+prodID)
	writeLine(&b, "CALSCALE:GREGORIAN")

	for _, todo := range todos {
		c.writeTodo(&b, todo)
	}

	writeLine(&b, endCalendar)
	return b.String()
}

func (c *Codec) writeTodo(b *strings.Builder, todo models.Todo) {
	writeLine(b, beginTodo)
	writeLine(b, "UID:"+todo.ID)
	writeLine(b, "SUMMARY:"+Escape(todo.Title))

	if todo.Description != "" {
		writeLine(b, "DESCRIPTION:"+Escape(todo.Description))
	}

	if todo.Completed {
		writeLine(b, "STATUS:"+statusCompleted)
	} else {
		writeLine(b, "STATUS:"+statusNeedsAction)
	}

	writeLine(b, "PRIORITY:"+priorityToScale(todo.Priority))

	if todo.Category != "" {
		writeLine(b, "CATEGORIES:"+Escape(todo.Category))
	}

	if todo.DueDate != "" {
		if d, ok := encodeDate(todo.DueDate); ok {
			writeLine(b, "DUE:"+d)
		}
	}
	if todo.CreatedAt != "" {
		if d, ok := encodeDateTime(todo.CreatedAt); ok {
			writeLine(b, "CREATED:"+d)
		} else {
			c.logger.Debug("skipping unencodable creation time", "id", todo.ID, "value", todo.CreatedAt)
		}
	}

	writeLine(b, "DTSTAMP:"+c.now().UTC().Format(compactDateTime))
	writeLine(b, endTodo)
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString(crlf)
}
