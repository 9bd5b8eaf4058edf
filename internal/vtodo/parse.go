package vtodo

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"todocal/internal/models"
)

// propKind enumerates the recognized VTODO properties. Keeping the dispatch
// in one table makes the per-line rule set reviewable in one place.
type propKind int

const (
	propUnknown propKind = iota
	propUID
	propSummary
	propDescription
	propStatus
	propPriority
	propCategories
	propDue
	propCreated
	propDTStamp
)

var propKinds = map[string]propKind{
	"UID":         propUID,
	"SUMMARY":     propSummary,
	"DESCRIPTION": propDescription,
	"STATUS":      propStatus,
	"PRIORITY":    propPriority,
	"CATEGORIES":  propCategories,
	"DUE":         propDue,
	"CREATED":     propCreated,
	"DTSTAMP":     propDTStamp,
}

// parseBlock converts the property lines of one VTODO block into a todo
// record. It never fails: unknown properties are skipped, unparseable
// values are dropped, and a missing UID or SUMMARY is filled in afterwards.
// CREATED and DTSTAMP both write CreatedAt; the line seen later wins.
func (c *Codec) parseBlock(lines []string, calendarName string) models.Todo {
	todo := models.Todo{
		Priority:     models.PriorityMedium,
		CalendarName: calendarName,
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		// Parameters after the first ';' (e.g. DUE;VALUE=DATE) are ignored.
		if base, _, found := strings.Cut(name, ";"); found {
			name = base
		}

		switch propKinds[name] {
		case propUID:
			todo.ID = value
		case propSummary:
			todo.Title = Unescape(value)
		case propDescription:
			todo.Description = Unescape(value)
		case propStatus:
			todo.Completed = value == statusCompleted
		case propPriority:
			todo.Priority = priorityFromScale(value)
		case propCategories:
			todo.Category = Unescape(value)
		case propDue:
			if d, ok := decodeDate(value); ok {
				todo.DueDate = d
			}
		case propCreated, propDTStamp:
			if d, ok := decodeDateTime(value); ok {
				todo.CreatedAt = d
			} else {
				c.logger.Debug("skipping unparseable timestamp", "property", name, "value", value)
			}
		}
	}

	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}
	if todo.Title == "" {
		todo.Title = defaultTitle
	}
	return todo
}

// priorityFromScale buckets the iCalendar 1-9 priority scale: 1-3 high,
// 4-6 medium, 7-9 low. Anything else, including a missing or non-numeric
// value, is medium.
func priorityFromScale(v string) string {
	n, err := strconv.Atoi(v)
	if err != nil {
		return models.PriorityMedium
	}
	switch {
	case n >= 1 && n <= 3:
		return models.PriorityHigh
	case n >= 7 && n <= 9:
		return models.PriorityLow
	case n >= 4 && n <= 6:
		return models.PriorityMedium
	}
	return models.PriorityMedium
}

// priorityToScale is the reverse mapping used when serializing. Medium is
// the fallback for any unrecognized priority string.
func priorityToScale(priority string) string {
	switch priority {
	case models.PriorityHigh:
		return "1"
	case models.PriorityLow:
		return "9"
	}
	return "5"
}
