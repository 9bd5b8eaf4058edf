package models

import "time"

// Priority levels for a todo. The iCalendar PRIORITY scale (1-9) is
// collapsed into these three buckets at parse time.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Todo represents a single task record.
// This is an internal representation, independent of the on-disk iCalendar format.
type Todo struct {
	ID           string `json:"id"`                     // Unique identifier (the VTODO UID)
	Title        string `json:"title"`                  // Summary or title of the task
	Description  string `json:"description"`            // Detailed description of the task
	Completed    bool   `json:"completed"`              // Derived from STATUS:COMPLETED
	Priority     string `json:"priority"`               // One of PriorityHigh/PriorityMedium/PriorityLow
	Category     string `json:"category,omitempty"`     // Optional category label
	DueDate      string `json:"dueDate,omitempty"`      // ISO date (2006-01-02), empty if unset
	CreatedAt    string `json:"createdAt,omitempty"`    // ISO date or date-time, empty if unset
	CalendarName string `json:"calendarName,omitempty"` // Which calendar file this came from
}

// CalendarFile describes one calendar file on disk.
type CalendarFile struct {
	Name         string    `json:"name"`         // File name without the .ics extension
	Path         string    `json:"path"`         // Absolute path to the file
	LastModified time.Time `json:"lastModified"` // Modification time of the file
	TodoCount    int       `json:"todoCount"`    // Number of VTODO records in the file
}
