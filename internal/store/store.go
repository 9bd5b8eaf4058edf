// Package store locates the calendars directory on disk and reads and
// writes the .ics files inside it. All format concerns live in
// internal/vtodo; this package only moves bytes and metadata.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"todocal/internal/models"
	"todocal/internal/vtodo"
)

const calendarsDirName = "calendars"

// Store provides access to the calendar files in one directory.
type Store struct {
	logger *slog.Logger
	codec  *vtodo.Codec
	dir    string
}

// NewStore creates a Store rooted at dir. If dir is empty the calendars
// directory is discovered by walking up from the executable, creating one
// next to the executable as a last resort.
func NewStore(logger *slog.Logger, dir string) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if dir == "" {
		found, err := findCalendarsDir(logger)
		if err != nil {
			return nil, fmt.Errorf("failed to locate calendars directory: %w", err)
		}
		dir = found
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access calendars directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("calendars path %s is not a directory", dir)
	}

	return &Store{
		logger: logger,
		codec:  vtodo.NewCodec(logger),
		dir:    dir,
	}, nil
}

// Dir returns the calendars directory this store operates on.
func (s *Store) Dir() string {
	return s.dir
}

// ListCalendars enumerates the .ics files in the calendars directory,
// newest first. The todo count is the lenient begin-marker count, so it may
// exceed what LoadTodos returns for a truncated file.
func (s *Store) ListCalendars() ([]models.CalendarFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendars directory: %w", err)
	}

	var calendars []models.CalendarFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".ics") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to read file metadata: %w", err)
		}

		count := 0
		if data, err := os.ReadFile(path); err == nil {
			count = vtodo.Count(string(data))
		} else {
			s.logger.Warn("could not count todos", "path", path, "error", err)
		}

		calendars = append(calendars, models.CalendarFile{
			Name:         calendarName(entry.Name()),
			Path:         path,
			LastModified: info.ModTime(),
			TodoCount:    count,
		})
	}

	sort.Slice(calendars, func(i, j int) bool {
		return calendars[i].LastModified.After(calendars[j].LastModified)
	})

	return calendars, nil
}

// LoadTodos reads and parses one calendar file by name (file stem).
func (s *Store) LoadTodos(name string) ([]models.Todo, error) {
	path := s.pathFor(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}

	todos := s.codec.Parse(string(data), name)
	s.logger.Info("loaded calendar", "calendar", name, "todos", len(todos))
	return todos, nil
}

// SaveTodos serializes todos and writes them to the named calendar file,
// creating it if necessary.
func (s *Store) SaveTodos(name string, todos []models.Todo) error {
	content := s.codec.Serialize(todos)
	if err := os.WriteFile(s.pathFor(name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write calendar file: %w", err)
	}
	s.logger.Info("saved calendar", "calendar", name, "todos", len(todos), "bytes", len(content))
	return nil
}

func (s *Store) pathFor(name string) string {
	return filepath.Join(s.dir, name+".ics")
}

func calendarName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// findCalendarsDir walks up the directory tree from the executable looking
// for a calendars directory that already holds .ics files. The tool is
// meant to run from a portable directory (e.g. a USB stick), so the data
// lives next to the binary rather than under the user's home.
func findCalendarsDir(logger *slog.Logger) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	exeDir := filepath.Dir(exe)

	for dir := exeDir; ; {
		candidate := filepath.Join(dir, calendarsDirName)
		if hasICSFiles(candidate) {
			logger.Debug("found calendars directory", "dir", candidate)
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Nothing found anywhere up the tree: create next to the executable.
	fallback := filepath.Join(exeDir, calendarsDirName)
	if err := os.MkdirAll(fallback, 0o755); err != nil {
		return "", fmt.Errorf("failed to create calendars directory: %w", err)
	}
	logger.Info("created calendars directory", "dir", fallback)
	return fallback, nil
}

// hasICSFiles reports whether dir exists and contains at least one .ics file.
func hasICSFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".ics") {
			return true
		}
	}
	return false
}
