package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"todocal/internal/models"
	"todocal/internal/store"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "todocal",
		Usage: "Manage todos stored as VTODO records in local .ics calendar files.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Calendars directory. Discovered automatically if empty.",
				EnvVars: []string{"TODOCAL_DIR"},
			},
		},
		Commands: []*cli.Command{
			pathCommand(),
			listCommand(),
			showCommand(),
			addCommand(),
			doneCommand(),
			checkCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func pathCommand() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Print the calendars directory.",
		Action: func(c *cli.Context) error {
			s, err := newStore(c)
			if err != nil {
				return err
			}
			fmt.Println(s.Dir())
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List calendar files with their todo counts, newest first.",
		Action: func(c *cli.Context) error {
			s, err := newStore(c)
			if err != nil {
				return err
			}
			calendars, err := s.ListCalendars()
			if err != nil {
				return err
			}
			if len(calendars) == 0 {
				fmt.Println("No calendar files found.")
				return nil
			}
			for _, cal := range calendars {
				fmt.Printf("%-20s %3d todos  %s\n", cal.Name, cal.TodoCount, cal.LastModified.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the todos in a calendar.",
		ArgsUsage: "<calendar>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print todos as JSON."},
		},
		Action: func(c *cli.Context) error {
			name, err := calendarArg(c)
			if err != nil {
				return err
			}
			s, err := newStore(c)
			if err != nil {
				return err
			}
			todos, err := s.LoadTodos(name)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				data, err := json.MarshalIndent(todos, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal todos: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			for _, todo := range todos {
				printTodo(todo)
			}
			return nil
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a todo to a calendar, creating the calendar file if needed.",
		ArgsUsage: "<calendar> <title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "desc", Usage: "Description text."},
			&cli.StringFlag{Name: "priority", Value: models.PriorityMedium, Usage: "Priority: high, medium or low."},
			&cli.StringFlag{Name: "category", Usage: "Category label."},
			&cli.StringFlag{Name: "due", Usage: "Due date as YYYY-MM-DD."},
		},
		Action: func(c *cli.Context) error {
			name, err := calendarArg(c)
			if err != nil {
				return err
			}
			title := strings.TrimSpace(c.Args().Get(1))
			if title == "" {
				return fmt.Errorf("a todo title is required")
			}

			switch c.String("priority") {
			case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
			default:
				return fmt.Errorf("invalid priority %q: must be high, medium or low", c.String("priority"))
			}
			if due := c.String("due"); due != "" {
				if _, err := time.Parse("2006-01-02", due); err != nil {
					return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", due)
				}
			}

			s, err := newStore(c)
			if err != nil {
				return err
			}

			todos, err := s.LoadTodos(name)
			if err != nil {
				// A calendar that doesn't exist yet starts empty.
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				todos = nil
			}

			todo := models.Todo{
				ID:           uuid.NewString(),
				Title:        title,
				Description:  c.String("desc"),
				Priority:     c.String("priority"),
				Category:     c.String("category"),
				DueDate:      c.String("due"),
				CreatedAt:    time.Now().UTC().Format("2006-01-02T15:04:05"),
				CalendarName: name,
			}
			todos = append(todos, todo)

			if err := s.SaveTodos(name, todos); err != nil {
				return err
			}
			fmt.Printf("Added %q to %s (%s)\n", todo.Title, name, todo.ID)
			return nil
		},
	}
}

func doneCommand() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Mark a todo as completed.",
		ArgsUsage: "<calendar> <id>",
		Action: func(c *cli.Context) error {
			name, err := calendarArg(c)
			if err != nil {
				return err
			}
			id := c.Args().Get(1)
			if id == "" {
				return fmt.Errorf("a todo id is required")
			}

			s, err := newStore(c)
			if err != nil {
				return err
			}
			todos, err := s.LoadTodos(name)
			if err != nil {
				return err
			}

			found := false
			for i := range todos {
				if todos[i].ID == id {
					todos[i].Completed = true
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("no todo with id %s in calendar %s", id, name)
			}

			if err := s.SaveTodos(name, todos); err != nil {
				return err
			}
			fmt.Printf("Completed %s in %s\n", id, name)
			return nil
		},
	}
}

// checkCommand runs a strict RFC 5545 parse over a calendar file. The core
// codec is deliberately lenient, so this is the place to find out whether a
// file would also be accepted by other iCalendar software.
func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Strictly validate a calendar file against RFC 5545.",
		ArgsUsage: "<calendar>",
		Action: func(c *cli.Context) error {
			name, err := calendarArg(c)
			if err != nil {
				return err
			}
			s, err := newStore(c)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(filepath.Join(s.Dir(), name+".ics"))
			if err != nil {
				return fmt.Errorf("failed to read calendar file: %w", err)
			}

			todoCount := 0
			otherCount := 0
			dec := ical.NewDecoder(strings.NewReader(string(data)))
			for {
				cal, err := dec.Decode()
				if err == io.EOF {
					break
				}
				if err != nil {
					return fmt.Errorf("strict parse failed: %w", err)
				}
				for _, child := range cal.Children {
					if child.Name == ical.CompToDo {
						todoCount++
					} else {
						otherCount++
					}
				}
			}

			fmt.Printf("%s.ics is valid iCalendar: %d VTODO, %d other components\n", name, todoCount, otherCount)
			return nil
		},
	}
}

func newStore(c *cli.Context) (*store.Store, error) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	return store.NewStore(setupLogger(logLevel), c.String("dir"))
}

func calendarArg(c *cli.Context) (string, error) {
	name := strings.TrimSpace(c.Args().First())
	if name == "" {
		return "", fmt.Errorf("a calendar name is required")
	}
	return strings.TrimSuffix(name, ".ics"), nil
}

func printTodo(todo models.Todo) {
	mark := " "
	if todo.Completed {
		mark = "x"
	}
	fmt.Printf("[%s] %s (%s)\n", mark, todo.Title, todo.Priority)
	if todo.Description != "" {
		fmt.Printf("      %s\n", todo.Description)
	}
	if todo.Category != "" {
		fmt.Printf("      category: %s\n", todo.Category)
	}
	if todo.DueDate != "" {
		fmt.Printf("      due: %s\n", todo.DueDate)
	}
	fmt.Printf("      id: %s\n", todo.ID)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
