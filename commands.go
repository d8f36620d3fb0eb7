package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"todolist/internal/config"
	"todolist/internal/handlers"
	"todolist/internal/models"
	"todolist/internal/store"
	"todolist/internal/todo"
	"todolist/internal/tui"
	"todolist/internal/view"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "todo",
		Short:         "A local task list",
		Long:          `Add, complete, delete and filter short tasks. The list is kept in local storage between sessions.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (default $TODO_CONFIG)")

	open := func(cmd *cobra.Command) (*session, error) {
		return openSession(cmd.Context(), configPath)
	}

	root.AddCommand(
		newAddCmd(open),
		newToggleCmd(open),
		newRemoveCmd(open),
		newClearCompletedCmd(open),
		newListCmd(open),
		newServeCmd(open),
		newTUICmd(open),
	)

	return root
}

// session is an opened task list and the store behind it.
type session struct {
	cfg   config.Config
	store store.Store
	list  *todo.List
}

type opener func(cmd *cobra.Command) (*session, error)

func openSession(ctx context.Context, configPath string) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(cfg.Storage.Backend, config.BackendSQLite) {
		// Ensure data directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s, err := store.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &session{cfg: cfg, store: s, list: todo.Open(ctx, s)}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// checkSaved turns a failed save into an error. One-shot commands exit right
// after the mutation, so an unsaved change would be lost silently.
func (s *session) checkSaved() error {
	if err := s.list.SaveErr(); err != nil {
		return fmt.Errorf("changes could not be saved: %w", err)
	}
	return nil
}

func newAddCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			task, ok := s.list.Add(cmd.Context(), strings.Join(args, " "))
			if !ok {
				return models.ErrEmptyText
			}
			if err := s.checkSaved(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Task created: %s\n", task.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "  Text: %s\n", task.Text)
			return nil
		},
	}
}

func newToggleCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed, or active again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.list.Toggle(cmd.Context(), args[0]) {
				return fmt.Errorf("task not found: %s", args[0])
			}
			if err := s.checkSaved(); err != nil {
				return err
			}

			for _, t := range s.list.Tasks() {
				if t.ID == args[0] {
					state := "active"
					if t.Completed {
						state = "completed"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Task %s is now %s\n", t.ID, state)
				}
			}
			return nil
		},
	}
}

func newRemoveCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.list.Remove(cmd.Context(), args[0]) {
				return fmt.Errorf("task not found: %s", args[0])
			}
			if err := s.checkSaved(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Task deleted: %s\n", args[0])
			return nil
		},
	}
}

func newClearCompletedCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n := s.list.ClearCompleted(cmd.Context())
			if err := s.checkSaved(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %d completed task(s)\n", n)
			return nil
		},
	}
}

func newListCmd(open opener) *cobra.Command {
	var filterName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  `List tasks newest first, optionally filtered to active or completed ones.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := models.ParseFilter(filterName)
			if err != nil {
				return err
			}

			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			printView(cmd, s.list.Project(filter))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filterName, "filter", "f", "all", "Which tasks to show: all, active or completed")

	return cmd
}

func printView(cmd *cobra.Command, v view.View) {
	out := cmd.OutOrStdout()

	if v.Empty() {
		fmt.Fprintln(out, view.EmptyMessage(v.EmptyState()))
	}
	for _, item := range v.Items {
		icon := "○"
		if item.Completed {
			icon = "✓"
		}
		fmt.Fprintf(out, "%s [%s] %s\n", icon, item.ID, item.Text)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, view.ActiveLabel(v.ActiveCount))
}

func newServeCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list on a local web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			tmpl, err := parseTemplates()
			if err != nil {
				return fmt.Errorf("failed to parse templates: %w", err)
			}

			h := handlers.New(s.list, tmpl)
			srv := &http.Server{
				Addr:              s.cfg.Addr,
				Handler:           h.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Starting server on http://%s", s.cfg.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			log.Printf("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newTUICmd(open opener) *cobra.Command {
	var logPath string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Manage tasks in an interactive terminal view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would corrupt the screen, so send them to a file.
			logFile, err := tea.LogToFile(logPath, "todo")
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()

			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return tui.Run(cmd.Context(), s.list)
		},
	}
	cmd.Flags().StringVar(&logPath, "log", filepath.Join(os.TempDir(), "todo-tui.log"), "Where to write log output while the TUI runs")

	return cmd
}
