package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jaekwang-park/todos/internal/config"
	"github.com/jaekwang-park/todos/internal/repository"
	"github.com/jaekwang-park/todos/internal/service"
)

type app struct {
	configPath string
	table      bool

	svc        *service.TaskService
	closeStore func() error
}

// newRootCmd builds the command tree. The store opened for a command stays
// open until runCommand closes it, whether or not the command failed.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "todoctl",
		Short:         "Manage to-do tasks directly in the configured store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_FILE"), "path to a TOML config file")
	root.PersistentFlags().BoolVar(&a.table, "table", false, "print a table instead of JSON lines")

	root.AddCommand(
		newListCmd(a),
		newExpiredCmd(a),
		newGetCmd(a),
		newAddCmd(a),
		newToggleCmd(a),
		newRemoveCmd(a),
	)
	return root, a
}

func runCommand(ctx context.Context, root *cobra.Command, a *app) error {
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close task store: %w", cerr)
	}
	return err
}

func (a *app) open(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))

	repo, closeStore, err := repository.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	a.svc = service.NewTaskService(repo)
	a.closeStore = closeStore
	return nil
}

func (a *app) close() error {
	if a.closeStore == nil {
		return nil
	}
	err := a.closeStore()
	a.closeStore = nil
	return err
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}
