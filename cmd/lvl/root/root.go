package root

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"levelup/internal/config"
	"levelup/internal/logging"
	"levelup/internal/ui"
)

const Version = "0.1.0"

var (
	cfg    = config.Default()
	logger = zap.NewNop()

	flagDB       string
	flagUser     string
	flagLogLevel string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lvl",
		Short:         "levelup: earn XP for finishing tasks",
		Long:          "levelup is a local-first task tracker that awards XP for completed daily tasks, calendar events and task cards, and derives a level from the running total.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default ~/.levelup.db)")
	cmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User whose XP and tasks are used")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(
		newAddCmd(),
		newDoCmd(),
		newFocusCmd(),
		newUndoCmd(),
		newListCmd(),
		newStatusCmd(),
		newStatsCmd(),
		newCurveCmd(),
		newPruneCmd(),
		newBoardCmd(),
	)
	return cmd
}

// setup resolves configuration (file, env, then flags) and builds the logger.
func setup(cmd *cobra.Command) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		loaded.DBPath = flagDB
	}
	if cmd.Flags().Changed("user") {
		loaded.User = flagUser
	}
	if cmd.Flags().Changed("log-level") {
		loaded.LogLevel = flagLogLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logging.New(loaded.LogLevel, loaded.LogFormat)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = l
	logger.Debug("config loaded", zap.String("path", path), zap.String("user", cfg.User))
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		stop()
		os.Exit(1)
	}
}
