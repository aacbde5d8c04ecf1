package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"task-registry/config"
	"task-registry/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCommand is the task-registry CLI
type RootCommand struct {
	cmd     *cobra.Command
	viper   *viper.Viper
	cfgFile string
	config  *config.Config
}

// NewRootCommand creates the root command. Running it without a subcommand serves the API.
func NewRootCommand() *RootCommand {
	root := &RootCommand{viper: viper.New()}

	root.cmd = &cobra.Command{
		Use:   "task-registry",
		Short: "In-memory task registry with an HTTP API",
		Long: `task-registry keeps a collection of tasks in memory and serves it over HTTP.

CONFIGURATION:
  Priority order: command-line flags > environment variables > config file > defaults

    PORT                 HTTP port (default: 8080)
    LOG_LEVEL            DEBUG, INFO, WARN or ERROR (default: INFO)
    SHUTDOWN_TIMEOUT     Graceful shutdown timeout (default: 15s)
    VERSION              Reported version (default: 1.0.0)
    EVENTS_ENABLED       Record task activity events (default: false)
    EVENTS_BACKEND       memory or redis (default: memory)
    REDIS_URL            Redis URL for the redis backend
    QUEUE_NAME           Redis list holding pending events (default: task-events)
    WORKER_COUNT         Event workers (default: 1)
    EVENT_BUFFER_SIZE    Memory queue capacity (default: 256)
    EVENT_HISTORY_SIZE   Events kept for GET /events (default: 100)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.serve()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()
	flags.StringVar(&r.cfgFile, "config", "", "Optional config file (yaml, json or toml)")
	flags.Int("port", 8080, "HTTP port (overrides PORT)")
	flags.String("log-level", "INFO", "Log level (overrides LOG_LEVEL)")

	// binding only fails for a nil flag
	_ = r.viper.BindPFlag("port", flags.Lookup("port"))
	_ = r.viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the task API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.serve()
		},
	})

	r.cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the configured version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "task-registry %s\n", r.config.Version)
			return err
		},
	})
}

func (r *RootCommand) loadConfig() error {
	cfg, err := config.Load(r.viper, r.cfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	r.config = cfg
	return nil
}

func (r *RootCommand) serve() error {
	lg := logger.New(r.config.LogLevel, os.Stdout)
	defer func() { _ = lg.Sync() }()

	lg.Info("Starting task registry", map[string]any{
		"version":        r.config.Version,
		"port":           r.config.ServerPort,
		"log_level":      lg.Level(),
		"events_enabled": r.config.Events.Enabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, r.config, lg)
}
