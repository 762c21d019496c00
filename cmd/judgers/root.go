package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/judgers-dev/judgers/infrastructure/middleware"
	"github.com/judgers-dev/judgers/infrastructure/storage"
	"github.com/judgers-dev/judgers/internal/application"
	"github.com/judgers-dev/judgers/internal/logging"
)

// cli holds the state shared by every subcommand.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath  string
	logLevel    string
	logJSON     bool
	metricsFile string

	logger  *zap.Logger
	metrics *middleware.PrometheusMetrics
	svc     *application.Service
	cfg     *application.RunConfig
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "judgers",
		Short:         "Allocate judges to projects and score their rankings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "run configuration file (YAML)")
	flags.StringVar(&c.logLevel, "log-level", logging.INFO, "log level: debug, info, warn or error")
	flags.BoolVar(&c.logJSON, "log-json", false, "emit logs as JSON")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.allocateCommand(), c.scoreCommand(), c.spreadsheetCommand())
	return root
}

// setup builds the logger, metrics, storage, and service, then loads the
// run configuration.
func (c *cli) setup(ctx context.Context) error {
	logger, err := logging.New(c.logLevel, c.logJSON)
	if err != nil {
		return err
	}
	c.logger = logger
	c.metrics = middleware.NewPrometheusMetrics()

	store := storage.New()
	c.svc, err = application.NewService(store,
		application.WithLogger(logger),
		application.WithMetrics(c.metrics),
		application.WithStdout(c.stdout),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	c.cfg, err = application.LoadConfig(ctx, store, c.configPath)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", zap.String("config", c.configPath))
	return nil
}

// finish flushes logs and writes the metrics file when requested.
func (c *cli) finish() error {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if c.metricsFile == "" || c.metrics == nil {
		return nil
	}
	return c.metrics.WriteToFile(c.metricsFile)
}

// changed reports whether the named flag was set on the command line.
func changed(flags *pflag.FlagSet, name string) bool {
	return flags.Changed(name)
}
