package main

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/plugsession/pkg/config"
	"github.com/dmitrymomot/plugsession/pkg/logger"
	"github.com/dmitrymomot/plugsession/pkg/mongo"
	"github.com/dmitrymomot/plugsession/pkg/pg"
	"github.com/dmitrymomot/plugsession/pkg/redis"
	"github.com/dmitrymomot/plugsession/pkg/requestid"
	"github.com/dmitrymomot/plugsession/pkg/s3"
	"github.com/dmitrymomot/plugsession/pkg/session"
)

// app carries what every subcommand shares.
type app struct {
	log      *slog.Logger
	prom     *prometheus.Registry
	metrics  *session.Metrics
	registry *session.Registry
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "sessiond",
		Short:        "Serve and administer plugsession session storage",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			return a.setup(cmd, envFile)
		},
	}
	root.PersistentFlags().String("env-file", "", "load environment variables from this file before reading configuration")

	root.AddCommand(
		newServeCommand(a),
		newInspectCommand(a),
		newPurgeCommand(a),
		newBackendsCommand(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command, envFile string) error {
	if envFile != "" {
		if err := config.LoadEnv(envFile); err != nil {
			return err
		}
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	log, err := logger.NewFromConfig(logCfg,
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextExtractors(requestid.LogExtractor()),
	)
	if err != nil {
		return err
	}

	a.log = log
	a.prom = prometheus.NewRegistry()
	a.metrics, err = session.NewMetrics(a.prom)
	if err != nil {
		return err
	}
	a.registry = newRegistry(log, a.metrics)
	return nil
}

// newRegistry returns the built-in backends plus the networked ones.
func newRegistry(log *slog.Logger, metrics *session.Metrics) *session.Registry {
	reg := session.NewRegistry(log, session.WithRegistryMetrics(metrics))
	reg.Register("redis", redis.Factory)
	reg.Register("postgres", pg.Factory)
	reg.Register("mongo", mongo.Factory)
	reg.Register("s3", s3.Factory)
	return reg
}

func (a *app) sessionConfig() (session.Config, error) {
	var cfg session.Config
	if err := config.Load(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// backend builds the configured storage backend.
func (a *app) backend(ctx context.Context, cfg session.Config) (session.Backend, error) {
	spec, err := session.SpecFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	b, err := a.registry.Build(ctx, spec)
	if err != nil {
		return nil, err
	}
	a.log.InfoContext(ctx, "session backend ready", logger.Backend(spec.Name))
	return b, nil
}
