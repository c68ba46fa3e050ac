package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/plugsession/pkg/config"
	"github.com/dmitrymomot/plugsession/pkg/httpserver"
	"github.com/dmitrymomot/plugsession/pkg/logger"
	"github.com/dmitrymomot/plugsession/pkg/session"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo HTTP application backed by the configured session store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var httpCfg httpserver.Config
			if err := config.Load(&httpCfg); err != nil {
				return err
			}
			if addr != "" {
				httpCfg.Addr = addr
			}

			cfg, err := a.sessionConfig()
			if err != nil {
				return err
			}
			backend, err := a.backend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			m, err := session.NewFromConfig(cfg, session.WithBackend(backend), session.WithLogger(a.log))
			if err != nil {
				return err
			}

			srv := httpserver.NewFromConfig(httpCfg,
				httpserver.WithLogger(a.log),
				httpserver.WithStartHook(func(addr string) {
					a.log.Info("sessiond listening", slog.String("addr", addr), logger.Backend(cfg.Backend))
				}),
			)
			return srv.Run(cmd.Context(), newRouter(a, m, backendCheck(backend)))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")

	return cmd
}

// probeID is a well-formed identifier that is never issued.
var probeID = strings.Repeat("0", 40)

// backendCheck reports the backend ready when a lookup completes without an
// I/O error; a miss is fine.
func backendCheck(b session.Backend) httpserver.Check {
	return func(ctx context.Context) error {
		_, err := b.Load(ctx, probeID)
		return err
	}
}
