package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/plugsession/pkg/logger"
	"github.com/dmitrymomot/plugsession/pkg/session"
)

func newPurgeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <session-id>...",
		Short: "Delete stored session records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := session.ValidateKey(id); err != nil {
					return err
				}
			}

			cfg, err := a.sessionConfig()
			if err != nil {
				return err
			}
			backend, err := a.backend(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			for _, id := range args {
				if err := backend.Clear(cmd.Context(), id); err != nil {
					return fmt.Errorf("purge %s: %w", id, err)
				}
				a.log.InfoContext(cmd.Context(), "session purged", logger.SessionID(id))
				fmt.Fprintln(cmd.OutOrStdout(), "purged", id)
			}
			return nil
		},
	}
}
