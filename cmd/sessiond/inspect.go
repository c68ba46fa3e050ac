package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dmitrymomot/plugsession/pkg/session"
)

var (
	errRecordNotFound = errors.New("sessiond.record_not_found")
	errPathNotFound   = errors.New("sessiond.path_not_found")
)

// inspection is the JSON shape printed by inspect.
type inspection struct {
	ID      string         `json:"id"`
	Created time.Time      `json:"created"`
	Renewed time.Time      `json:"renewed"`
	State   map[string]any `json:"state"`
}

func newInspectCommand(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "inspect <session-id>",
		Short: "Print a stored session record as JSON",
		Long: `Load a record from the configured backend, verify its signature with
SESSION_SECRET and print it as JSON. --path selects a value with gjson
syntax, for example "state.user.name" or "state.cart.#".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := session.ValidateKey(id); err != nil {
				return err
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

			data, err := backend.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			if data == nil {
				return fmt.Errorf("%w: %s", errRecordNotFound, id)
			}
			rec, err := m.DecodeRecord(data)
			if err != nil {
				return err
			}

			out, err := json.Marshal(inspection{
				ID:      id,
				Created: rec.Created.UTC(),
				Renewed: rec.Renewed.UTC(),
				State:   rec.State,
			})
			if err != nil {
				return err
			}

			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			res := gjson.GetBytes(out, path)
			if !res.Exists() {
				return fmt.Errorf("%w: %s", errPathNotFound, path)
			}
			if res.Type == gjson.JSON {
				fmt.Fprintln(cmd.OutOrStdout(), res.Raw)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), res.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "gjson path to print instead of the whole record")

	return cmd
}
