package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"nadcal/internal/workspace"
)

func newSessionsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List sessions with a file store in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := c.config()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if backend := cfg.Store.Backend; backend != "" && backend != "file" {
				fmt.Fprintln(out, yellow(fmt.Sprintf("session listing supports the file backend only (store.backend is %s)", backend)))
				return nil
			}
			ids, err := workspace.ListSessions(cfg.Store.Dir)
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			if err != nil {
				return err
			}
			settings, err := workspace.LoadSettings(root)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if id == settings.LastSession {
					fmt.Fprintln(out, green("* "+id))
					continue
				}
				fmt.Fprintln(out, "  "+id)
			}
			return nil
		},
	}
}
