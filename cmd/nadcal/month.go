package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nadcal/internal/calendar"
)

func newMonthCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Draw a month of saved events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()
			key, err := c.session(a.Workspace)
			if err != nil {
				return err
			}

			today := a.Now()
			year, month := today.Year(), today.Month()
			if len(args) == 1 {
				t, err := time.ParseInLocation("2006-01", args[0], a.Location())
				if err != nil {
					return fmt.Errorf("month must be YYYY-MM: %w", err)
				}
				year, month = t.Year(), t.Month()
			}

			events, err := a.Store.Load(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), calendar.Month(year, month, events, today).Render())
			return nil
		},
	}
}
