package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nadcal/internal/event"
)

func newEventsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage the saved events of a session",
	}
	cmd.AddCommand(
		newEventsListCommand(c),
		newEventsDeleteCommand(c),
		newEventsUpdateCommand(c),
		newEventsExportCommand(c),
		newEventsClearCommand(c),
	)
	return cmd
}

func newEventsListCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved events",
		Args:  cobra.NoArgs,
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
			events, err := a.Store.Load(cmd.Context(), key)
			if err != nil {
				return err
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		},
	}
}

func newEventsDeleteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved event",
		Args:  cobra.ExactArgs(1),
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
			ok, err := a.Store.Delete(cmd.Context(), key, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("event %s not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), green("ลบ "+args[0]+" แล้ว"))
			return nil
		},
	}
}

func newEventsUpdateCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> field=value...",
		Short: "Change fields of a saved event",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parsePatch(args[1:])
			if err != nil {
				return err
			}
			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()
			key, err := c.session(a.Workspace)
			if err != nil {
				return err
			}
			e, err := a.Store.Update(cmd.Context(), key, args[0], patch)
			if err != nil {
				return err
			}
			if e == nil {
				return fmt.Errorf("event %s not found", args[0])
			}
			printEvents(cmd.OutOrStdout(), []event.Event{*e})
			return nil
		},
	}
}

func newEventsClearCommand(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved event of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear events without --yes")
			}
			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()
			key, err := c.session(a.Workspace)
			if err != nil {
				return err
			}
			if err := a.Store.Save(cmd.Context(), key, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), green("ล้างข้อมูลกิจกรรมของ "+key+" แล้ว"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm removing all events")
	return cmd
}

func newEventsExportCommand(c *cli) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved events as JSON or YAML",
		Args:  cobra.NoArgs,
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
			events, err := a.Store.Load(cmd.Context(), key)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return exportEvents(w, events, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func exportEvents(w io.Writer, events []event.Event, format string) error {
	if events == nil {
		events = []event.Event{}
	}
	doc := map[string][]event.Event{"events": events}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown export format %q", format)
}
