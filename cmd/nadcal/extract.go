package main

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newExtractCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [text]",
		Short: "Print the slot records found in a message as JSON",
		Long:  "Extract splits a message into events and prints their slots. Without arguments the message is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(raw)
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("no text to extract")
			}

			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()

			records := a.Extractor.ExtractMany(cmd.Context(), text)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
}
