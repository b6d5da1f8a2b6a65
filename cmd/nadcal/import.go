package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nadcal/internal/event"
	"nadcal/internal/ingest"
	"nadcal/internal/pipeline"
	"nadcal/internal/session"
)

func newImportCommand(c *cli) *cobra.Command {
	var save bool
	var workers int
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Extract events from every line of a .txt, .docx or .pdf file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ingest.ParseFile(args[0])
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

			records, errs := pipeline.ExtractLines(cmd.Context(), a.Extractor, doc.Lines, workers)
			for _, err := range errs {
				a.Logger.Warn("line skipped", zap.String("file", doc.SourcePath), zap.Error(err))
			}
			var all []event.Slots
			for _, r := range records {
				all = append(all, r...)
			}

			s := a.Session(key)
			out := cmd.OutOrStdout()
			reply := s.Offer(all)
			printReply(out, reply)
			if !save {
				return nil
			}
			report, err := s.ConfirmAll(cmd.Context())
			if errors.Is(err, session.ErrNoPending) {
				fmt.Fprintln(out, yellow("ไม่มีกิจกรรมที่บันทึกได้"))
				return nil
			}
			if err != nil {
				return err
			}
			printReport(out, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save the valid events to the session")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "lines extracted in parallel")
	return cmd
}
