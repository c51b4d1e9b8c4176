package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var doiFlag string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the curation decision trail for a DOI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if doiFlag == "" {
				return fmt.Errorf("--doi is required")
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			events, err := store.AuditByDOI(cmd.Context(), doiFlag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintf(out, "no audit events for %s\n", doiFlag)
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, event := range events {
				confidence := ""
				if event.Confidence > 0 {
					confidence = fmt.Sprintf("%.2f", event.Confidence)
				}
				rows = append(rows, []string{
					event.CreatedAt.Format(time.RFC3339),
					event.SessionID,
					event.Author,
					event.Outcome,
					event.Basis,
					event.EmployeeID,
					confidence,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Session", "Author", "Outcome", "Basis", "Employee", "Confidence"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().StringVar(&doiFlag, "doi", "", "DOI whose decision trail to show")
	return cmd
}
