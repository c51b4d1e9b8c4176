package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the DOI records in the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			dois, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(dois) == 0 {
				fmt.Fprintln(out, "the store is empty; run `curator ingest` first")
				return nil
			}

			rows := make([][]string, 0, len(dois))
			for _, doi := range dois {
				rec, err := store.Get(cmd.Context(), doi)
				if err != nil {
					return err
				}
				if rec == nil {
					continue
				}
				rows = append(rows, []string{
					rec.DOI,
					rec.Title,
					strconv.Itoa(len(rec.Authors)),
					strconv.Itoa(len(rec.JRCAuthor)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"DOI", "Title", "Authors", "Curated"},
				rows, nil))
			fmt.Fprintf(out, "%d record(s)\n", len(rows))
			return nil
		},
	}
}
