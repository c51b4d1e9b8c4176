package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/match"
	"curator/internal/services"
)

func newOrcidCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "orcid ID",
		Short: "Validate an ORCID and resolve it against the personnel directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			orcid := match.NormalizeORCID(args[0])
			if err := match.ValidateORCID(orcid); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: valid\n", orcid)

			directory, err := ctx.newDirectory()
			if err != nil {
				return err
			}
			matches, err := directory.LookupByOrcid(cmd.Context(), orcid)
			if err != nil {
				return err
			}

			switch len(matches) {
			case 0:
				fmt.Fprintln(out, "no directory record carries this ORCID")
				return nil
			case 1:
			default:
				fmt.Fprintf(out, "warning: %d directory records share this ORCID\n", len(matches))
			}

			rows := make([][]string, 0, len(matches))
			for _, employee := range matches {
				status := "current"
				if employee.Alumni {
					status = "alumni"
				}
				rows = append(rows, []string{
					employee.EmployeeID,
					employee.DisplayName(),
					employee.Title,
					employee.OrgName,
					status,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Employee", "Name", "Title", "Org", "Status"},
				rows, nil))

			if len(matches) > 1 {
				return services.Wrap(services.ErrDirectoryConflict, "orcid", "resolve",
					"directory data needs correction before this ORCID can auto-match", nil)
			}
			return nil
		},
	}
}
