package review

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"curator/internal/match"
)

func renderCandidateTable(candidates []match.Candidate) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Score", "Name", "Title", "Org", "Notes"})

	for i, candidate := range candidates {
		tw.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.2f", candidate.Score),
			candidate.Employee.DisplayName(),
			candidate.Employee.Title,
			candidate.Employee.OrgName,
			candidateNotes(candidate),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func candidateNotes(candidate match.Candidate) string {
	var notes []string
	if candidate.Exact {
		notes = append(notes, "exact name")
	}
	if candidate.HintMatch {
		notes = append(notes, "org hint")
	}
	if candidate.Employee.Alumni {
		notes = append(notes, "alumni")
	}
	return strings.Join(notes, ", ")
}
