package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/affiliation"
	"curator/internal/match"
	"curator/internal/review"
	"curator/internal/session"
)

func newAuthorsCommand(ctx *commandContext) *cobra.Command {
	var doiFlags []string
	var fileFlag string
	var writeFlag bool

	cmd := &cobra.Command{
		Use:   "authors",
		Short: "Curate the institutional author list for one or more DOIs",
		Long: `Decides, for every author on the given DOIs, whether they are a current
employee: automatically where the evidence is strong, interactively where it
is ambiguous. Without --write the run is a dry run and nothing is persisted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dois, err := collectDOIs(doiFlags, fileFlag)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			directory, err := ctx.newDirectory()
			if err != nil {
				return err
			}
			classifier, err := affiliation.NewClassifier(cfg.Affiliation.Include, cfg.Affiliation.Exclude)
			if err != nil {
				return err
			}
			engine := match.NewEngine(directory, classifier, cfg.Matching, logger)

			out := cmd.OutOrStdout()
			var confirmer session.Confirmer
			if review.Interactive(os.Stdin) {
				confirmer = review.New(os.Stdin, out, logger)
			} else {
				fmt.Fprintln(out, "stdin is not a terminal; ambiguous authors will be reported, not prompted")
			}

			runner := session.NewRunner(store, engine, confirmer, session.Options{Write: writeFlag}, logger)
			summary, results, runErr := runner.Run(cmd.Context(), dois)

			for _, result := range results {
				printResult(out, result, writeFlag)
			}
			printSummary(out, summary, writeFlag)

			if runErr != nil {
				return runErr
			}
			if summary.Errors > 0 {
				return fmt.Errorf("completed with %d DOI error(s)", summary.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&doiFlags, "doi", nil, "DOI to curate (repeatable)")
	cmd.Flags().StringVar(&fileFlag, "file", "", "File with one DOI per line")
	cmd.Flags().BoolVar(&writeFlag, "write", false, "Commit the curated author lists to the store")
	return cmd
}

// collectDOIs enforces the --doi xor --file contract and loads the list.
func collectDOIs(doiFlags []string, fileFlag string) ([]string, error) {
	hasFlags := len(doiFlags) > 0
	hasFile := strings.TrimSpace(fileFlag) != ""
	switch {
	case hasFlags && hasFile:
		return nil, fmt.Errorf("--doi and --file are mutually exclusive")
	case hasFlags:
		return doiFlags, nil
	case hasFile:
		return readDOIFile(fileFlag)
	default:
		return nil, fmt.Errorf("one of --doi or --file is required")
	}
}

func readDOIFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open doi file: %w", err)
	}
	defer file.Close()

	var dois []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dois = append(dois, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read doi file: %w", err)
	}
	if len(dois) == 0 {
		return nil, fmt.Errorf("no DOIs found in %s", path)
	}
	return dois, nil
}

func printResult(out io.Writer, result session.Result, write bool) {
	fmt.Fprintf(out, "\n%s\n", result.DOI)
	if result.Err != nil {
		fmt.Fprintf(out, "  error: %v\n", result.Err)
		return
	}

	rows := make([][]string, 0, len(result.Decisions))
	for _, decision := range result.Decisions {
		rows = append(rows, []string{
			decision.Author.DisplayName(),
			string(decision.Outcome),
			string(decision.Basis),
			decision.EmployeeID,
			formatConfidence(decision),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Author", "Outcome", "Basis", "Employee", "Confidence"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight}))

	agg := result.Aggregation
	fmt.Fprintf(out, "  final authors: %s\n", formatIDList(agg.Accepted))
	if len(agg.Added) > 0 {
		fmt.Fprintf(out, "  added:   %s\n", strings.Join(agg.Added, ", "))
	}
	if len(agg.Removed) > 0 {
		fmt.Fprintf(out, "  removed: %s\n", strings.Join(agg.Removed, ", "))
	}
	if len(agg.Added) == 0 && len(agg.Removed) == 0 {
		fmt.Fprintln(out, "  no changes")
	}
	if write && result.Committed {
		fmt.Fprintln(out, "  committed")
	}
}

func formatConfidence(decision match.Decision) string {
	if decision.Confidence == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", decision.Confidence)
}

func formatIDList(ids []string) string {
	if len(ids) == 0 {
		return "(none)"
	}
	return strings.Join(ids, ", ")
}

func printSummary(out io.Writer, summary session.Summary, write bool) {
	mode := "dry run"
	if write {
		mode = "write"
	}
	fmt.Fprintf(out, "\nprocessed %d DOI(s) (%s): %d auto-accepted, %d auto-rejected, %d deferred, %d manual, %d skipped, %d error(s)\n",
		summary.Processed, mode,
		summary.AutoAccepted, summary.AutoRejected, summary.Deferred,
		summary.Manual, summary.Skipped, summary.Errors)
}
