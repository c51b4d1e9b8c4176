// Package review implements the interactive confirmation loop for deferred
// match decisions. Items are presented strictly in author order; every human
// choice is recorded with a manual basis.
package review

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"curator/internal/logging"
	"curator/internal/match"
	"curator/internal/services"
)

// Reviewer drives the confirmation prompt over an input/output pair. Tests
// inject scripted readers; the CLI passes stdin/stdout.
type Reviewer struct {
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

func New(in io.Reader, out io.Writer, logger *slog.Logger) *Reviewer {
	return &Reviewer{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logging.NewComponentLogger(logger, "review"),
	}
}

// Interactive reports whether the file is attached to a terminal. The CLI
// refuses to open the confirmation loop otherwise.
func Interactive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Review walks every deferred decision in order and resolves it in place.
// Skip leaves the item skipped and moves on; abort returns ErrUserAbort with
// the remaining items untouched.
func (r *Reviewer) Review(ctx context.Context, doi string, decisions []match.Decision) error {
	pending := 0
	for _, decision := range decisions {
		if decision.Outcome == match.OutcomeDeferred {
			pending++
		}
	}
	if pending == 0 {
		return nil
	}

	fmt.Fprintf(r.out, "\n%d author(s) need review for %s\n", pending, doi)
	item := 0
	for i := range decisions {
		if decisions[i].Outcome != match.OutcomeDeferred {
			continue
		}
		item++
		if err := r.reviewOne(ctx, &decisions[i], item, pending); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reviewer) reviewOne(ctx context.Context, decision *match.Decision, item, total int) error {
	r.printItem(decision, item, total)

	for {
		fmt.Fprintf(r.out, "choice [1-%d accept, r reject, s skip, a abort]: ", len(decision.Candidates))
		line, err := r.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return services.Wrap(services.ErrUserAbort, "review", "prompt", "input closed", nil)
			}
			return services.Wrap(services.ErrUserAbort, "review", "prompt", "read input", err)
		}

		switch input := strings.ToLower(strings.TrimSpace(line)); input {
		case "r":
			decision.Outcome = match.OutcomeRejected
			decision.Basis = match.BasisManual
			decision.EmployeeID = ""
			decision.Employee = nil
			decision.Confidence = 0
			r.logChoice(ctx, decision)
			return nil
		case "s":
			decision.Outcome = match.OutcomeSkipped
			decision.Basis = match.BasisManual
			r.logChoice(ctx, decision)
			return nil
		case "a":
			return services.Wrap(services.ErrUserAbort, "review", "prompt", "session aborted", nil)
		case "":
			continue
		default:
			pick, convErr := strconv.Atoi(input)
			if convErr != nil || pick < 1 || pick > len(decision.Candidates) {
				fmt.Fprintf(r.out, "unrecognized choice %q\n", input)
				continue
			}
			candidate := decision.Candidates[pick-1]
			decision.Outcome = match.OutcomeAccepted
			decision.Basis = match.BasisManual
			decision.EmployeeID = candidate.Employee.EmployeeID
			employee := candidate.Employee
			decision.Employee = &employee
			decision.Confidence = candidate.Score
			if employee.Alumni {
				fmt.Fprintf(r.out, "note: %s is an alumni record and will be excluded from the final list\n",
					employee.DisplayName())
			}
			r.logChoice(ctx, decision)
			return nil
		}
	}
}

func (r *Reviewer) printItem(decision *match.Decision, item, total int) {
	fmt.Fprintf(r.out, "\n[%d/%d] %s\n", item, total, decision.Author.DisplayName())
	if decision.Author.ORCID != "" {
		fmt.Fprintf(r.out, "  orcid: %s\n", decision.Author.ORCID)
	}
	if len(decision.Author.Affiliations) > 0 {
		for _, affiliation := range decision.Author.Affiliations {
			fmt.Fprintf(r.out, "  affiliation: %s\n", affiliation)
		}
	} else {
		fmt.Fprintln(r.out, "  affiliation: (none listed)")
	}
	if decision.Conflict {
		fmt.Fprintln(r.out, "  conflict: multiple directory records share this ORCID")
	}
	fmt.Fprintln(r.out, renderCandidateTable(decision.Candidates))
}

func (r *Reviewer) logChoice(ctx context.Context, decision *match.Decision) {
	r.logger.InfoContext(ctx, "manual decision recorded",
		logging.String(logging.FieldAuthor, decision.Author.DisplayName()),
		logging.String("outcome", string(decision.Outcome)),
		logging.String(logging.FieldEmployeeID, decision.EmployeeID))
}
