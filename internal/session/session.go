// Package session runs a curation batch: for each DOI it decides every
// author, optionally routes deferrals through the confirmation loop, and
// commits the aggregated author set when a write was requested.
package session

import (
	"context"
	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"curator/internal/doistore"
	"curator/internal/logging"
	"curator/internal/match"
	"curator/internal/services"
)

// Confirmer resolves deferred decisions in place. The interactive reviewer
// implements it; tests substitute scripted fakes.
type Confirmer interface {
	Review(ctx context.Context, doi string, decisions []match.Decision) error
}

// Options controls a batch run.
type Options struct {
	// Write commits aggregated author sets and audit events to the store.
	// Without it the run is a dry run: decisions are made and reported but
	// nothing is persisted.
	Write bool
}

// Summary holds the per-run audit counters.
type Summary struct {
	Processed    int
	AutoAccepted int
	AutoRejected int
	Deferred     int
	Manual       int
	Skipped      int
	Errors       int
}

// Result is the outcome for one DOI.
type Result struct {
	DOI         string
	Decisions   []match.Decision
	Aggregation match.Aggregation
	Committed   bool
	// Err is set when the DOI was abandoned (for example a directory outage).
	Err error
}

// Runner executes curation batches against one store and decision engine.
type Runner struct {
	store     *doistore.Store
	engine    *match.Engine
	confirmer Confirmer
	opts      Options
	logger    *slog.Logger
}

func NewRunner(store *doistore.Store, engine *match.Engine, confirmer Confirmer, opts Options, logger *slog.Logger) *Runner {
	return &Runner{
		store:     store,
		engine:    engine,
		confirmer: confirmer,
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, "session"),
	}
}

// Run processes the DOIs in order. A directory outage abandons the current
// DOI and continues with the next; a user abort stops the batch, leaving the
// aborted DOI uncommitted. Results are returned for every DOI attempted.
func (r *Runner) Run(ctx context.Context, dois []string) (Summary, []Result, error) {
	sessionID := uuid.NewString()
	ctx = services.WithSessionID(ctx, sessionID)
	r.logger.InfoContext(ctx, "session started",
		logging.String(logging.FieldSessionID, sessionID),
		logging.Int("dois", len(dois)),
		logging.Bool("write", r.opts.Write))

	if r.opts.Write {
		lock := flock.New(r.store.LockPath())
		ok, err := lock.TryLock()
		if err != nil {
			return Summary{}, nil, services.Wrap(services.ErrConfiguration, "session", "lock", "acquire session lock", err)
		}
		if !ok {
			return Summary{}, nil, services.Wrap(services.ErrConfiguration, "session", "lock",
				"another curation session is already writing to this store", nil)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				r.logger.WarnContext(ctx, "failed to release session lock", logging.Error(err))
			}
		}()
	}

	var (
		summary Summary
		results []Result
	)
	hints := match.NewHintCache()
	for _, doi := range dois {
		result, err := r.runDOI(ctx, doi, sessionID, hints)
		results = append(results, result)
		summary.Processed++
		tally(&summary, result.Decisions)
		if err == nil {
			continue
		}
		if services.AbortsBatch(err) {
			r.logger.InfoContext(ctx, "session aborted by user", logging.String(logging.FieldDOI, doi))
			return summary, results, err
		}
		summary.Errors++
		r.logger.ErrorContext(ctx, "doi abandoned",
			logging.String(logging.FieldDOI, doi),
			logging.Error(err))
		if ctx.Err() != nil {
			return summary, results, ctx.Err()
		}
	}

	r.logger.InfoContext(ctx, "session finished",
		logging.String(logging.FieldSessionID, sessionID),
		logging.Int("processed", summary.Processed),
		logging.Int("errors", summary.Errors))
	return summary, results, nil
}

func (r *Runner) runDOI(ctx context.Context, doi, sessionID string, hints *match.HintCache) (Result, error) {
	ctx = services.WithDOI(ctx, doi)
	result := Result{DOI: doi}

	rec, err := r.store.Get(ctx, doi)
	if err != nil {
		result.Err = err
		return result, err
	}
	if rec == nil {
		err := services.Wrap(services.ErrNotFound, "session", "load", "doi not ingested: "+doi, nil)
		result.Err = err
		return result, err
	}
	result.DOI = rec.DOI

	decisions := make([]match.Decision, 0, len(rec.Authors))
	for _, author := range rec.Authors {
		decision, err := r.engine.Decide(ctx, author, hints)
		if err != nil {
			result.Err = err
			return result, err
		}
		collectHint(hints, decision)
		decisions = append(decisions, decision)
	}

	if r.confirmer != nil {
		if err := r.confirmer.Review(ctx, rec.DOI, decisions); err != nil {
			result.Decisions = decisions
			result.Err = err
			return result, err
		}
		for _, decision := range decisions {
			collectHint(hints, decision)
		}
	}

	result.Decisions = decisions
	result.Aggregation = match.Aggregate(rec, decisions)

	if r.opts.Write {
		if err := r.commit(ctx, rec.DOI, sessionID, result); err != nil {
			result.Err = err
			return result, err
		}
		result.Committed = true
	}
	return result, nil
}

func (r *Runner) commit(ctx context.Context, doi, sessionID string, result Result) error {
	if err := r.store.UpdateAuthors(ctx, doi, result.Aggregation.Update); err != nil {
		return err
	}
	for _, decision := range result.Decisions {
		event := doistore.AuditEvent{
			SessionID:  sessionID,
			DOI:        doi,
			Author:     decision.Author.DisplayName(),
			Outcome:    string(decision.Outcome),
			Basis:      string(decision.Basis),
			EmployeeID: decision.EmployeeID,
			Confidence: decision.Confidence,
			Detail:     decision.Note,
		}
		if err := r.store.AppendAudit(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// collectHint feeds the org code of an accepted employee into the hint cache.
// Hints only flow forward; decisions already made are never revisited.
func collectHint(hints *match.HintCache, decision match.Decision) {
	if decision.Outcome == match.OutcomeAccepted && decision.Employee != nil {
		hints.Add(decision.Employee.OrgCode)
	}
}

func tally(summary *Summary, decisions []match.Decision) {
	for _, decision := range decisions {
		switch {
		case decision.Outcome == match.OutcomeSkipped:
			summary.Skipped++
		case decision.Outcome == match.OutcomeDeferred:
			summary.Deferred++
		case decision.Basis == match.BasisManual:
			summary.Manual++
		case decision.Outcome == match.OutcomeAccepted:
			summary.AutoAccepted++
		case decision.Outcome == match.OutcomeRejected:
			summary.AutoRejected++
		}
	}
}
