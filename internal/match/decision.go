package match

import (
	"context"
	"errors"
	"log/slog"

	"curator/internal/affiliation"
	"curator/internal/config"
	"curator/internal/doistore"
	"curator/internal/logging"
	"curator/internal/services"
	"curator/internal/services/people"
)

// Engine runs the per-author decision sequence: classify affiliation, attempt
// ORCID resolution, generate candidates, then apply the layered thresholds.
type Engine struct {
	dir        people.Directory
	classifier *affiliation.Classifier
	generator  *Generator
	cfg        config.Matching
	logger     *slog.Logger
}

func NewEngine(dir people.Directory, classifier *affiliation.Classifier, cfg config.Matching, logger *slog.Logger) *Engine {
	return &Engine{
		dir:        dir,
		classifier: classifier,
		generator:  NewGenerator(dir, cfg, logger),
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "engine"),
	}
}

// Decide produces the decision for one author. Errors are returned only for
// failures that must abort the enclosing DOI (directory unavailable); a
// malformed ORCID is local to the author and falls through to name matching.
func (e *Engine) Decide(ctx context.Context, author doistore.Author, hints *HintCache) (Decision, error) {
	decision := Decision{Author: author}
	decision.AffiliationClass, decision.AffiliationPattern = e.classify(author)

	done, err := e.resolveByOrcid(ctx, author, &decision)
	if err != nil {
		return decision, err
	}
	if done {
		e.logDecision(ctx, decision)
		return decision, nil
	}

	// An explicitly non-institutional affiliation rejects regardless of name
	// similarity, so the directory is never consulted.
	if decision.AffiliationClass == affiliation.ClassNonInstitutional {
		decision.Outcome = OutcomeRejected
		decision.Basis = BasisAffiliation
		e.logDecision(ctx, decision)
		return decision, nil
	}

	candidates, err := e.generator.Generate(ctx, author, hints)
	if err != nil {
		return decision, err
	}
	if len(candidates) == 0 {
		decision.Outcome = OutcomeRejected
		decision.Basis = BasisNoMatch
		e.logDecision(ctx, decision)
		return decision, nil
	}

	decision.Candidates = candidates
	e.applyThresholds(&decision)
	e.logDecision(ctx, decision)
	return decision, nil
}

func (e *Engine) classify(author doistore.Author) (affiliation.Class, string) {
	class, verdict := e.classifier.ClassifyAll(author.Affiliations)
	return class, verdict.Pattern
}

// resolveByOrcid attempts the ORCID short-circuit. It reports done=true when
// the decision is final; an ORCID miss or an alumni hit falls through to name
// matching because the identifier may be historical or external.
func (e *Engine) resolveByOrcid(ctx context.Context, author doistore.Author, decision *Decision) (bool, error) {
	matches, err := ResolveOrcid(ctx, e.dir, author.ORCID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidIdentifier) {
			e.logger.WarnContext(ctx, "malformed orcid, falling back to name matching",
				logging.String(logging.FieldAuthor, author.DisplayName()),
				logging.Error(err))
			decision.Note = "malformed ORCID ignored"
			return false, nil
		}
		return false, err
	}

	switch {
	case len(matches) == 0:
		return false, nil
	case len(matches) > 1:
		decision.Outcome = OutcomeDeferred
		decision.Basis = BasisOrcid
		decision.Conflict = true
		decision.Note = "multiple directory records share this ORCID"
		for _, employee := range matches {
			decision.Candidates = append(decision.Candidates, Candidate{
				Employee: employee,
				Name:     employee.DisplayName(),
				Score:    1,
				RawScore: 1,
			})
		}
		return true, nil
	}

	employee := matches[0]
	if employee.Alumni {
		decision.Note = "orcid resolves to an alumni record"
		return false, nil
	}
	decision.Outcome = OutcomeAccepted
	decision.Basis = BasisOrcid
	decision.EmployeeID = employee.EmployeeID
	decision.Employee = &employee
	decision.Confidence = 1
	return true, nil
}

// applyThresholds finalizes a decision that has a non-empty candidate list.
func (e *Engine) applyThresholds(decision *Decision) {
	top := decision.Candidates[0]
	margin := top.Score
	if len(decision.Candidates) > 1 {
		margin = top.Score - decision.Candidates[1].Score
	}

	basis := BasisName
	if decision.AffiliationClass == affiliation.ClassInstitutional {
		basis = BasisNameAffiliation
	}

	if decision.AffiliationClass == affiliation.ClassInstitutional &&
		top.Score >= e.cfg.AutoAcceptScore &&
		margin >= e.cfg.AcceptMargin {
		decision.Outcome = OutcomeAccepted
		decision.Basis = basis
		decision.EmployeeID = top.Employee.EmployeeID
		employee := top.Employee
		decision.Employee = &employee
		decision.Confidence = top.Score
		return
	}

	decision.Outcome = OutcomeDeferred
	decision.Basis = basis
	decision.Confidence = top.Score
}

func (e *Engine) logDecision(ctx context.Context, decision Decision) {
	logger := logging.WithContext(ctx, e.logger)
	logger.InfoContext(ctx, "author decided",
		logging.String(logging.FieldAuthor, decision.Author.DisplayName()),
		logging.String("outcome", string(decision.Outcome)),
		logging.String(logging.FieldBasis, string(decision.Basis)),
		logging.String(logging.FieldEmployeeID, decision.EmployeeID),
		logging.Float64("confidence", decision.Confidence),
		logging.String("affiliation_class", string(decision.AffiliationClass)),
		logging.Bool("conflict", decision.Conflict))
}
