package usecase

import (
	"context"
	"log"

	"github.com/orderlens/backend/internal/domain"
)

// FillServiceConfig holds configuration for the fill orchestrator.
type FillServiceConfig struct {
	EnableDebugLogging bool
}

// FillService drives one fill pass: for every populated logical field it
// asks the mapper for a target control and records a per-field outcome.
// A failure on one field never blocks the rest; the extension surfaces
// "7 of 10 fields filled" and the user reviews before submitting.
type FillService struct {
	mapper             *MapperService
	applier            domain.FieldApplier
	enableDebugLogging bool
}

// NewFillService creates a fill service. applier may be nil, in which case
// the pass is plan-only (mapping without writing to any control).
func NewFillService(mapper *MapperService, applier domain.FieldApplier, config FillServiceConfig) *FillService {
	return &FillService{
		mapper:             mapper,
		applier:            applier,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Fill maps and applies every populated record field. Idempotent: the same
// record, candidates and form state produce the same plan and outcome. A
// candidate claimed by one field is never reused for another in the same
// pass; later fields fall through to their next best match instead.
func (s *FillService) Fill(
	ctx context.Context,
	record *domain.ExtractedRecord,
	candidatesByField map[string][]domain.FieldCandidate,
) (domain.FillPlan, domain.FillOutcome, error) {
	if record == nil {
		return nil, nil, domain.ErrInvalidInput
	}

	plan := make(domain.FillPlan)
	outcome := make(domain.FillOutcome)
	claimed := make(map[string]bool)

	for _, fieldName := range domain.RecordFieldNames {
		select {
		case <-ctx.Done():
			return plan, outcome, ctx.Err()
		default:
		}

		value := record.Field(fieldName)
		if value == "" {
			continue
		}

		candidates := candidatesByField[fieldName]
		if candidates == nil {
			candidates = candidatesByField[""] // shared pool
		}

		entry := s.mapper.MapField(fieldName, value, unclaimed(candidates, claimed))
		if entry == nil {
			outcome[fieldName] = domain.FieldOutcome{Success: false, Reason: "no matching candidate"}
			continue
		}

		claimed[candidateKey(entry.Candidate)] = true
		if entry.Overflow != nil {
			claimed[candidateKey(entry.Overflow)] = true
		}
		plan[fieldName] = *entry

		if s.applier != nil {
			if err := s.applier.Apply(entry.Candidate, value, *entry); err != nil {
				// Adapter failures are fatal for this field only.
				outcome[fieldName] = domain.FieldOutcome{Success: false, Reason: "apply failed: " + err.Error()}
				continue
			}
		}

		applied := value
		if entry.MatchedOptionValue != "" && entry.Overflow == nil {
			applied = entry.MatchedOptionValue
		}
		outcome[fieldName] = domain.FieldOutcome{Success: true, AppliedValue: applied}
	}

	if s.enableDebugLogging {
		log.Printf("[FILL] %d of %d populated fields filled", outcome.SuccessCount(), record.FieldCount())
	}

	return plan, outcome, nil
}

// unclaimed filters out candidates already assigned in this pass.
func unclaimed(candidates []domain.FieldCandidate, claimed map[string]bool) []domain.FieldCandidate {
	if len(claimed) == 0 {
		return candidates
	}
	out := make([]domain.FieldCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !claimed[candidateKey(&c)] {
			out = append(out, c)
		}
	}
	return out
}

// candidateKey identifies a control across calls.
func candidateKey(c *domain.FieldCandidate) string {
	if c.ElementRef != "" {
		return c.ElementRef
	}
	return c.Name + "|" + c.ID
}
