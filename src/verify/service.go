package verify

import (
	"context"
	"log"
)

// VerdictCache short-circuits repeat claims. Implementations must be safe for
// concurrent use; a nil cache disables caching.
type VerdictCache interface {
	Get(ctx context.Context, claimText string) (Verdict, bool)
	Set(ctx context.Context, claimText string, v Verdict)
}

// HistoryStore persists finished verdicts for later review.
type HistoryStore interface {
	Save(ctx context.Context, claimText string, v Verdict) error
}

// Service is the sole integration point for callers: gate, agent, extraction
// and assembly behind a single Classify operation.
type Service struct {
	gate    *Gate
	agent   *Agent
	cache   VerdictCache
	history HistoryStore
}

// NewService wires the pipeline. Cache and history are optional.
func NewService(gate *Gate, agent *Agent) *Service {
	return &Service{gate: gate, agent: agent}
}

// WithCache attaches a verdict cache.
func (s *Service) WithCache(c VerdictCache) *Service {
	s.cache = c
	return s
}

// WithHistory attaches a verdict history store.
func (s *Service) WithHistory(h HistoryStore) *Service {
	s.history = h
	return s
}

// Classify runs one claim through the full pipeline and always returns a
// complete Verdict unless the context is cancelled, in which case no verdict
// is produced at all. Internal failures degrade the verdict's richness but
// never escape as errors.
func (s *Service) Classify(ctx context.Context, claim Claim) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}

	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, claim.Text); ok {
			return v, nil
		}
	}

	gate := s.gate.Check(ctx, claim.Text)
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}

	if !gate.IsNews {
		verdict := Assemble(nil, nil, gate)
		s.finish(ctx, claim, verdict)
		return verdict, nil
	}

	answer, err := s.agent.Analyze(ctx, claim.Text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Verdict{}, ctxErr
		}
		// Model failure after retries: degrade rather than surface.
		log.Printf("verify: agent failed, returning degraded verdict: %v", err)
		verdict := Assemble(nil, &ExtractionError{}, gate)
		return verdict, nil
	}

	extracted, extractErr := ExtractJSON(answer.Text)
	if extractErr != nil {
		log.Printf("verify: extraction failed: %v", extractErr)
	}

	verdict := Assemble(extracted, extractErr, gate)
	if len(verdict.SourcesChecked) == 0 && len(answer.Citations) > 0 {
		verdict.SourcesChecked = answer.Citations
	}

	s.finish(ctx, claim, verdict)
	return verdict, nil
}

// finish records the verdict in the cache and history, best-effort.
func (s *Service) finish(ctx context.Context, claim Claim, v Verdict) {
	if s.cache != nil {
		s.cache.Set(ctx, claim.Text, v)
	}
	if s.history != nil {
		if err := s.history.Save(ctx, claim.Text, v); err != nil {
			log.Printf("verify: history save failed: %v", err)
		}
	}
}
