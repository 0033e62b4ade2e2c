// internal/rules/extraction/service.go

// Package extraction orchestrates the rule pipeline: fetch a source page,
// clean and map the candidates, let the structuring assistant refine them,
// merge both lists, and persist the resulting rule set.
package extraction

import (
	"context"
	"time"

	commonerrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/models"
	"visa-eligibility-workers/internal/rules/assistant"
	"visa-eligibility-workers/internal/rules/cleaner"
	"visa-eligibility-workers/internal/rules/mapper"
	"visa-eligibility-workers/internal/rules/store"
	"visa-eligibility-workers/internal/visatypes"
)

const (
	// RuleSetVersion tags every stored rule set.
	RuleSetVersion = "1.0"

	// maxAssistantItems caps the batch sent to the assistant to bound the
	// prompt size.
	maxAssistantItems = 40

	defaultAssistantTimeout = 60 * time.Second
)

// PageFetcher obtains candidate requirement strings from a source URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]models.Candidate, error)
}

// Service runs the extraction pipeline end to end.
type Service struct {
	fetcher          PageFetcher
	structurer       assistant.Structurer
	cleaner          *cleaner.Cleaner
	mapper           *mapper.Mapper
	store            store.Store
	log              logger.Logger
	assistantTimeout time.Duration
	sourceOverrides  map[string]string
	now              func() time.Time
}

// Option tweaks Service construction.
type Option func(*Service)

// WithAssistantTimeout bounds the structuring assistant call. On expiry the
// pipeline degrades to heuristic-only output.
func WithAssistantTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.assistantTimeout = timeout
		}
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithSourceOverrides replaces the built-in source page for the given visa
// types. An explicit sourceURL on a job still wins over an override.
func WithSourceOverrides(overrides map[string]string) Option {
	return func(s *Service) {
		s.sourceOverrides = overrides
	}
}

// NewService wires the pipeline. structurer may be nil, in which case the
// pipeline runs heuristic-only.
func NewService(fetcher PageFetcher, structurer assistant.Structurer, ruleCleaner *cleaner.Cleaner, fieldMapper *mapper.Mapper, ruleStore store.Store, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		fetcher:          fetcher,
		structurer:       structurer,
		cleaner:          ruleCleaner,
		mapper:           fieldMapper,
		store:            ruleStore,
		log:              log,
		assistantTimeout: defaultAssistantTimeout,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractAndStore builds and persists the rule set for one visa type. An
// empty sourceURL resolves to the configured page for the visa type. The
// assistant failing, timing out or returning garbage never aborts the run;
// only fetch and store failures do.
func (s *Service) ExtractAndStore(ctx context.Context, visaType, sourceURL string) (models.VisaRuleSet, error) {
	visaType = visatypes.Normalize(visaType)
	if visaType == "" {
		return models.VisaRuleSet{}, commonerrors.NewValidationFailedError("visaType is required")
	}

	if sourceURL == "" {
		if override, ok := s.sourceOverrides[visaType]; ok {
			sourceURL = override
		} else {
			sourceURL = visatypes.SourceURL(visaType)
		}
	}

	candidates, err := s.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return models.VisaRuleSet{}, commonerrors.NewFetchFailedError(sourceURL, err)
	}

	heuristic := s.mapper.Map(s.cleaner.Clean(candidates))

	merged := s.refineWithAssistant(ctx, visaType, heuristic)

	// A second mapper pass fills fields on assistant-contributed items; it
	// never touches fields that are already set.
	merged = s.mapper.Map(merged)

	ruleSet := models.VisaRuleSet{
		VisaType:              visaType,
		Requirements:          merged,
		RequirementsBySection: models.GroupBySection(merged),
		SourceURL:             sourceURL,
		LastUpdated:           s.now().UTC(),
		Version:               RuleSetVersion,
	}

	if err := s.store.Upsert(ctx, ruleSet); err != nil {
		return models.VisaRuleSet{}, commonerrors.NewStoreUpsertFailedError(visaType, err)
	}

	s.log.Info("stored rule set", map[string]interface{}{
		"visaType":     visaType,
		"sourceUrl":    sourceURL,
		"requirements": len(merged),
	})
	return ruleSet, nil
}

// refineWithAssistant sends the heuristic list to the assistant and merges
// the reply. Any assistant failure returns the heuristic list unchanged.
func (s *Service) refineWithAssistant(ctx context.Context, visaType string, heuristic []models.Requirement) []models.Requirement {
	if s.structurer == nil || len(heuristic) == 0 {
		return heuristic
	}

	batch := heuristic
	if len(batch) > maxAssistantItems {
		batch = batch[:maxAssistantItems]
	}

	assistantCtx, cancel := context.WithTimeout(ctx, s.assistantTimeout)
	defer cancel()

	structured, err := s.structurer.Structure(assistantCtx, visaType, batch)
	if err != nil {
		s.log.Warn("assistant unavailable, continuing with heuristic rules", map[string]interface{}{
			"visaType": visaType,
			"error":    err.Error(),
		})
		return heuristic
	}

	return mergeByContentKey(heuristic, structured)
}

// mergeByContentKey merges the assistant list into the heuristic list keyed
// by the normalized description, so reordered or partially dropped assistant
// output cannot mispair items. Heuristic entries always win on a key
// collision, with the assistant only filling fields the heuristic pass left
// empty. Assistant entries with no heuristic counterpart are appended.
func mergeByContentKey(heuristic, structured []models.Requirement) []models.Requirement {
	byKey := make(map[string]int, len(heuristic))
	merged := make([]models.Requirement, len(heuristic))
	copy(merged, heuristic)
	for i, req := range merged {
		byKey[cleaner.NormalizedKey(req.Description)] = i
	}

	for _, candidate := range structured {
		if candidate.Description == "" {
			continue
		}
		key := cleaner.NormalizedKey(candidate.Description)
		idx, exists := byKey[key]
		if !exists {
			merged = append(merged, candidate)
			byKey[key] = len(merged) - 1
			continue
		}

		existing := &merged[idx]
		if existing.Field == "" {
			existing.Field = candidate.Field
		}
		if existing.Operator == "" {
			existing.Operator = candidate.Operator
		}
		if existing.Value == nil {
			existing.Value = candidate.Value
		}
		if existing.Weight == 0 {
			existing.Weight = candidate.Weight
		}
		if existing.Category == "" || existing.Category == models.CategoryGeneral {
			if candidate.Category != "" {
				existing.Category = candidate.Category
			}
		}
	}

	return merged
}
