// internal/eligibility/service.go
package eligibility

import (
	"context"
	"errors"

	commonerrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/models"
	"visa-eligibility-workers/internal/rules/store"
	"visa-eligibility-workers/internal/visatypes"
)

// Service loads rule sets and runs the evaluator against them.
type Service struct {
	store     store.Store
	evaluator *Evaluator
	log       logger.Logger
}

// NewService creates an eligibility Service.
func NewService(ruleStore store.Store, evaluator *Evaluator, log logger.Logger) *Service {
	return &Service{
		store:     ruleStore,
		evaluator: evaluator,
		log:       log,
	}
}

// Evaluate checks a profile against the stored rule set for one visa type.
func (s *Service) Evaluate(ctx context.Context, visaType string, profile models.ApplicantProfile) (models.Evaluation, error) {
	if visatypes.Normalize(visaType) == "" {
		return models.Evaluation{}, commonerrors.NewValidationFailedError("visaType is required")
	}

	ruleSet, err := s.store.Get(ctx, visaType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Evaluation{}, commonerrors.NewRuleSetNotFoundError(visaType)
		}
		return models.Evaluation{}, commonerrors.NewStoreQueryFailedError(visaType, err)
	}
	if len(ruleSet.Requirements) == 0 {
		// An empty rule set cannot support a verdict either way.
		return models.Evaluation{}, commonerrors.NewRuleSetNotFoundError(visaType)
	}

	return s.evaluator.Evaluate(*ruleSet, profile), nil
}

// EvaluateMultiple evaluates a profile against several visa types. With no
// explicit list it covers every stored visa type. One visa type failing is
// logged and skipped; the batch never aborts. Result order follows the input
// list (or store enumeration order when the list was omitted). The second
// return value counts the visa types that were skipped.
func (s *Service) EvaluateMultiple(ctx context.Context, profile models.ApplicantProfile, visaTypes []string) ([]models.Evaluation, int, error) {
	if len(visaTypes) == 0 {
		summaries, err := s.store.List(ctx)
		if err != nil {
			return nil, 0, commonerrors.NewStoreQueryFailedError("*", err)
		}
		for _, summary := range summaries {
			visaTypes = append(visaTypes, summary.VisaType)
		}
	}

	evaluations := make([]models.Evaluation, 0, len(visaTypes))
	skipped := 0
	for _, visaType := range visaTypes {
		evaluation, err := s.Evaluate(ctx, visaType, profile)
		if err != nil {
			s.log.Warn("skipping visa type in batch evaluation", map[string]interface{}{
				"visaType": visaType,
				"error":    err.Error(),
			})
			skipped++
			continue
		}
		evaluations = append(evaluations, evaluation)
	}
	return evaluations, skipped, nil
}
