// internal/workers/rules/extract-visa-rules/handler_test.go
package extractvisarules

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/models"
	"visa-eligibility-workers/internal/rules/cleaner"
	"visa-eligibility-workers/internal/rules/extraction"
	"visa-eligibility-workers/internal/rules/mapper"
	"visa-eligibility-workers/internal/rules/store"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Mock Implementations
// ==========================

type MockFetcher struct {
	FetchFunc func(ctx context.Context, url string) ([]models.Candidate, error)
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]models.Candidate, error) {
	return m.FetchFunc(ctx, url)
}

type MockStructurer struct {
	StructureFunc func(ctx context.Context, visaType string, candidates []models.Requirement) ([]models.Requirement, error)
}

func (m *MockStructurer) Structure(ctx context.Context, visaType string, candidates []models.Requirement) ([]models.Requirement, error) {
	return m.StructureFunc(ctx, visaType, candidates)
}

type MockStore struct {
	GetFunc    func(ctx context.Context, visaType string) (*models.VisaRuleSet, error)
	UpsertFunc func(ctx context.Context, ruleSet models.VisaRuleSet) error
	ListFunc   func(ctx context.Context) ([]models.RuleSetSummary, error)
}

func (m *MockStore) Get(ctx context.Context, visaType string) (*models.VisaRuleSet, error) {
	if m.GetFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.GetFunc(ctx, visaType)
}

func (m *MockStore) Upsert(ctx context.Context, ruleSet models.VisaRuleSet) error {
	if m.UpsertFunc == nil {
		return nil
	}
	return m.UpsertFunc(ctx, ruleSet)
}

func (m *MockStore) List(ctx context.Context) ([]models.RuleSetSummary, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx)
}

// ==========================
// Test Helper Functions
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func testCandidates() []models.Candidate {
	return []models.Candidate{
		{Description: "Applicant must hold a bachelor's degree or higher in a related field of study"},
		{Description: "A valid job offer from a US employer is required before filing the petition"},
		{Description: "Applicant should have at least 3 years of work experience in the specialty occupation"},
	}
}

func newTestHandler(t *testing.T, fetcher extraction.PageFetcher, structurer *MockStructurer, ruleStore store.Store) *Handler {
	log := newTestLogger(t)
	var s *extraction.Service
	if structurer == nil {
		s = extraction.NewService(fetcher, nil, cleaner.NewDefault(), mapper.NewDefault(), ruleStore, log)
	} else {
		s = extraction.NewService(fetcher, structurer, cleaner.NewDefault(), mapper.NewDefault(), ruleStore, log)
	}
	return NewHandler(LoadConfig(), s, log)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	var stored models.VisaRuleSet
	mockStore := &MockStore{
		UpsertFunc: func(ctx context.Context, ruleSet models.VisaRuleSet) error {
			stored = ruleSet
			return nil
		},
	}
	fetcher := &MockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]models.Candidate, error) {
			return testCandidates(), nil
		},
	}

	handler := newTestHandler(t, fetcher, nil, mockStore)

	output, err := handler.Execute(context.Background(), &Input{VisaType: "H-1B"})

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, "H-1B", output.VisaType)
	assert.Equal(t, 3, output.RequirementCount)
	assert.Equal(t, "1.0", output.Version)
	assert.NotEmpty(t, output.SourceURL)
	assert.False(t, output.LastUpdated.IsZero())

	assert.Equal(t, "H-1B", stored.VisaType)
	assert.Len(t, stored.Requirements, 3)
	assert.NotEmpty(t, stored.RequirementsBySection)

	// The degree requirement is critical and should map to an education field.
	degree := stored.Requirements[0]
	assert.Equal(t, "educationLevel", degree.Field)
	assert.Equal(t, ">=", degree.Operator)
	assert.True(t, degree.Required)
	assert.Equal(t, models.CriticalWeight, degree.Weight)
}

func TestHandler_Execute_DefaultSourceURL(t *testing.T) {
	var fetchedURL string
	fetcher := &MockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]models.Candidate, error) {
			fetchedURL = url
			return testCandidates(), nil
		},
	}

	handler := newTestHandler(t, fetcher, nil, &MockStore{})

	output, err := handler.Execute(context.Background(), &Input{VisaType: "F-1"})

	assert.NoError(t, err)
	assert.NotEmpty(t, fetchedURL)
	assert.Equal(t, fetchedURL, output.SourceURL)
}

func TestHandler_Execute_FetchFailure(t *testing.T) {
	fetcher := &MockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]models.Candidate, error) {
			return nil, errors.New("connection refused")
		},
	}

	handler := newTestHandler(t, fetcher, nil, &MockStore{})

	output, err := handler.Execute(context.Background(), &Input{VisaType: "H-1B"})

	assert.Error(t, err)
	assert.Nil(t, output)
	stdErr, ok := err.(*commonerrors.StandardError)
	assert.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeFetchFailed, stdErr.Code)
}

func TestHandler_Execute_AssistantFailureDegrades(t *testing.T) {
	fetcher := &MockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]models.Candidate, error) {
			return testCandidates(), nil
		},
	}
	structurer := &MockStructurer{
		StructureFunc: func(ctx context.Context, visaType string, candidates []models.Requirement) ([]models.Requirement, error) {
			return nil, commonerrors.NewAssistantUnavailableError(errors.New("quota exceeded"))
		},
	}

	handler := newTestHandler(t, fetcher, structurer, &MockStore{})

	output, err := handler.Execute(context.Background(), &Input{VisaType: "H-1B"})

	// Assistant problems never fail the job; the heuristic result is kept.
	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, 3, output.RequirementCount)
}

func TestHandler_Execute_AssistantRefinementMerged(t *testing.T) {
	var stored models.VisaRuleSet
	mockStore := &MockStore{
		UpsertFunc: func(ctx context.Context, ruleSet models.VisaRuleSet) error {
			stored = ruleSet
			return nil
		},
	}
	fetcher := &MockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]models.Candidate, error) {
			return testCandidates(), nil
		},
	}
	structurer := &MockStructurer{
		StructureFunc: func(ctx context.Context, visaType string, candidates []models.Requirement) ([]models.Requirement, error) {
			return []models.Requirement{
				{
					Description: "Applicant must demonstrate nonimmigrant intent with ties to home country",
					Category:    models.CategoryDocumentation,
					Required:    true,
					Weight:      models.CriticalWeight,
				},
			}, nil
		},
	}

	handler := newTestHandler(t, fetcher, structurer, mockStore)

	output, err := handler.Execute(context.Background(), &Input{VisaType: "B-2"})

	assert.NoError(t, err)
	// Heuristic requirements are kept and the unmatched assistant item is appended.
	assert.Equal(t, 4, output.RequirementCount)
	assert.Len(t, stored.Requirements, 4)
}

func TestHandler_Execute_UpsertFailure(t *testing.T) {
	fetcher := &MockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]models.Candidate, error) {
			return testCandidates(), nil
		},
	}
	mockStore := &MockStore{
		UpsertFunc: func(ctx context.Context, ruleSet models.VisaRuleSet) error {
			return errors.New("deadlock detected")
		},
	}

	handler := newTestHandler(t, fetcher, nil, mockStore)

	output, err := handler.Execute(context.Background(), &Input{VisaType: "H-1B"})

	assert.Error(t, err)
	assert.Nil(t, output)
	stdErr, ok := err.(*commonerrors.StandardError)
	assert.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeStoreUpsertFailed, stdErr.Code)
}

func TestHandler_Execute_EmptyVisaType(t *testing.T) {
	handler := newTestHandler(t, &MockFetcher{}, nil, &MockStore{})

	output, err := handler.Execute(context.Background(), &Input{})

	assert.Error(t, err)
	assert.Nil(t, output)
	stdErr, ok := err.(*commonerrors.StandardError)
	assert.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeValidationFailed, stdErr.Code)
}

func TestHandler_Execute_DeterministicTimestamp(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher := &MockFetcher{
		FetchFunc: func(ctx context.Context, url string) ([]models.Candidate, error) {
			return testCandidates(), nil
		},
	}

	log := newTestLogger(t)
	service := extraction.NewService(
		fetcher, nil, cleaner.NewDefault(), mapper.NewDefault(), &MockStore{}, log,
		extraction.WithClock(func() time.Time { return fixed }),
	)
	handler := NewHandler(LoadConfig(), service, log)

	output, err := handler.Execute(context.Background(), &Input{VisaType: "L-1"})

	assert.NoError(t, err)
	assert.Equal(t, fixed, output.LastUpdated)
}
