// internal/workers/profile/normalize-applicant-profile/handler_test.go
package normalizeapplicantprofile

import (
	"context"
	"testing"

	commonerrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/models"
	"visa-eligibility-workers/internal/profile"

	"github.com/stretchr/testify/assert"
)

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

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), profile.NewNormalizer(), newTestLogger(t))
}

func formFragment() models.ProfileFragment {
	return models.ProfileFragment{
		PersonalInfo: map[string]interface{}{
			"name":           "Priya Sharma",
			"nationality":    "Indian",
			"passportNumber": "Z1234567",
		},
		Education: map[string]interface{}{
			"degrees":      []interface{}{"B.Tech Computer Science"},
			"institutions": []interface{}{"IIT Delhi"},
			"years":        []interface{}{2018.0},
		},
	}
}

func resumeFragment() models.ProfileFragment {
	return models.ProfileFragment{
		Education: map[string]interface{}{
			"degrees":      []interface{}{"M.S. Software Engineering"},
			"institutions": []interface{}{"Stanford"},
			"years":        []interface{}{2021.0},
		},
		Employment: map[string]interface{}{
			"companies":         []interface{}{"Acme", "Globex"},
			"positions":         []interface{}{"Engineer", "Senior Engineer"},
			"yearsOfExperience": 5.0,
			"currentSalary":     "$120,000",
		},
		Financial: map[string]interface{}{
			"income": 120000.0,
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_MergesFragments(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		ApplicantID: "applicant-001",
		Fragments:   []models.ProfileFragment{formFragment(), resumeFragment()},
	})

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, "applicant-001", output.ApplicantID)

	p := output.Profile
	assert.Equal(t, "Priya Sharma", p.PersonalInfo.Name)
	assert.True(t, p.PersonalInfo.HasPassport)

	// Education accumulates across fragments; the master's degree wins the level.
	assert.Equal(t, []string{"B.Tech Computer Science", "M.S. Software Engineering"}, p.Education.Degrees)
	assert.Equal(t, []string{"IIT Delhi", "Stanford"}, p.Education.Institutions)
	assert.Equal(t, models.EducationMaster, p.Education.EducationLevel)

	assert.Equal(t, 5, p.Employment.YearsOfExperience)
	assert.NotNil(t, p.Employment.CurrentSalary)
	assert.Equal(t, 120000.0, *p.Employment.CurrentSalary)
	// Work history implies a job offer when none is stated.
	assert.True(t, p.Employment.HasJobOffer)

	assert.NotNil(t, p.Financial.Income)
	assert.True(t, p.Financial.FinancialSupport)
}

func TestHandler_Execute_Idempotent(t *testing.T) {
	handler := newTestHandler(t)

	first, err := handler.Execute(context.Background(), &Input{
		Fragments: []models.ProfileFragment{formFragment(), resumeFragment()},
	})
	assert.NoError(t, err)

	second, err := handler.Execute(context.Background(), &Input{
		Fragments: []models.ProfileFragment{first.Profile.AsFragment()},
	})
	assert.NoError(t, err)

	assert.Equal(t, first.Profile, second.Profile)
}

func TestHandler_Execute_ExplicitJobOfferWins(t *testing.T) {
	handler := newTestHandler(t)

	fragment := resumeFragment()
	fragment.Employment["hasJobOffer"] = false

	output, err := handler.Execute(context.Background(), &Input{
		Fragments: []models.ProfileFragment{fragment},
	})

	assert.NoError(t, err)
	// The stated value beats the work-history inference.
	assert.False(t, output.Profile.Employment.HasJobOffer)
}

func TestHandler_Execute_ExperienceFromCompanies(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Fragments: []models.ProfileFragment{
			{
				Employment: map[string]interface{}{
					"companies": []interface{}{"Acme", "Globex", "Initech"},
				},
			},
		},
	})

	assert.NoError(t, err)
	// Three employers with no stated tenure estimate to two years each.
	assert.Equal(t, 6, output.Profile.Employment.YearsOfExperience)
}

func TestHandler_Execute_NoFragments(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{ApplicantID: "applicant-001"})

	assert.Error(t, err)
	assert.Nil(t, output)
	stdErr, ok := err.(*commonerrors.StandardError)
	assert.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeValidationFailed, stdErr.Code)
}

func TestHandler_Execute_EmptyFragment(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Fragments: []models.ProfileFragment{{}},
	})

	assert.NoError(t, err)
	p := output.Profile
	assert.False(t, p.PersonalInfo.HasPassport)
	assert.Equal(t, "", p.Education.EducationLevel)
	assert.Zero(t, p.Employment.YearsOfExperience)
	assert.False(t, p.Financial.FinancialSupport)
}
