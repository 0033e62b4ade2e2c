// internal/rules/store/postgres_test.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"visa-eligibility-workers/internal/common/database"
	"visa-eligibility-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func setupMockDB(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	s := NewPostgresStore(&database.PostgresClient{DB: db})
	return s, mock, func() { db.Close() }
}

func sampleRuleSet() models.VisaRuleSet {
	return models.VisaRuleSet{
		VisaType: "H-1B",
		Requirements: []models.Requirement{
			{
				Category:    models.CategoryEducation,
				Description: "Applicant must hold a bachelor's degree or higher",
				Required:    true,
				Field:       "educationLevel",
				Operator:    models.OpGreaterEqual,
				Value:       models.EducationBachelor,
				Weight:      models.CriticalWeight,
			},
		},
		SourceURL:   "https://www.uscis.gov/working-in-the-united-states/h-1b-specialty-occupations",
		LastUpdated: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Version:     "1.0",
	}
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock, closeDB := setupMockDB(t)
	defer closeDB()

	ruleSet := sampleRuleSet()
	requirements, _ := json.Marshal(ruleSet.Requirements)
	bySection, _ := json.Marshal(models.GroupBySection(ruleSet.Requirements))

	mock.ExpectQuery(`SELECT visa_type, requirements, requirements_by_section, source_url, last_updated, version`).
		WithArgs("H-1B").
		WillReturnRows(sqlmock.NewRows([]string{
			"visa_type", "requirements", "requirements_by_section", "source_url", "last_updated", "version",
		}).AddRow("H-1B", requirements, bySection, ruleSet.SourceURL, ruleSet.LastUpdated, "1.0"))

	got, err := s.Get(context.Background(), "h-1b")

	assert.NoError(t, err)
	assert.Equal(t, "H-1B", got.VisaType)
	assert.Len(t, got.Requirements, 1)
	assert.Equal(t, "educationLevel", got.Requirements[0].Field)
	assert.Equal(t, ruleSet.SourceURL, got.SourceURL)
	assert.Equal(t, "1.0", got.Version)
	assert.NotEmpty(t, got.RequirementsBySection)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	s, mock, closeDB := setupMockDB(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT visa_type, requirements`).
		WithArgs("O-1").
		WillReturnError(sql.ErrNoRows)

	got, err := s.Get(context.Background(), "O-1")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_Get_NullSourceURL(t *testing.T) {
	s, mock, closeDB := setupMockDB(t)
	defer closeDB()

	requirements, _ := json.Marshal([]models.Requirement{})

	mock.ExpectQuery(`SELECT visa_type, requirements`).
		WithArgs("F-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"visa_type", "requirements", "requirements_by_section", "source_url", "last_updated", "version",
		}).AddRow("F-1", requirements, nil, nil, time.Now(), "1.0"))

	got, err := s.Get(context.Background(), "F-1")

	assert.NoError(t, err)
	assert.Empty(t, got.SourceURL)
	assert.Empty(t, got.RequirementsBySection)
}

func TestPostgresStore_Upsert(t *testing.T) {
	s, mock, closeDB := setupMockDB(t)
	defer closeDB()

	ruleSet := sampleRuleSet()

	mock.ExpectExec(`INSERT INTO visa_rule_sets`).
		WithArgs("H-1B", sqlmock.AnyArg(), sqlmock.AnyArg(), ruleSet.SourceURL, ruleSet.LastUpdated, "1.0").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Upsert(context.Background(), ruleSet)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Upsert_NormalizesVisaType(t *testing.T) {
	s, mock, closeDB := setupMockDB(t)
	defer closeDB()

	ruleSet := sampleRuleSet()
	ruleSet.VisaType = " h-1b "

	mock.ExpectExec(`INSERT INTO visa_rule_sets`).
		WithArgs("H-1B", sqlmock.AnyArg(), sqlmock.AnyArg(), ruleSet.SourceURL, ruleSet.LastUpdated, "1.0").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Upsert(context.Background(), ruleSet)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	s, mock, closeDB := setupMockDB(t)
	defer closeDB()

	updated := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT visa_type, last_updated, version`).
		WillReturnRows(sqlmock.NewRows([]string{"visa_type", "last_updated", "version"}).
			AddRow("B-2", updated, "1.0").
			AddRow("H-1B", updated, "1.0"))

	summaries, err := s.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, "B-2", summaries[0].VisaType)
	assert.Equal(t, "H-1B", summaries[1].VisaType)
}

func TestPostgresStore_List_Empty(t *testing.T) {
	s, mock, closeDB := setupMockDB(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT visa_type, last_updated, version`).
		WillReturnRows(sqlmock.NewRows([]string{"visa_type", "last_updated", "version"}))

	summaries, err := s.List(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, summaries)
}
