// internal/rules/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"visa-eligibility-workers/internal/common/database"
	"visa-eligibility-workers/internal/models"
	"visa-eligibility-workers/internal/visatypes"
)

// PostgresStore persists rule sets in the visa_rule_sets table. Requirement
// lists are stored as jsonb so the schema survives requirement-shape changes.
type PostgresStore struct {
	db *database.PostgresClient
}

// NewPostgresStore creates a PostgresStore over an open connection.
func NewPostgresStore(db *database.PostgresClient) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get loads the rule set for a visa type, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, visaType string) (*models.VisaRuleSet, error) {
	query := `
		SELECT visa_type, requirements, requirements_by_section, source_url, last_updated, version
		FROM visa_rule_sets
		WHERE visa_type = $1`

	var (
		ruleSet      models.VisaRuleSet
		requirements []byte
		bySection    []byte
		sourceURL    sql.NullString
	)

	row := s.db.QueryRow(ctx, query, visatypes.Normalize(visaType))
	err := row.Scan(&ruleSet.VisaType, &requirements, &bySection, &sourceURL, &ruleSet.LastUpdated, &ruleSet.Version)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query rule set: %w", err)
	}

	if err := json.Unmarshal(requirements, &ruleSet.Requirements); err != nil {
		return nil, fmt.Errorf("decode requirements for %s: %w", ruleSet.VisaType, err)
	}
	if len(bySection) > 0 {
		if err := json.Unmarshal(bySection, &ruleSet.RequirementsBySection); err != nil {
			return nil, fmt.Errorf("decode sections for %s: %w", ruleSet.VisaType, err)
		}
	}
	ruleSet.SourceURL = sourceURL.String

	return &ruleSet, nil
}

// Upsert replaces the rule set for its visa type.
func (s *PostgresStore) Upsert(ctx context.Context, ruleSet models.VisaRuleSet) error {
	requirements, err := json.Marshal(ruleSet.Requirements)
	if err != nil {
		return fmt.Errorf("encode requirements: %w", err)
	}
	bySection, err := json.Marshal(ruleSet.RequirementsBySection)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}

	query := `
		INSERT INTO visa_rule_sets (visa_type, requirements, requirements_by_section, source_url, last_updated, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (visa_type) DO UPDATE SET
			requirements = EXCLUDED.requirements,
			requirements_by_section = EXCLUDED.requirements_by_section,
			source_url = EXCLUDED.source_url,
			last_updated = EXCLUDED.last_updated,
			version = EXCLUDED.version`

	_, err = s.db.Exec(ctx, query,
		visatypes.Normalize(ruleSet.VisaType),
		requirements,
		bySection,
		ruleSet.SourceURL,
		ruleSet.LastUpdated,
		ruleSet.Version,
	)
	if err != nil {
		return fmt.Errorf("upsert rule set %s: %w", ruleSet.VisaType, err)
	}
	return nil
}

// List returns a summary row per stored visa type, ordered by visa type.
func (s *PostgresStore) List(ctx context.Context) ([]models.RuleSetSummary, error) {
	query := `
		SELECT visa_type, last_updated, version
		FROM visa_rule_sets
		ORDER BY visa_type`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rule sets: %w", err)
	}
	defer rows.Close()

	var summaries []models.RuleSetSummary
	for rows.Next() {
		var summary models.RuleSetSummary
		if err := rows.Scan(&summary.VisaType, &summary.LastUpdated, &summary.Version); err != nil {
			return nil, fmt.Errorf("scan rule set summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rule sets: %w", err)
	}
	return summaries, nil
}
