// internal/rules/store/store.go

// Package store persists visa rule sets. The Postgres store is the source of
// truth; decorators add a Redis read-through cache and a best-effort
// Elasticsearch index.
package store

import (
	"context"
	"errors"

	"visa-eligibility-workers/internal/models"
)

// ErrNotFound is returned by Get when no rule set exists for the visa type.
var ErrNotFound = errors.New("rule set not found")

// Store is the rule-set persistence contract. Upsert replaces the stored
// rule set wholesale; there are no partial updates.
type Store interface {
	Get(ctx context.Context, visaType string) (*models.VisaRuleSet, error)
	Upsert(ctx context.Context, ruleSet models.VisaRuleSet) error
	List(ctx context.Context) ([]models.RuleSetSummary, error)
}
