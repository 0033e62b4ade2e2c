// internal/rules/store/index.go
package store

import (
	"context"
	"encoding/json"
	"strings"

	"visa-eligibility-workers/internal/common/database"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/models"
	"visa-eligibility-workers/internal/visatypes"
)

// IndexedStore mirrors upserted rule sets into an Elasticsearch index so
// requirement text is searchable. Indexing is best-effort: a failure is
// logged and never fails the upsert.
type IndexedStore struct {
	inner Store
	es    *database.ElasticsearchClient
	index string
	log   logger.Logger
}

// NewIndexedStore wraps inner with Elasticsearch mirroring into index.
func NewIndexedStore(inner Store, es *database.ElasticsearchClient, index string, log logger.Logger) *IndexedStore {
	return &IndexedStore{
		inner: inner,
		es:    es,
		index: index,
		log:   log,
	}
}

func (s *IndexedStore) Get(ctx context.Context, visaType string) (*models.VisaRuleSet, error) {
	return s.inner.Get(ctx, visaType)
}

func (s *IndexedStore) List(ctx context.Context) ([]models.RuleSetSummary, error) {
	return s.inner.List(ctx)
}

// Upsert persists first, then mirrors the document keyed by visa type.
func (s *IndexedStore) Upsert(ctx context.Context, ruleSet models.VisaRuleSet) error {
	if err := s.inner.Upsert(ctx, ruleSet); err != nil {
		return err
	}

	body, err := json.Marshal(ruleSet)
	if err != nil {
		s.log.Warn("failed to encode rule set for indexing", map[string]interface{}{
			"visaType": ruleSet.VisaType,
			"error":    err.Error(),
		})
		return nil
	}

	res, err := s.es.Client.Index(
		s.index,
		strings.NewReader(string(body)),
		s.es.Client.Index.WithContext(ctx),
		s.es.Client.Index.WithDocumentID(visatypes.Normalize(ruleSet.VisaType)),
		s.es.Client.Index.WithRefresh("false"),
	)
	if err != nil {
		s.log.Warn("rule set indexing failed", map[string]interface{}{
			"visaType": ruleSet.VisaType,
			"index":    s.index,
			"error":    err.Error(),
		})
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		s.log.Warn("rule set indexing rejected", map[string]interface{}{
			"visaType": ruleSet.VisaType,
			"index":    s.index,
			"status":   res.Status(),
		})
	}
	return nil
}
