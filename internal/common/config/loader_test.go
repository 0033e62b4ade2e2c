// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	path := writeConfigFile(t, `
app:
  name: visa-eligibility-workers
  environment: test
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    port: 5432
    database: visarules
    user: worker
    password: ${TEST_DB_PASSWORD}
  redis:
    address: localhost:6379
workers:
  extract-visa-rules:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)

	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, 3600, cfg.Extraction.CacheTTL)
	assert.Equal(t, "visa-rule-sets", cfg.Extraction.Index)
	assert.Equal(t, 30000, cfg.Extraction.FetchTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 60000, cfg.APIs.GenAI.Timeout)

	// Per-worker defaults fill the fields the file left out.
	wcfg := cfg.Workers["extract-visa-rules"]
	assert.True(t, wcfg.Enabled)
	assert.Equal(t, 5, wcfg.MaxJobsActive)
	assert.Equal(t, 30000, wcfg.Timeout)
	assert.Equal(t, 3, wcfg.MaxRetries)
}

func TestLoadFromFile_MissingBrokerAddress(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    host: localhost
    database: visarules
    user: worker
  redis:
    address: localhost:6379
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camunda.broker_address")
}

func TestLoadFromFile_IndexEnabledRequiresElasticsearch(t *testing.T) {
	path := writeConfigFile(t, `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: visarules
    user: worker
  redis:
    address: localhost:6379
extraction:
  index_enabled: true
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elasticsearch")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, GetDuration(30000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}

func TestGetWorkerConfig_FallsBackToDefaults(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"extract-visa-rules": {Enabled: true, MaxJobsActive: 2, Timeout: 120000, MaxRetries: 3},
	}}

	got := GetWorkerConfig(cfg, "extract-visa-rules")
	assert.Equal(t, 2, got.MaxJobsActive)

	fallback := GetWorkerConfig(cfg, "unknown-task")
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 5, fallback.MaxJobsActive)
}

func TestIsWorkerEnabled(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"send-assessment-notification": {Enabled: false},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "send-assessment-notification"))
	// Workers without a config entry default to enabled.
	assert.True(t, IsWorkerEnabled(cfg, "evaluate-eligibility"))
}
