// internal/workers/eligibility/evaluate-visa-options/config.go
package evaluatevisaoptions

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
