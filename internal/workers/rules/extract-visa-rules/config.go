// internal/workers/rules/extract-visa-rules/config.go
package extractvisarules

import "time"

type Config struct {
	Timeout          time.Duration
	AssistantTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          120 * time.Second,
		AssistantTimeout: 60 * time.Second,
	}
}
