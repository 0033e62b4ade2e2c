// internal/workers/profile/normalize-applicant-profile/config.go
package normalizeapplicantprofile

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
