// internal/workers/notification/send-assessment-notification/config.go
package sendassessmentnotification

import "time"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	AWSRegion    string
	// SMSPriorityThreshold is the input priority that triggers an SMS in
	// addition to the email.
	SMSPriorityThreshold string
	Timeout              time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SMSPriorityThreshold: "high",
		Timeout:              30 * time.Second,
	}
}
