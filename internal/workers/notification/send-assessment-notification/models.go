// internal/workers/notification/send-assessment-notification/models.go
package sendassessmentnotification

type Input struct {
	ApplicantID      string                 `json:"applicantId"`
	NotificationType string                 `json:"notificationType"`
	Email            string                 `json:"email,omitempty"`
	Phone            string                 `json:"phone,omitempty"`
	VisaType         string                 `json:"visaType,omitempty"`
	Score            int                    `json:"score,omitempty"`
	IsEligible       bool                   `json:"isEligible,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeAssessmentComplete = "assessment_complete"
	TypeRulesUpdated       = "rules_updated"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
