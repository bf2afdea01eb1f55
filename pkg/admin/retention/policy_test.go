package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetentionDays(t *testing.T) {
	tests := []struct {
		name   string
		reason Reason
		want   int
	}{
		{"gdpr requests anonymize immediately", ReasonGDPRCompliance, 0},
		{"user requests get a cooling-off window", ReasonUserRequest, 30},
		{"policy violations are kept for disputes", ReasonPolicyViolation, 365},
		{"admin action falls back to the default", ReasonAdminAction, 90},
		{"inactivity falls back to the default", ReasonInactivity, 90},
		{"unknown reason falls back to the default", Reason("court_order"), 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetentionDays(tt.reason))
		})
	}
}

func TestDescriptionIsNeverEmpty(t *testing.T) {
	reasons := []Reason{
		ReasonGDPRCompliance,
		ReasonUserRequest,
		ReasonPolicyViolation,
		ReasonAdminAction,
		ReasonInactivity,
		Reason("something_else"),
	}
	for _, reason := range reasons {
		assert.NotEmpty(t, Description(reason))
	}
}
