package retention

// Reason codes an account deletion can be requested under.
type Reason string

const (
	ReasonGDPRCompliance  Reason = "gdpr_compliance"
	ReasonUserRequest     Reason = "user_request"
	ReasonPolicyViolation Reason = "policy_violation"
	ReasonAdminAction     Reason = "admin_action"
	ReasonInactivity      Reason = "inactivity"
)

const (
	// PurgeFloorYears is the platform-wide minimum an anonymized account is
	// kept before the purge job may finalize it. Reason-specific retention
	// below is advisory and does not shorten this floor.
	PurgeFloorYears = 3

	// UserRequestRetentionDays is the cooling-off window for user-initiated
	// deletions, during which a restore is expected to be painless.
	UserRequestRetentionDays = 30

	// AuditRetentionDays applies to policy-violation deletions, kept longer
	// for dispute resolution.
	AuditRetentionDays = 365

	// DefaultRetentionDays covers every reason without a dedicated rule.
	DefaultRetentionDays = 90
)

// RetentionDays returns the advisory retention window for a deletion reason.
// GDPR requests anonymize immediately; the account still waits out the purge
// floor before final removal.
func RetentionDays(reason Reason) int {
	switch reason {
	case ReasonGDPRCompliance:
		return 0
	case ReasonUserRequest:
		return UserRequestRetentionDays
	case ReasonPolicyViolation:
		return AuditRetentionDays
	default:
		return DefaultRetentionDays
	}
}

// Description renders the human-readable deletion reason persisted on the
// profile and shown in the admin UI.
func Description(reason Reason) string {
	switch reason {
	case ReasonGDPRCompliance:
		return "GDPR compliance request (right to erasure)"
	case ReasonUserRequest:
		return "Account deletion requested by the user"
	case ReasonPolicyViolation:
		return "Account removed for policy violation"
	case ReasonAdminAction:
		return "Account removed by administrator"
	case ReasonInactivity:
		return "Account removed after prolonged inactivity"
	default:
		return "Account deletion (" + string(reason) + ")"
	}
}
