package dto

import (
	"time"
)

// Auth

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// User Management

type UserListResponse struct {
	Id                 string     `json:"id"`
	Email              string     `json:"email"`
	FullName           string     `json:"full_name"`
	Role               string     `json:"role"`
	Status             string     `json:"status"`
	AnonymizationLevel string     `json:"anonymization_level,omitempty"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type UserProfileResponse struct {
	Id                 string     `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	FullName           string     `json:"full_name"`
	Phone              *string    `json:"phone"`
	AvatarURL          *string    `json:"avatar_url"`
	Role               string     `json:"role"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
	DeletionReason     *string    `json:"deletion_reason,omitempty"`
	AnonymizationLevel string     `json:"anonymization_level,omitempty"`
	AnonymizedAt       *time.Time `json:"anonymized_at,omitempty"`
	AnonymousId        *string    `json:"anonymous_id,omitempty"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active locked"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// Anonymization Lifecycle

type AnonymizeUserRequest struct {
	Reason string `json:"reason" validate:"required,oneof=gdpr_compliance user_request policy_violation admin_action inactivity"`
	Level  string `json:"level" validate:"required,oneof=PARTIAL FULL"`
}

type CollectionOutcomeResponse struct {
	Collection string `json:"collection"`
	Action     string `json:"action"`
	Rows       int64  `json:"rows"`
	Error      string `json:"error,omitempty"`
}

type AnonymizeUserResponse struct {
	UserId            string                      `json:"user_id"`
	AnonymousId       string                      `json:"anonymous_id"`
	Level             string                      `json:"level"`
	AnonymizedFields  []string                    `json:"anonymized_fields"`
	Collections       []CollectionOutcomeResponse `json:"collections"`
	FailedCollections []string                    `json:"failed_collections,omitempty"`
}

type BulkAnonymizeRequest struct {
	UserIds []string `json:"user_ids" validate:"required,min=1,dive,uuid"`
	Reason  string   `json:"reason" validate:"required,oneof=gdpr_compliance user_request policy_violation admin_action inactivity"`
	Level   string   `json:"level" validate:"required,oneof=PARTIAL FULL"`
}

type BulkAnonymizeResult struct {
	UserId      string `json:"user_id"`
	Success     bool   `json:"success"`
	AnonymousId string `json:"anonymous_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

type BulkAnonymizeResponse struct {
	SucceededCount int                   `json:"succeeded_count"`
	FailedCount    int                   `json:"failed_count"`
	Results        []BulkAnonymizeResult `json:"results"`
}

type RestoreUserResponse struct {
	UserId string `json:"user_id"`
	// Note reminds operators that personal fields stay anonymized.
	Note string `json:"note"`
}

// Retention Purge

type PurgeStatisticsResponse struct {
	ActiveUsers  int64 `json:"active_users"`
	DeletedUsers int64 `json:"deleted_users"`
}

type PurgeRunResponse struct {
	Success        bool                    `json:"success"`
	PurgesExecuted int                     `json:"purges_executed"`
	Statistics     PurgeStatisticsResponse `json:"statistics"`
	Timestamp      time.Time               `json:"timestamp"`
}

// Dashboard

type AdminDashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	ActiveUsers     int64 `json:"active_users"`
	LockedUsers     int64 `json:"locked_users"`
	DeletedUsers    int64 `json:"deleted_users"`
	AnonymizedUsers int64 `json:"anonymized_users"`
	PurgeEligible   int64 `json:"purge_eligible"`
}

// Logs (zap file reader)

type LogListResponse struct {
	Id        string    `json:"id"`
	Level     string    `json:"level"`
	Module    string    `json:"module,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details,omitempty"`
}
