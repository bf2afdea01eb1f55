package dto

import "time"

type AuditLogResponse struct {
	Id          string                 `json:"id"`
	ActionType  string                 `json:"action_type"`
	UserId      *string                `json:"user_id,omitempty"`
	Description string                 `json:"description"`
	ActorType   string                 `json:"actor_type"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type AuditSummaryResponse struct {
	Since  time.Time        `json:"since"`
	Counts map[string]int64 `json:"counts"`
}
