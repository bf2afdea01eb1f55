package mapper

import (
	"rentadmin-be/internal/dto"
	"rentadmin-be/internal/entity"
	"rentadmin-be/pkg/admin/anonymize"
	"rentadmin-be/pkg/admin/retention"
)

// UserToListResponse converts entity to list response DTO
func UserToListResponse(u *entity.User) *dto.UserListResponse {
	if u == nil {
		return nil
	}
	return &dto.UserListResponse{
		Id:                 u.Id.String(),
		Email:              u.Email,
		FullName:           u.FullName,
		Role:               string(u.Role),
		Status:             string(u.Status),
		AnonymizationLevel: string(u.AnonymizationLevel),
		DeletedAt:          u.DeletedAt,
		CreatedAt:          u.CreatedAt,
	}
}

// UsersToListResponse converts multiple entities to list response DTOs
func UsersToListResponse(users []*entity.User) []*dto.UserListResponse {
	var res []*dto.UserListResponse
	for _, u := range users {
		res = append(res, UserToListResponse(u))
	}
	return res
}

// UserToProfileResponse converts entity to profile response DTO
func UserToProfileResponse(u *entity.User) *dto.UserProfileResponse {
	if u == nil {
		return nil
	}
	return &dto.UserProfileResponse{
		Id:                 u.Id.String(),
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		FullName:           u.FullName,
		Phone:              u.Phone,
		AvatarURL:          u.AvatarURL,
		Role:               string(u.Role),
		Status:             string(u.Status),
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
		DeletedAt:          u.DeletedAt,
		DeletionReason:     u.DeletionReason,
		AnonymizationLevel: string(u.AnonymizationLevel),
		AnonymizedAt:       u.AnonymizedAt,
		AnonymousId:        u.AnonymousId,
	}
}

// AnonymizeResultToResponse flattens an engine result, including per-collection
// outcomes, into the API shape.
func AnonymizeResultToResponse(r *anonymize.Result, level entity.AnonymizationLevel) *dto.AnonymizeUserResponse {
	if r == nil {
		return nil
	}
	res := &dto.AnonymizeUserResponse{
		UserId:           r.UserId.String(),
		AnonymousId:      r.AnonymousId,
		Level:            string(level),
		AnonymizedFields: r.AnonymizedFields,
	}
	for _, c := range r.Collections {
		out := dto.CollectionOutcomeResponse{
			Collection: string(c.Collection),
			Action:     string(c.Action),
			Rows:       c.Rows,
		}
		if c.Err != nil {
			out.Error = c.Err.Error()
		}
		res.Collections = append(res.Collections, out)
	}
	for _, c := range r.FailedCollections() {
		res.FailedCollections = append(res.FailedCollections, string(c))
	}
	return res
}

// PurgeResultToResponse converts an executor run into the API shape.
func PurgeResultToResponse(r *retention.PurgeResult) *dto.PurgeRunResponse {
	if r == nil {
		return nil
	}
	return &dto.PurgeRunResponse{
		Success:        r.Success,
		PurgesExecuted: r.PurgesExecuted,
		Statistics: dto.PurgeStatisticsResponse{
			ActiveUsers:  r.Statistics.ActiveUsers,
			DeletedUsers: r.Statistics.DeletedUsers,
		},
		Timestamp: r.Timestamp,
	}
}

// AuditLogToResponse converts an audit entity to the API shape.
func AuditLogToResponse(a *entity.AuditLog) *dto.AuditLogResponse {
	if a == nil {
		return nil
	}
	res := &dto.AuditLogResponse{
		Id:          a.Id.String(),
		ActionType:  a.ActionType,
		Description: a.Description,
		ActorType:   string(a.ActorType),
		Metadata:    a.Metadata,
		CreatedAt:   a.CreatedAt,
	}
	if a.UserId != nil {
		s := a.UserId.String()
		res.UserId = &s
	}
	return res
}

// AuditLogsToResponse converts multiple audit entities to API shapes.
func AuditLogsToResponse(logs []*entity.AuditLog) []*dto.AuditLogResponse {
	var res []*dto.AuditLogResponse
	for _, a := range logs {
		res = append(res, AuditLogToResponse(a))
	}
	return res
}
