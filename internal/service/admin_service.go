package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rentadmin-be/internal/dto"
	"rentadmin-be/internal/entity"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/pkg/mailer"
	"rentadmin-be/internal/repository/specification"
	"rentadmin-be/internal/repository/unitofwork"
	"rentadmin-be/pkg/admin/anonymize"
	"rentadmin-be/pkg/admin/audit"
	"rentadmin-be/pkg/admin/dashboard"
	adminEvents "rentadmin-be/pkg/admin/events"
	"rentadmin-be/pkg/admin/mapper"
	"rentadmin-be/pkg/admin/retention"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAnAdmin         = errors.New("account does not have admin access")
	ErrAccountInactive    = errors.New("account is not active")
)

// bulkWorkers caps how many accounts a bulk anonymization processes at once.
const bulkWorkers = 4

type IAdminService interface {
	// Auth
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// Dashboard
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)

	// User Management
	GetAllUsers(ctx context.Context, page, limit int, search string) ([]*dto.UserListResponse, error)
	GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error
	UpdateUserRole(ctx context.Context, userId uuid.UUID, role string) error

	// Deletion Lifecycle
	AnonymizeUser(ctx context.Context, userId uuid.UUID, req dto.AnonymizeUserRequest) (*dto.AnonymizeUserResponse, error)
	BulkAnonymizeUsers(ctx context.Context, req dto.BulkAnonymizeRequest) (*dto.BulkAnonymizeResponse, error)
	RestoreUser(ctx context.Context, userId uuid.UUID) (*dto.RestoreUserResponse, error)
	RunRetentionPurge(ctx context.Context) (*dto.PurgeRunResponse, error)

	// Audit Trail
	GetAuditLogsByUser(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.AuditLogResponse, error)
	GetAuditLogsByAction(ctx context.Context, actionType string, limit int) ([]*dto.AuditLogResponse, error)
	GetAuditLogsByActor(ctx context.Context, actorType string, limit int) ([]*dto.AuditLogResponse, error)
	GetAuditSummary(ctx context.Context) (*dto.AuditSummaryResponse, error)

	// Logs
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger

	// Domain Components
	engine              *anonymize.Engine
	restorer            *anonymize.Restorer
	purgeExecutor       *retention.Executor
	auditRecorder       *audit.Recorder
	dashboardAggregator *dashboard.Aggregator
	eventPublisher      adminEvents.Publisher
	emailService        mailer.IEmailService

	jwtSecret      string
	opsReportEmail string
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	engine *anonymize.Engine,
	restorer *anonymize.Restorer,
	purgeExecutor *retention.Executor,
	auditRecorder *audit.Recorder,
	dashboardAggregator *dashboard.Aggregator,
	eventPublisher adminEvents.Publisher,
	emailService mailer.IEmailService,
	jwtSecret string,
	opsReportEmail string,
) IAdminService {
	return &adminService{
		uowFactory:          uowFactory,
		logger:              logger,
		engine:              engine,
		restorer:            restorer,
		purgeExecutor:       purgeExecutor,
		auditRecorder:       auditRecorder,
		dashboardAggregator: dashboardAggregator,
		eventPublisher:      eventPublisher,
		emailService:        emailService,
		jwtSecret:           jwtSecret,
		opsReportEmail:      opsReportEmail,
	}
}

// ============================================================================
// Auth
// ============================================================================

func (s *adminService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Role != entity.UserRoleAdmin {
		return nil, ErrNotAnAdmin
	}
	if user.Status != entity.UserStatusActive {
		return nil, ErrAccountInactive
	}

	expiresIn := int64(24 * time.Hour / time.Second)
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.auditRecorder.Record(ctx, &entity.AuditLog{
		ActionType:  entity.ActionAdminLogin,
		UserId:      &user.Id,
		Description: "Admin signed in to the back office",
		ActorType:   entity.ActorAdmin,
	})

	return &dto.LoginResponse{AccessToken: signedToken, ExpiresIn: expiresIn}, nil
}

// ============================================================================
// Dashboard & Stats
// ============================================================================

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetStats(ctx, uow)
}

// ============================================================================
// User Management
// ============================================================================

func (s *adminService) GetAllUsers(ctx context.Context, page, limit int, search string) ([]*dto.UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().SearchUsers(ctx, search, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return mapper.UsersToListResponse(users), nil
}

func (s *adminService) GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOneUnscoped(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, anonymize.ErrUserNotFound
	}
	return mapper.UserToProfileResponse(user), nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return anonymize.ErrUserNotFound
	}

	oldStatus := string(user.Status)
	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return err
	}

	action := entity.ActionUserUnlocked
	if status == string(entity.UserStatusLocked) {
		action = entity.ActionUserLocked
	}
	s.auditRecorder.Record(ctx, &entity.AuditLog{
		ActionType:  action,
		UserId:      &userId,
		Description: fmt.Sprintf("Account status changed from %s to %s", oldStatus, status),
		ActorType:   entity.ActorAdmin,
		Metadata:    map[string]interface{}{"old_status": oldStatus, "new_status": status},
	})
	s.eventPublisher.PublishUserStatusChanged(ctx, userId, oldStatus, status)

	return nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, userId uuid.UUID, role string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return anonymize.ErrUserNotFound
	}

	oldRole := string(user.Role)
	if err := uow.UserRepository().UpdateRole(ctx, userId, role); err != nil {
		return err
	}

	s.auditRecorder.Record(ctx, &entity.AuditLog{
		ActionType:  entity.ActionUserRoleChanged,
		UserId:      &userId,
		Description: fmt.Sprintf("Account role changed from %s to %s", oldRole, role),
		ActorType:   entity.ActorAdmin,
		Metadata:    map[string]interface{}{"old_role": oldRole, "new_role": role},
	})

	return nil
}

// ============================================================================
// Deletion Lifecycle
// ============================================================================

func (s *adminService) AnonymizeUser(ctx context.Context, userId uuid.UUID, req dto.AnonymizeUserRequest) (*dto.AnonymizeUserResponse, error) {
	level, err := entity.ParseLevel(req.Level)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := s.engine.Anonymize(ctx, uow, userId, retention.Reason(req.Reason), level)
	if err != nil {
		return nil, err
	}

	s.auditRecorder.Record(ctx, &entity.AuditLog{
		ActionType:  entity.ActionUserAnonymized,
		UserId:      &userId,
		Description: fmt.Sprintf("Account anonymized at level %s (%s)", level, retention.Description(retention.Reason(req.Reason))),
		ActorType:   entity.ActorAdmin,
		Metadata: map[string]interface{}{
			"level":              string(level),
			"reason":             req.Reason,
			"anonymous_id":       result.AnonymousId,
			"failed_collections": result.FailedCollections(),
		},
	})
	s.eventPublisher.PublishUserAnonymized(ctx, userId, result.AnonymousId, string(level), req.Reason)

	return mapper.AnonymizeResultToResponse(result, level), nil
}

// BulkAnonymizeUsers runs the engine over every requested account. Users are
// independent: one failure never rolls back or stops the others, the summary
// reports both sides.
func (s *adminService) BulkAnonymizeUsers(ctx context.Context, req dto.BulkAnonymizeRequest) (*dto.BulkAnonymizeResponse, error) {
	level, err := entity.ParseLevel(req.Level)
	if err != nil {
		return nil, err
	}

	results := make([]dto.BulkAnonymizeResult, len(req.UserIds))

	var wg sync.WaitGroup
	sem := make(chan struct{}, bulkWorkers)
	for i, rawId := range req.UserIds {
		wg.Add(1)
		go func(i int, rawId string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			userId, err := uuid.Parse(rawId)
			if err != nil {
				results[i] = dto.BulkAnonymizeResult{UserId: rawId, Error: "invalid user id"}
				return
			}

			uow := s.uowFactory.NewUnitOfWork(ctx)
			result, err := s.engine.Anonymize(ctx, uow, userId, retention.Reason(req.Reason), level)
			if err != nil {
				results[i] = dto.BulkAnonymizeResult{UserId: rawId, Error: err.Error()}
				return
			}
			results[i] = dto.BulkAnonymizeResult{UserId: rawId, Success: true, AnonymousId: result.AnonymousId}
			s.eventPublisher.PublishUserAnonymized(ctx, userId, result.AnonymousId, string(level), req.Reason)
		}(i, rawId)
	}
	wg.Wait()

	res := &dto.BulkAnonymizeResponse{Results: results}
	for _, r := range results {
		if r.Success {
			res.SucceededCount++
		} else {
			res.FailedCount++
		}
	}

	s.auditRecorder.Record(ctx, &entity.AuditLog{
		ActionType:  entity.ActionBulkAnonymization,
		Description: fmt.Sprintf("Bulk anonymization: %d succeeded, %d failed", res.SucceededCount, res.FailedCount),
		ActorType:   entity.ActorAdmin,
		Metadata: map[string]interface{}{
			"level":     string(level),
			"reason":    req.Reason,
			"requested": len(req.UserIds),
			"succeeded": res.SucceededCount,
			"failed":    res.FailedCount,
		},
	})

	return res, nil
}

func (s *adminService) RestoreUser(ctx context.Context, userId uuid.UUID) (*dto.RestoreUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.restorer.Restore(ctx, uow, userId); err != nil {
		return nil, err
	}

	s.auditRecorder.Record(ctx, &entity.AuditLog{
		ActionType:  entity.ActionUserRestored,
		UserId:      &userId,
		Description: "Account restored, deletion markers cleared",
		ActorType:   entity.ActorAdmin,
	})
	s.eventPublisher.PublishUserRestored(ctx, userId)

	return &dto.RestoreUserResponse{
		UserId: userId.String(),
		Note:   "Deletion markers cleared. Personal fields overwritten during anonymization are not recoverable.",
	}, nil
}

func (s *adminService) RunRetentionPurge(ctx context.Context) (*dto.PurgeRunResponse, error) {
	result := s.purgeExecutor.Run(ctx)
	if result.Err != nil {
		return nil, result.Err
	}

	s.auditRecorder.Record(ctx, &entity.AuditLog{
		ActionType:  entity.ActionRetentionPurge,
		Description: fmt.Sprintf("Retention purge executed, %d accounts purged", result.PurgesExecuted),
		ActorType:   entity.ActorSystem,
		Metadata: map[string]interface{}{
			"purges_executed": result.PurgesExecuted,
			"active_users":    result.Statistics.ActiveUsers,
			"deleted_users":   result.Statistics.DeletedUsers,
		},
	})
	s.eventPublisher.PublishPurgeCompleted(ctx, result.PurgesExecuted, result.Statistics.ActiveUsers, result.Statistics.DeletedUsers)

	if s.opsReportEmail != "" && s.emailService != nil {
		if err := s.emailService.SendPurgeReport(s.opsReportEmail, result.PurgesExecuted,
			result.Statistics.ActiveUsers, result.Statistics.DeletedUsers, result.Timestamp); err != nil {
			s.logger.Warn("RETENTION", "Failed to send purge report email", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return mapper.PurgeResultToResponse(result), nil
}

// ============================================================================
// Audit Trail
// ============================================================================

func (s *adminService) GetAuditLogsByUser(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.AuditLogResponse, error) {
	logs := s.auditRecorder.QueryByUser(ctx, userId, limit)
	return mapper.AuditLogsToResponse(logs), nil
}

func (s *adminService) GetAuditLogsByAction(ctx context.Context, actionType string, limit int) ([]*dto.AuditLogResponse, error) {
	logs := s.auditRecorder.QueryByActionType(ctx, actionType, limit)
	return mapper.AuditLogsToResponse(logs), nil
}

func (s *adminService) GetAuditLogsByActor(ctx context.Context, actorType string, limit int) ([]*dto.AuditLogResponse, error) {
	logs := s.auditRecorder.QueryByActorType(ctx, entity.ActorType(actorType), limit)
	return mapper.AuditLogsToResponse(logs), nil
}

func (s *adminService) GetAuditSummary(ctx context.Context) (*dto.AuditSummaryResponse, error) {
	counts := s.auditRecorder.AggregateLast24h(ctx)
	return &dto.AuditSummaryResponse{
		Since:  time.Now().Add(-24 * time.Hour),
		Counts: counts,
	}, nil
}

// ============================================================================
// Logs
// ============================================================================

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	return s.dashboardAggregator.GetSystemLogs(ctx, s.logger, page, limit, level)
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	return s.dashboardAggregator.GetLogDetail(ctx, s.logger, logId)
}
