package bootstrap

import (
	"context"
	"log"

	"rentadmin-be/internal/config"
	"rentadmin-be/internal/controller"
	"rentadmin-be/internal/pkg/lock"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/pkg/mailer"
	"rentadmin-be/internal/repository/unitofwork"
	"rentadmin-be/internal/service"
	"rentadmin-be/pkg/admin/anonymize"
	"rentadmin-be/pkg/admin/audit"
	"rentadmin-be/pkg/admin/dashboard"
	adminEvents "rentadmin-be/pkg/admin/events"
	"rentadmin-be/pkg/admin/retention"

	pktNats "rentadmin-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AdminController controller.IAdminController

	// Background workers (exposed for main.go to run)
	AuditRecorder *audit.Recorder

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus (in-process, carries audit writes off the request path)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis, used for the per-user anonymization lock. Falls back to an
	// in-process lock when unavailable so a single instance still works.
	var userLocker lock.UserLocker = lock.NewLocalLocker()
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, using in-process user lock: %v", err)
	} else {
		userLocker = lock.NewRedisLocker(rdb)
	}

	// 3. Admin Domain Components
	adminEventPublisher := adminEvents.NewNatsPublisher(natsPub, sysLogger)
	engine := anonymize.NewEngine(sysLogger, userLocker)
	restorer := anonymize.NewRestorer(sysLogger, userLocker)
	purgeExecutor := retention.NewExecutor(uowFactory, sysLogger)
	auditRecorder := audit.NewRecorder(uowFactory, sysLogger, pubSub)
	dashboardAggregator := dashboard.NewAggregator(sysLogger)

	adminService := service.NewAdminService(
		uowFactory,
		sysLogger,
		engine,
		restorer,
		purgeExecutor,
		auditRecorder,
		dashboardAggregator,
		adminEventPublisher,
		emailService,
		cfg.App.JwtSecret,
		cfg.Retention.OpsReportEmail,
	)

	// 4. Controllers
	return &Container{
		AdminController: controller.NewAdminController(adminService, cfg.Retention.CronSecret),
		AuditRecorder:   auditRecorder,
		Logger:          sysLogger,
	}
}
