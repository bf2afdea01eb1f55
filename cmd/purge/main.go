package main

import (
	"context"
	"log"

	"rentadmin-be/internal/config"
	"rentadmin-be/internal/pkg/logger"
	"rentadmin-be/internal/repository/unitofwork"
	"rentadmin-be/pkg/admin/retention"
	"rentadmin-be/pkg/database"

	"github.com/fatih/color"
)

// Standalone purge runner for operators who prefer a shell cron over the
// HTTP trigger. Exits non-zero when the run fails so cron alerting works.
func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	color.Cyan("🚀 Starting Retention Purge Run\n")

	executor := retention.NewExecutor(uowFactory, sysLogger)
	result := executor.Run(context.Background())

	if result.Err != nil {
		color.Red("Purge run failed: %v", result.Err)
		log.Fatalf("purge aborted: %v", result.Err)
	}

	color.Green("Purge completed at %s", result.Timestamp.Format("2006-01-02 15:04:05"))
	color.Yellow("Accounts purged:  %d", result.PurgesExecuted)
	color.Yellow("Active users:     %d", result.Statistics.ActiveUsers)
	color.Yellow("Deleted users:    %d", result.Statistics.DeletedUsers)
}
