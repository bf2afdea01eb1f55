package main

import (
	"context"
	"log"

	"rentadmin-be/internal/bootstrap"
	"rentadmin-be/internal/config"
	"rentadmin-be/internal/server"
	"rentadmin-be/internal/tracer"
	"rentadmin-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Audit Worker...")
		if err := container.AuditRecorder.StartWorker(context.Background()); err != nil {
			log.Printf("Background Audit Worker Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
