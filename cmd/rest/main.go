package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-be/internal/bootstrap"
	"portfolio-be/internal/config"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/server"
	"portfolio-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Tracing (opt-in)
	shutdownTracer := tracer.InitTracer(cfg.App.Environment)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Bootstrap Dependencies (Container)
	core, err := bootstrap.NewCore(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to start: %v", err)
	}
	defer core.Close()
	container := bootstrap.NewContainer(core)

	// 4. Start Background Services
	go func() {
		if err := container.SyncConsumerService.Consume(ctx); err != nil {
			core.Logger.Error(logger.ModuleSync, "Sync consumer stopped", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	if cfg.Blogger.SchedulerEnabled {
		core.Scheduler.Start()
		defer func() {
			if err := core.Scheduler.Shutdown(); err != nil {
				log.Printf("Scheduler shutdown: %v", err)
			}
		}()
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		done := make(chan struct{})
		go func() {
			_ = srv.Shutdown()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			log.Println("Server shutdown timed out")
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
