package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lumenhud/lumen/backend/internal/infrastructure/config"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/server"
)

func main() {
	// Parse flags
	port := flag.String("port", "", "Server port (overrides LUMEN_PORT)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Create server
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Background maintenance: decay pruning and energy sampling run on the
	// host schedule so the domain components stay timer-free.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(everySpec(cfg.Maintenance.PruneInterval), func() {
		srv.Allocator().Prune()
	}); err != nil {
		log.Fatalf("Failed to schedule pruning: %v", err)
	}
	if _, err := scheduler.AddFunc(everySpec(cfg.Flow.EnergyInterval), func() {
		srv.FlowStore().UpdateEnergy()
	}); err != nil {
		log.Fatalf("Failed to schedule energy sampling: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}

func everySpec(d time.Duration) string {
	return "@every " + d.String()
}
