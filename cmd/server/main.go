package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundsift/fundsift/internal/config"
	"github.com/fundsift/fundsift/internal/logging"
	"github.com/fundsift/fundsift/internal/server"
)

func main() {
	port := flag.String("port", "", "Server port (overrides PORT)")
	storeDir := flag.String("store", "", "Record store directory (overrides STORE_DIR)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *storeDir != "" {
		cfg.Store.Dir = *storeDir
	}

	logger := logging.MustNew(cfg.Logging)
	defer logger.Sync()

	srv, err := server.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
