package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayushsync/terminology-api/ayushparser"
	"github.com/ayushsync/terminology-api/config"
	"github.com/ayushsync/terminology-api/data"
	"github.com/ayushsync/terminology-api/handlers"
	"github.com/ayushsync/terminology-api/icd11"
	"github.com/ayushsync/terminology-api/logging"
	"github.com/ayushsync/terminology-api/scheduler"
	"github.com/ayushsync/terminology-api/server"
	"github.com/ayushsync/terminology-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	// Environment file is optional; real deployments set the variables.
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel)

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	parser := ayushparser.NewParser(cfg.DataDir)

	gateway := icd11.NewClient(icd11.Options{
		ClientID:     cfg.WHOClientID,
		ClientSecret: cfg.WHOClientSecret,
		ManualToken:  cfg.WHOManualToken,
		Timeout:      time.Duration(cfg.ICDTimeoutSeconds) * time.Second,
		ResponseTTL:  time.Duration(cfg.ICDCacheTTLMinutes) * time.Minute,
	})

	sched := scheduler.NewScheduler(dataContainer, parser, gateway.ResponseCache())
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	handler := handlers.NewHTTPHandler(dataContainer, validation.NewDataValidator(), gateway)
	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
