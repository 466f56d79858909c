package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gridbase/fieldconf/internal/api"
	"github.com/gridbase/fieldconf/internal/auth"
	"github.com/gridbase/fieldconf/internal/config"
	"github.com/gridbase/fieldconf/internal/constraint"
	"github.com/gridbase/fieldconf/internal/inspector"
	"github.com/gridbase/fieldconf/internal/records"
	"github.com/gridbase/fieldconf/internal/repo"
	"github.com/gridbase/fieldconf/internal/session"
)

func main() {
	cfg := config.Load()

	repository, err := repo.NewPostgresRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create PostgreSQL repository: %v", err)
	}
	defer repository.Close()

	engine := constraint.NewEngine()
	manager := session.NewManager(repository, engine)
	registry := inspector.NewRegistry()
	recordService := records.NewService(repository.DB())

	var jwtVerifier *auth.JWTVerifier
	if !cfg.AuthDisabled {
		jwtVerifier, err = auth.NewJWTVerifier(cfg.JWKSURL)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	}

	sessionHandler := api.NewSessionHandler(manager, registry)
	recordsHandler := api.NewRecordsHandler(recordService)
	router := api.SetupRoutes(sessionHandler, recordsHandler, jwtVerifier, cfg.FE_BASE_URL)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
