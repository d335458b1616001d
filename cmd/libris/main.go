// cmd/libris/main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"libris/internal/circulation"
	"libris/internal/config"
	"libris/internal/library"
	"libris/internal/loader"
	platformotel "libris/internal/platform/otel"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdown, err := platformotel.Setup(ctx, "libris", cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer shutdown(ctx)

	svc, err := library.NewService(
		circulation.StandardLoanPolicy{Days: cfg.LoanDays},
		circulation.StandardFinePolicy{PencePerDay: cfg.FinePencePerDay},
	)
	if err != nil {
		log.Fatalf("Failed to create library service: %v", err)
	}

	if cfg.SeedDataDir != "" {
		res, err := loader.LoadDir(ctx, svc, cfg.SeedDataDir)
		if err != nil {
			log.Fatalf("Failed to load seed data: %v", err)
		}
		log.Printf("Seed data: %d rows loaded, %d skipped", res.Loaded, res.Skipped)
	}

	handler := library.NewHandler(svc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Mount("/api/v1", handler.Routes())

	log.Printf("Starting libris on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, router))
}
