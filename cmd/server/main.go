package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/postwerk/postwerk/internal/api"
	"github.com/postwerk/postwerk/internal/config"
	"github.com/postwerk/postwerk/internal/db"
	"github.com/postwerk/postwerk/internal/generate"
	"github.com/postwerk/postwerk/internal/plan"
	"github.com/postwerk/postwerk/internal/subscription"
	"github.com/postwerk/postwerk/internal/usage"
)

func main() {
	cfg := config.Load()

	bunDB := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer bunDB.Close()

	priceMapping, err := plan.ParseMapping(cfg.PricePlanMapping)
	if err != nil {
		log.Fatalf("Failed to parse price-plan mapping: %v", err)
	}

	usageStore := usage.NewUsageStore(bunDB)
	subRepo := subscription.NewSubscriptionRepository(bunDB)

	bootstrapCtx := context.Background()
	if err := usageStore.InitializeDatabase(bootstrapCtx); err != nil {
		log.Fatalf("Failed to initialize usage store: %v", err)
	}
	if err := subRepo.InitializeDatabase(bootstrapCtx); err != nil {
		log.Fatalf("Failed to initialize subscription repository: %v", err)
	}

	ledger := usage.NewLedger(usageStore, subRepo, plan.NewResolver(priceMapping))

	generator, err := generate.NewGeminiClient(generate.WithModel(cfg.GeminiModel))
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	usageHandler := api.NewUsageHandler(ledger, cfg.TokenPriceCents)
	generateHandler := api.NewGenerateHandler(ledger, generator)
	router := api.SetupRoutes(usageHandler, generateHandler, cfg.AllowedOrigin)

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

	log.Printf("Server listening on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
