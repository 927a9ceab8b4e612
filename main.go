package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"civiclens/internal/auth"
	"civiclens/internal/config"
	"civiclens/internal/geocode"
	"civiclens/internal/health"
	"civiclens/internal/letter"
	"civiclens/internal/server"
	"civiclens/internal/storage"
	"civiclens/internal/telegram"
	"civiclens/internal/wizard"
)

func main() {
	log.Println("🚀 Starting CivicLens application...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("❌ Invalid configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("📋 Initializing complaint storage...")
	store := storage.New(cfg.StorageFile)

	log.Println("📋 Restoring user session...")
	users := auth.NewSessionStore(cfg.SessionFile)

	log.Println("🔐 Configuring sign-in...")
	provider := auth.NewProvider(cfg)

	log.Println("📨 Configuring Telegram notifications...")
	notifier := telegram.NewClient(cfg)

	log.Println("✉️  Configuring letter generation...")
	pipeline := letter.NewPipeline(ctx, cfg)

	geocoder := geocode.NewClient(cfg.NominatimURL, cfg.HTTPTimeout)
	sessions := wizard.NewManager(geocoder, cfg.GeocodeDebounce, pipeline, store, notifier)

	generator := "gemini"
	if pipeline.UsingFallbackOnly() {
		generator = "template"
	}
	monitor := health.NewMonitor(generator, store)
	health.StartServer(monitor, cfg.HealthCheckPort)

	log.Printf("📚 Tracking %d complaint records", store.Count())

	srv := server.New(cfg, sessions, store, pipeline, provider, users, notifier, monitor, geocoder)
	if err := srv.Start(ctx); err != nil {
		log.Fatal("❌ API server error:", err)
	}

	log.Println("✅ Shutdown complete")
}
