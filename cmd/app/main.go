package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"quantdesk/configs"
	"quantdesk/internal/auth"
	"quantdesk/internal/database"
	deliveryhttp "quantdesk/internal/delivery/http"
	"quantdesk/internal/domain"
	"quantdesk/internal/infra"
	"quantdesk/internal/quotes"
	"quantdesk/internal/repository"
	"quantdesk/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := configs.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories: PostgreSQL when configured, in-memory otherwise so the
	// demo deployment runs stand-alone.
	var userRepo domain.UserRepository
	var watchlistRepo domain.WatchlistRepository
	if cfg.Database.URL != "" {
		db, err := infra.NewDatabase(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		userRepo = repository.NewUserRepository(db)
		watchlistRepo = repository.NewWatchlistRepository(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory repositories")
		userRepo = repository.NewMemoryUserRepository()
		watchlistRepo = repository.NewMemoryWatchlistRepository()
	}

	authService := auth.NewService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Quote feed: synthetic simulator by default, live poller by config.
	symbols := cfg.Feed.Symbols
	if len(symbols) == 0 {
		symbols = quotes.DefaultSymbols
	}

	var feed domain.QuoteFeed
	var liveFeed *quotes.LiveFeed
	var simulator *quotes.Simulator
	switch cfg.Feed.Mode {
	case configs.FeedModeLive:
		liveFeed = quotes.NewLiveFeed(cfg.Feed.LiveURL, symbols, cfg.Feed.LiveRefresh)
		feed = liveFeed
		log.Printf("[OK] Live quote feed: %s (refresh %s)", cfg.Feed.LiveURL, cfg.Feed.LiveRefresh)
	default:
		simulator = quotes.NewSimulator(symbols, cfg.Feed.Seed, cfg.Feed.MinTick, cfg.Feed.MaxTick)
		feed = simulator
		log.Printf("[OK] Synthetic quote feed: %d symbols, tick %s-%s",
			len(symbols), cfg.Feed.MinTick, cfg.Feed.MaxTick)
	}
	go feed.Run(ctx)

	marketService := service.NewMockMarketService(cfg.Feed.Seed)

	// Scheduled maintenance: nightly demo-state reset, hourly re-anchor
	// for the live feed.
	cronScheduler := cron.New()
	_, err := cronScheduler.AddFunc("0 0 * * *", func() {
		jobCtx, jobCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer jobCancel()
		feed.ResetFavorites()
		for _, id := range auth.BuiltinIDs() {
			if err := watchlistRepo.Reset(jobCtx, id, symbols); err != nil {
				log.Printf("ERROR: demo watch-list reset failed for %s: %v", id, err)
			}
		}
		log.Println("[OK] Demo state reset")
	})
	if err != nil {
		log.Fatalf("Failed to add demo reset cron job: %v", err)
	}

	if liveFeed != nil {
		_, err = cronScheduler.AddFunc("0 * * * *", func() {
			liveFeed.Reanchor()
			log.Println("[OK] Live feed re-anchored")
		})
		if err != nil {
			log.Fatalf("Failed to add re-anchor cron job: %v", err)
		}
	}

	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Public API.
	e := echo.New()
	e.HideBanner = true
	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		AuthHandler:      deliveryhttp.NewAuthHandler(authService),
		UserHandler:      deliveryhttp.NewUserHandler(authService),
		QuoteHandler:     deliveryhttp.NewQuoteHandler(feed),
		WatchlistHandler: deliveryhttp.NewWatchlistHandler(watchlistRepo, feed),
		MarketHandler:    deliveryhttp.NewMarketHandler(marketService),
		AdminHandler:     deliveryhttp.NewAdminHandler(userRepo, feed, marketService),
		TokenResolver:    authService,
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("QuantDesk API starting on %s (env: %s)", addr, cfg.Server.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	// Internal ops listener.
	opsSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.OpsPort),
		Handler:      opsRouter(feed, simulator),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		log.Printf("Ops listener on :%s", cfg.Server.OpsPort)
		if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start ops listener: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	cancel() // stops the feed

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: API shutdown: %v", err)
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: ops shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}

// opsRouter is the internal diagnostics surface: health, a manual tick
// trigger for the simulator, and the raw feed snapshot.
func opsRouter(feed domain.QuoteFeed, simulator *quotes.Simulator) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"service":   "quantdesk-ops",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	r.Get("/feed/snapshot", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"quotes": feed.Snapshot(),
		})
	})

	r.Post("/feed/tick", func(w http.ResponseWriter, req *http.Request) {
		if simulator == nil {
			writeJSON(w, http.StatusConflict, map[string]string{
				"error": "manual tick is only available for the synthetic feed",
			})
			return
		}
		simulator.Tick()
		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "tick applied",
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: failed to encode ops response: %v", err)
	}
}
