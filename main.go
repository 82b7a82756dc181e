package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	account "auction-house/internal/accountService"
	bidding "auction-house/internal/biddingService"
	catalog "auction-house/internal/catalogService"
	"auction-house/internal/config"
	"auction-house/internal/database"
	"auction-house/internal/jobs"
	questions "auction-house/internal/questionService"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/sessioncache"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	seed := flag.Bool("seed", false, "create a demo seller and sample listings on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.Fatal("Failed to load configuration", map[string]any{"error": err.Error()})
	}
	utils.ConfigureLogger(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openStorage(ctx, cfg.Database)
	if err != nil {
		utils.Fatal("Failed to open storage", map[string]any{"driver": cfg.Database.Driver, "error": err.Error()})
	}
	defer closeRepo()

	opts := account.Options{
		SessionTTL: cfg.Auth.SessionTTL,
		CacheTTL:   cfg.Redis.CacheTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}
	if cfg.Redis.Addr != "" {
		cache, err := sessioncache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			utils.Warn("Session cache unavailable, continuing without it", map[string]any{"addr": cfg.Redis.Addr, "error": err.Error()})
		} else {
			defer cache.Close()
			opts.Cache = cache
		}
	}

	accounts := account.NewAccountService(repo, opts)
	catalogSvc := catalog.NewCatalogService(repo)
	biddingSvc := bidding.NewBiddingService(repo)
	questionSvc := questions.NewQuestionService(repo)

	if *seed {
		if err := seedListings(ctx, accounts, catalogSvc); err != nil {
			utils.Warn("Failed to seed demo listings", map[string]any{"error": err.Error()})
		}
	}

	var limiter *server.RateLimiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = server.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	if cfg.Janitor.Schedule != "" {
		var pruner jobs.LimiterPruner
		if limiter != nil {
			pruner = limiter
		}
		janitor, err := jobs.NewJanitor(cfg.Janitor.Schedule, accounts, pruner)
		if err != nil {
			utils.Fatal("Failed to schedule janitor", map[string]any{"error": err.Error()})
		}
		janitor.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			janitor.Stop(stopCtx)
		}()
	}

	router := server.SetupRouter(server.Dependencies{
		Accounts:  accounts,
		Catalog:   catalogSvc,
		Bidding:   biddingSvc,
		Questions: questionSvc,
		Health:    repo,
		Limiter:   limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		utils.Info("Starting auction server", map[string]any{"addr": srv.Addr, "driver": cfg.Database.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("Server stopped unexpectedly", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	utils.Info("Shutting down auction server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("Graceful shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openStorage returns the repository for the configured driver and a func releasing it
func openStorage(ctx context.Context, cfg config.DatabaseConfig) (repository.AuctionDB, func(), error) {
	if cfg.Driver == "memory" {
		return repository.NewMemoryRepo(), func() {}, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db, cfg.Driver); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewSQLRepo(db), func() { db.Close() }, nil
}

// seedListings adds a demo seller with a few running auctions
func seedListings(ctx context.Context, accounts *account.AccountService, catalogSvc *catalog.CatalogService) error {
	sellerID, err := accounts.CreateUser(ctx, "Demo", "Seller", "seller@example.com", "demo-password")
	if err != nil {
		return err
	}

	end := time.Now().Add(7 * 24 * time.Hour).Unix()
	items := []struct {
		name, description string
		startingBid       int64
	}{
		{"Oak writing desk", "Solid oak desk with two drawers", 100},
		{"Brass floor lamp", "Adjustable lamp, works with LED bulbs", 200},
		{"Vintage road bike", "Steel frame, 56cm, recently serviced", 150},
	}

	for _, item := range items {
		id, err := catalogSvc.CreateItem(ctx, sellerID, item.name, item.description, item.startingBid, end)
		if err != nil {
			return err
		}
		utils.Info("Seeded listing", map[string]any{"item_id": id, "name": item.name})
	}
	return nil
}
