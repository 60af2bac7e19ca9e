package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"PocketCatalog/internal/catalog"
	"PocketCatalog/internal/config"
	"PocketCatalog/pkg/kit"
)

func main() {
	configFile := os.Getenv("CONFIG_FILE")

	cfg, err := config.Load(configFile)
	if err != nil {
		// No logger yet: config has to load before anything else.
		panic(err)
	}

	service := "catalogd"
	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if configFile != "" {
		err := config.Watch(configFile, func(_ config.Config, werr error) {
			if werr != nil {
				log.Warn("config file changed but is invalid", zap.Error(werr))
				return
			}
			// Wiring is fixed at startup; a changed file takes effect on
			// the next restart.
			log.Info("config file changed, restart to apply")
		})
		if err != nil {
			log.Warn("config watch failed", zap.Error(err))
		}
	}

	store := openStore(cfg, log)

	syncer := &catalog.Synchronizer{
		Remote: catalog.NewRemoteClient(cfg.RemoteBaseURL),
		Store:  store,
		Log:    log,
	}

	// Warm the working set before serving. A dead remote is fine here: the
	// refresh falls back to whatever the cache holds.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	out := syncer.Refresh(ctx)
	cancel()
	log.Info("initial refresh",
		zap.String("source", string(out.Source)),
		zap.Int("count", out.Count),
		zap.Error(out.Err),
	)

	s := &catalog.Server{
		Sync:    syncer,
		Log:     log,
		Limiter: kit.NewIPRateLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow),
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(cfg config.Config, log *zap.Logger) catalog.Store {
	if cfg.DatabaseDSN == "" {
		log.Info("no database configured, cache is in-memory only")
		return catalog.NewMemStore()
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}

	store := catalog.NewPostgresStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Migrate(ctx); err != nil {
		// The cache is advisory. Running with a broken one beats not
		// running at all.
		log.Warn("cache migration failed", zap.Error(err))
	}
	return store
}
