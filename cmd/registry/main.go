package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/api"
	"github.com/mockerhub/registry/pkg/avatars"
	"github.com/mockerhub/registry/pkg/config"
	"github.com/mockerhub/registry/pkg/credentials"
	"github.com/mockerhub/registry/pkg/middleware"
	"github.com/mockerhub/registry/pkg/observability"
	"github.com/mockerhub/registry/pkg/orgs"
	"github.com/mockerhub/registry/pkg/repos"
	"github.com/mockerhub/registry/pkg/store"
	"github.com/mockerhub/registry/pkg/store/cache"
	"github.com/mockerhub/registry/pkg/store/postgres"
	"github.com/mockerhub/registry/pkg/teams"
	"github.com/mockerhub/registry/pkg/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "registry: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := observability.NewLogger(cfg.Observability)
	ctx := context.Background()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db); err != nil {
		return err
	}
	log.Info("database ready")

	pg := postgres.New(db)
	var orgStore store.Orgs = pg.Orgs()

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics()
		go metrics.CollectDBStats(ctx, db, 15*time.Second)
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Cache)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		orgStore = cache.NewOrgs(orgStore, redisClient, cfg.Cache.L1CacheSize, cfg.Cache.L1CacheTTL, metrics)
		log.Info("organization cache enabled")
	}

	avatarGen, err := avatars.NewGenerator(cfg.ImagesDir)
	if err != nil {
		return err
	}

	hasher := credentials.NewPasswordHasher(cfg.Auth.BcryptCost)
	codec := credentials.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	userSvc := users.NewService(pg.Users(), hasher, codec, log)
	orgSvc := orgs.NewService(orgStore, pg.Users(), avatarGen, log)
	teamSvc := teams.NewService(pg.Teams(), orgStore, pg.Users(), pg.Repos(), log)
	repoSvc := repos.NewService(pg.Repos(), pg.Users(), orgStore, pg.Teams(), log)

	if err := userSvc.Bootstrap(ctx, cfg.Auth); err != nil {
		return err
	}

	server := api.NewServer(api.Config{
		Users:   userSvc,
		Orgs:    orgSvc,
		Teams:   teamSvc,
		Repos:   repoSvc,
		Auth:    middleware.NewAuthenticator(codec, log),
		Metrics: metrics,
		Log:     log,
	})

	apiServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(db, redisClient))
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(log, cfg.Server.ShutdownTimeout, apiServer, healthServer)

	// Listen failures surface here instead of exiting from the goroutine, so
	// the deferred cleanup still runs.
	serveErrs := make(chan error, 2)
	go serve(serveErrs, healthServer, "health")
	go serve(serveErrs, apiServer, "api")

	log.WithFields(logrus.Fields{
		"addr":        apiServer.Addr,
		"health_addr": healthServer.Addr,
	}).Info("registry listening")

	shutdownErr := make(chan error, 1)
	go func() { shutdownErr <- shutdown.Wait() }()

	select {
	case err := <-serveErrs:
		return err
	case err := <-shutdownErr:
		return err
	}
}

func serve(errs chan<- error, srv *http.Server, name string) {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs <- fmt.Errorf("%s server: %w", name, err)
	}
}
