package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/api"
	"github.com/edvin/clinicguard/internal/bitdefender"
	"github.com/edvin/clinicguard/internal/config"
	"github.com/edvin/clinicguard/internal/core"
	"github.com/edvin/clinicguard/internal/db"
	"github.com/edvin/clinicguard/internal/logging"
	"github.com/edvin/clinicguard/internal/metrics"
	"github.com/edvin/clinicguard/internal/model"
	"github.com/edvin/clinicguard/internal/security"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "create-user" {
		createUser(os.Args[2:])
		return
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		logger.Info().Str("dir", cfg.MigrationsDir).Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	metrics.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool)

	bd, err := bitdefender.NewClient(cfg.BitdefenderBaseURL, cfg.BitdefenderAPIKey, cfg.BitdefenderCompanyID)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure bitdefender client")
	}

	checks := map[string]api.Pinger{"db": pool}

	var acronisOpts []acronis.Option
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		acronisOpts = append(acronisOpts, acronis.WithTokenStore(acronis.NewRedisTokenStore(rdb, "")))
		checks["redis"] = api.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info().Msg("sharing acronis token through redis")
	}
	acr := acronis.NewClient(cfg.AcronisBaseURL, cfg.AcronisClientID, cfg.AcronisClientSecret, acronisOpts...)

	plans := security.DefaultPlans()
	if cfg.PlansFile != "" {
		plans, err = security.LoadPlans(cfg.PlansFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.PlansFile).Msg("failed to load plans")
		}
	}

	services := core.NewServices(pool, cfg.SessionSecret, cfg.SessionIssuer)
	srv := api.NewServer(logger, cfg, api.Deps{
		Auth:     services.Auth,
		Users:    services.User,
		Security: security.NewServices(acr, bd, services.User, services.SecurityAction, plans, cfg.AcronisParentTenantID),
		Checks:   checks,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting clinicguard API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

func createUser(args []string) {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	email := fs.String("email", "", "Login email (required)")
	password := fs.String("password", "", "Initial password (required)")
	plan := fs.String("plan", string(model.PlanFree), "Plan tier")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "error: --email and --password are required")
		fmt.Fprintln(os.Stderr, "usage: clinicguard-api create-user --email <email> --password <password> [--plan free]")
		os.Exit(1)
	}
	tier := model.PlanTier(*plan)
	if !tier.Valid() {
		fmt.Fprintf(os.Stderr, "error: unknown plan %q\n", *plan)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := core.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	user := &model.User{ID: uuid.NewString(), Email: *email, PasswordHash: hash, Plan: tier}
	if err := core.NewUserService(pool).Create(ctx, user); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created user %s (%s, plan %s)\n", user.ID, user.Email, user.Plan)
}
