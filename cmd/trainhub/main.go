package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainhub/internal/config"
	"trainhub/internal/domain"
	"trainhub/internal/maintenance"
	"trainhub/internal/observability/logging"
	"trainhub/internal/observability/metrics"
	impl "trainhub/internal/service/impl"
	"trainhub/internal/store"
	httpx "trainhub/internal/transport/http"
	"trainhub/pkg/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "trainhub",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	cfg := config.Load()
	metrics.MustRegister("trainhub")

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: env == "dev"})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if cfg.AutoMigrate {
		if err := gdb.AutoMigrate(&domain.User{}, &domain.Session{}, &domain.AttemptRecord{}); err != nil {
			logger.Error("migrate", "error", err)
			os.Exit(1)
		}
	}

	st := store.New(gdb)

	pw := impl.NewPasswordServiceArgon2id()
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		SigningKey:       []byte(cfg.SigningKey),
		AccessTTL:        cfg.AccessTTL,
		RefreshTTL:       cfg.RefreshTTL,
		ResetPasswordTTL: cfg.ResetPasswordTTL,
		SignupTTL:        cfg.SignupTTL,
	})
	ledger := impl.NewAttemptLedgerImpl(st)
	guard := impl.NewBlockGuardImpl(impl.BlockGuardConfig{BlockDuration: cfg.BlockDuration}, st, ledger)
	sessions := impl.NewSessionServiceImpl(impl.SessionConfig{RefreshTTL: cfg.RefreshTTL}, ts, st)
	auth := impl.NewAuthServiceImpl(
		impl.AuthConfig{MaxAttempts: cfg.MaxAttempts},
		st, pw, ts, ledger, guard,
		impl.NewLogEmailService(),
	)

	router := httpx.NewRouter(httpx.RouterConfig{
		TrustProxy:    cfg.TrustProxy,
		CORSOrigins:   cfg.CORSOrigins,
		RateLimit:     cfg.RateLimit,
		RateLimitWind: cfg.RateLimitWind,
	}, auth, sessions, ts, httpx.NewGuard(guard, st.Users(), ts))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := maintenance.New(st, cfg.SweepInterval)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
