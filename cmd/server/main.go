package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/ledgerbot/internal/auth"
	"github.com/mmynk/ledgerbot/internal/bot"
	"github.com/mmynk/ledgerbot/internal/config"
	"github.com/mmynk/ledgerbot/internal/metrics"
	"github.com/mmynk/ledgerbot/internal/middleware"
	"github.com/mmynk/ledgerbot/internal/service"
	"github.com/mmynk/ledgerbot/internal/session"
	"github.com/mmynk/ledgerbot/internal/storage"
	"github.com/mmynk/ledgerbot/internal/storage/postgres"
	"github.com/mmynk/ledgerbot/internal/storage/sqlite"
	"github.com/mmynk/ledgerbot/pkg/logging"
)

var mintToken = flag.String("mint-token", "", "print an API token for the given owner id and exit")

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	keys, err := auth.DeriveKeys(cfg.Secret)
	if err != nil {
		slog.Error("Failed to derive signing keys", "error", err)
		os.Exit(1)
	}
	jwtManager := auth.NewJWTManager(keys.API, cfg.APITokenTTL)

	if *mintToken != "" {
		token, err := jwtManager.Generate(*mintToken)
		if err != nil {
			slog.Error("Failed to mint token", "owner_id", *mintToken, "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := openStore(startCtx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Ping(startCtx); err != nil {
		slog.Error("Storage is not reachable", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	slog.Info("Storage initialized", "driver", cfg.StoreDriver)

	sessions, err := openSessions(startCtx, cfg)
	if err != nil {
		slog.Error("Failed to initialize sessions", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	defer sessions.Close()
	slog.Info("Sessions initialized", "backend", cfg.SessionBackend, "ttl", cfg.SessionTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ledgerBot := bot.New(store, sessions, auth.NewChoiceSigner(keys.Choice, cfg.ChoiceTokenTTL), bot.Options{
		SessionTTL: cfg.SessionTTL,
		Metrics:    metrics.New(reg),
		Logger:     logger,
	})

	mux := http.NewServeMux()

	ledgerPath, ledgerHandler := service.NewLedgerServiceHandler(
		service.NewLedgerService(ledgerBot, store),
		connect.WithInterceptors(
			middleware.RequireAuth(jwtManager),
			middleware.LoggingInterceptor(logger),
		),
	)
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h2c.NewHandler(loggingMiddleware(mux), &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Connect server starting", "address", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	slog.Info("Shutting down", "signal", sig.String())

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	default:
		return sqlite.New(cfg.DBPath)
	}
}

func openSessions(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionMemory:
		return session.NewMemoryStore(), nil
	case config.SessionRedis:
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return session.NewBuntStore(cfg.SessionPath)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
