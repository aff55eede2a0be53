package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitfree/internal/auth"
	"github.com/mmynk/splitfree/internal/config"
	"github.com/mmynk/splitfree/internal/metrics"
	"github.com/mmynk/splitfree/internal/middleware"
	"github.com/mmynk/splitfree/internal/remote"
	"github.com/mmynk/splitfree/internal/service"
	"github.com/mmynk/splitfree/internal/storage"
	"github.com/mmynk/splitfree/internal/storage/postgres"
	"github.com/mmynk/splitfree/internal/storage/sqlite"
	"github.com/mmynk/splitfree/pkg/api/apiconnect"
	"github.com/mmynk/splitfree/pkg/logging"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "splitfree-server",
		Short:        "Serve the SplitFree draft, group and session APIs",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logging.Setup(cfg.Log.Level)

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")

	if err := cmd.Execute(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver)

	client := remote.New(remote.Config{
		BaseURL:         cfg.Remote.BaseURL,
		Timeout:         cfg.Remote.Timeout,
		BreakerFailures: cfg.Remote.BreakerFailures,
		BreakerCooldown: cfg.Remote.BreakerCooldown,
	})
	authenticator := auth.NewAuthenticator(client, store, auth.NewJWTManager(cfg.Auth.JWTSecret), cfg.Auth.SessionTTL)

	// Auth runs first so the logging interceptor sees the member.
	required := connect.WithInterceptors(
		middleware.RequireAuth(authenticator),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
	)
	optional := connect.WithInterceptors(
		middleware.OptionalAuth(authenticator),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewSessionServiceHandler(service.NewSessionService(authenticator, client, slog.Default()), optional))
	mux.Handle(apiconnect.NewDraftServiceHandler(service.NewDraftService(store, client, slog.Default()), required))
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(client, slog.Default()), required))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Add logging and CORS middleware
	handler := loggingMiddleware(corsMiddleware(cfg.Server.CORSOrigin, mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepSessions(ctx, store, cfg.Server.SessionSweep)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "remote", cfg.Remote.BaseURL)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.New(ctx, cfg.PostgresDSN, postgres.Options{MaxConns: cfg.PoolMaxConns})
	default:
		return sqlite.New(cfg.SQLitePath)
	}
}

// sweepSessions purges expired sessions every interval until ctx is done.
func sweepSessions(ctx context.Context, sessions storage.SessionStore, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := sessions.DeleteExpiredSessions(ctx, now.Unix())
			if err != nil {
				slog.Error("Failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("Purged expired sessions", "count", n)
			}
		}
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
