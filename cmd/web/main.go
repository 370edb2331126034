package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jusunglee/hypua"
	"github.com/jusunglee/hypua/internal/db/postgres"
	"github.com/jusunglee/hypua/internal/db/store"
	"github.com/jusunglee/hypua/internal/health"
	"github.com/jusunglee/hypua/internal/logger"
	"github.com/jusunglee/hypua/internal/metrics"
	"github.com/jusunglee/hypua/internal/web"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("hypua-web")

	var (
		port           = fs.Int64Long("port", 3000, "HTTP server port")
		databaseURL    = fs.StringLong("database-url", "sqlite://hypua.db", "document archive URL (sqlite:// path or postgres://)")
		apiKey         = fs.StringLong("api-key", "", "API key required to delete archived documents")
		allowedOrigins = fs.StringLong("allowed-origins", "", "Comma-separated list of allowed CORS origins")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.New()

	ctx, cancel := context.WithCancelCause(context.Background())

	repo, err := store.Open(ctx, *databaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()
	log.InfoContext(ctx, "opened document archive", "table_size", hypua.TableSize())

	// Periodically export pgxpool stats as Prometheus gauges
	if pg, ok := repo.(*postgres.Repository); ok {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s := pg.PoolStats()
					metrics.DBPoolTotalConns.Set(float64(s.TotalConns()))
					metrics.DBPoolIdleConns.Set(float64(s.IdleConns()))
					metrics.DBPoolAcquiredConns.Set(float64(s.AcquiredConns()))
					metrics.DBPoolMaxConns.Set(float64(s.MaxConns()))
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	if *apiKey == "" {
		log.WarnContext(ctx, "api-key not set, document deletion is disabled")
	}

	origins := lo.Compact(lo.Map(strings.Split(*allowedOrigins, ","), func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))

	router := web.NewRouter(repo, log, *apiKey, origins)
	defer router.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("GET /health", health.Handler(repo))
	mux.Handle("/", router.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.InfoContext(ctx, "received signal, shutting down gracefully", "signal", sig)
		cancel(errors.New("signal received"))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(ctx, "server shutdown error", "error", err)
		}
	}()

	log.InfoContext(ctx, "starting web server", "port", *port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
