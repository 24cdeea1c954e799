package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/lexctrace"
	httpAdapter "github.com/aretw0/lexctrace/pkg/adapters/http"
	"github.com/aretw0/lexctrace/pkg/adapters/memory"
	"github.com/aretw0/lexctrace/pkg/adapters/redis"
	"github.com/aretw0/lexctrace/pkg/observability"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve LEXICON",
		Short: "Serve trace queries over HTTP",
		Long: `Loads the lexicon once and exposes it as a JSON API: POST /trace, GET /graph,
GET /validate, GET /healthz and Prometheus metrics on GET /metrics.

Trace results are cached in Redis when redis.addr is configured, or in memory
with --memory-cache.`,
		Args: cobra.ExactArgs(1),
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (default \":8080\")")
	cmd.Flags().String("redis-addr", "", "Redis address for the trace cache")
	cmd.Flags().Bool("memory-cache", false, "Cache trace results in process memory")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"addr":       "http.addr",
		"redis-addr": "redis.addr",
	})
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts := []lexctrace.Option{lexctrace.WithMetrics(observability.NewMetrics(reg))}

	memoryCache, _ := cmd.Flags().GetBool("memory-cache")
	switch {
	case cfg.Redis.Addr != "":
		cache := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(cfg.Redis.TTL),
			redis.WithPrefix(cfg.Redis.Prefix),
		)
		defer cache.Close()
		pingCtx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		defer cancel()
		if err := cache.Ping(pingCtx); err != nil {
			return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("Trace cache enabled", "backend", "redis", "addr", cfg.Redis.Addr)
		opts = append(opts, lexctrace.WithCache(cache))
	case memoryCache:
		logger.Info("Trace cache enabled", "backend", "memory")
		opts = append(opts, lexctrace.WithCache(memory.NewCache()))
	}

	eng, err := newEngine(cmd.Context(), cfg, logger, args[0], opts...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpAdapter.NewHandler(eng,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithGatherer(reg),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting lexctrace server", "addr", srv.Addr, "lexicon", args[0], "root", eng.Root())
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("Start shutdown", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		logger.Info("Server stopped gracefully")
		return nil
	}
}
