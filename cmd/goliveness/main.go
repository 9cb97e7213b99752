// Command goliveness watches the stored session tokens and logs the client
// out once the refresh token is about to expire.
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

	goLiveness "github.com/MrEthical07/goLiveness"
	"github.com/MrEthical07/goLiveness/metrics/export/prometheus"
	"github.com/MrEthical07/goLiveness/navigation"
	"github.com/MrEthical07/goLiveness/permission"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// best-effort: real env and flag defaults apply without a .env file
	_ = godotenv.Load()

	lg, closer, err := initLogger(logConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], lg); err != nil {
		lg.Error("goliveness failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, lg *zap.Logger) error {
	o, err := parseOptions(args)
	if err != nil {
		return err
	}

	store, err := openBackend(ctx, o, lg)
	if err != nil {
		return err
	}
	defer store.close()

	roles := permission.NewCache(nil)
	if o.seeding() {
		reader, err := newTokenReader(o)
		if err != nil {
			return err
		}
		rec, err := seedTokens(ctx, store, reader, o, time.Now())
		if err != nil {
			return fmt.Errorf("seed tokens: %w", err)
		}
		if err := roles.Set([]string{"user"}, []string{"profile.read"}); err != nil {
			return err
		}
		lg.Info("seeded tokens",
			zap.String("subject", rec.Subject),
			zap.Int64("access_expires_at", rec.AccessExpiresAt),
			zap.Int64("refresh_expires_at", rec.RefreshExpiresAt),
		)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	router := navigation.NewRouter(navigation.Options{})
	if err := router.Handle(o.LoginPath, func(_ context.Context, path string) error {
		lg.Info("redirected to login", zap.String("path", path))
		if o.ExitOnLogout {
			cancel()
		}
		return nil
	}); err != nil {
		return err
	}

	m, err := goLiveness.New().
		WithConfig(o.monitorConfig()).
		WithTokenSource(store.tokens).
		WithAuthClearer(store.clearer).
		WithRoleClearer(roles).
		WithNavigator(router).
		WithLogger(lg).
		WithAuditSink(goLiveness.NewZapSink(lg)).
		WithAccessExpiringHandler(func(context.Context) {
			lg.Warn("access token expiring, refresh required")
		}).
		Build()
	if err != nil {
		return err
	}
	defer m.Close()

	if o.MetricsAddr != "" {
		handler, err := metricsMux(m)
		if err != nil {
			return err
		}
		srv := &http.Server{Addr: o.MetricsAddr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				lg.Warn("metrics server shutdown failed", zap.Error(err))
			}
		}()
		lg.Info("serving metrics", zap.String("addr", o.MetricsAddr))
	}

	if err := m.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	lg.Info("goodbye", zap.String("location", router.Current()))
	return nil
}

// metricsMux serves the monitor and Go runtime through client_golang on
// /metrics, and the dependency-free text rendering on /metrics/text.
func metricsMux(m *goLiveness.Monitor) (http.Handler, error) {
	reg := prom.NewRegistry()
	if err := reg.Register(prometheus.NewCollector(m)); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/metrics/text", prometheus.New(m).Handler())
	return mux, nil
}
