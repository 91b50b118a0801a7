package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/trustplane/trustplane/internal/domain/keydist"
	"github.com/trustplane/trustplane/internal/domain/trust"
	"github.com/trustplane/trustplane/internal/metrics"
	"github.com/trustplane/trustplane/internal/ports"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh signing keys from the distribution source",
	Long: `Pull a signing-key bundle and apply it into the trust store.

By default one refresh iteration runs and the command exits. With
--daemon the refresher keeps running on its configured interval and
serves Prometheus metrics and health endpoints.

Examples:
  trustplane refresh --url https://keys.example.com/bundle.json
  trustplane refresh --file /srv/bundles/bundle.json
  trustplane refresh --daemon`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

// Flags.
var (
	refreshURL    string
	refreshFile   string
	refreshDaemon bool
)

func init() {
	refreshCmd.Flags().StringVar(&refreshURL, "url", "", "bundle URL (overrides config)")
	refreshCmd.Flags().StringVar(&refreshFile, "file", "", "bundle file path (overrides config)")
	refreshCmd.Flags().BoolVar(&refreshDaemon, "daemon", false, "run until interrupted, serving metrics")

	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	loader, err := buildLoader(cfg.BundleURL, cfg.BundlePath)
	if err != nil {
		return err
	}

	mode, err := keydist.ParseUpdateMode(cfg.UpdateMode)
	if err != nil {
		return err
	}
	updater := keydist.NewStoreUpdater(store, mode, keydist.WithUpdaterLogger(logger))

	refresherConfig := keydist.RefresherConfig{
		Loader:      loader,
		Updater:     updater,
		Interval:    time.Duration(cfg.RefreshInterval),
		LoadRetries: 2,
		Logger:      logger,
	}

	if !refreshDaemon {
		refresherConfig.MaxIterations = 1
		return runRefreshOnce(cmd.Context(), refresherConfig)
	}

	refresherConfig.Loader = instrumentedLoader{loader}
	refresherConfig.Updater = instrumentedUpdater{updater}
	return runRefreshDaemon(cmd.Context(), refresherConfig, cfg.ListenAddr, cfg.BundleURL, logger)
}

// buildLoader picks the bundle source: a --file/--url flag beats the
// config, a file beats a URL.
func buildLoader(cfgURL, cfgPath string) (keydist.BundleLoader, error) {
	path := cfgPath
	if refreshFile != "" {
		path = refreshFile
	}
	url := cfgURL
	if refreshURL != "" {
		url = refreshURL
	}

	switch {
	case path != "":
		return keydist.NewFileLoader(path), nil
	case url != "":
		return keydist.NewHTTPLoader(keydist.DefaultHTTPLoaderConfig(url)), nil
	default:
		return nil, fmt.Errorf("no bundle source: set bundle_url or bundle_path, or pass --url/--file")
	}
}

func runRefreshOnce(ctx context.Context, config keydist.RefresherConfig) error {
	refresher, err := keydist.NewRefresher(config)
	if err != nil {
		return err
	}

	handle, err := refresher.Start(ctx)
	if err != nil {
		return err
	}
	if err := handle.Wait(); err != nil {
		return err
	}

	fmt.Println("Refresh complete.")
	return nil
}

func runRefreshDaemon(ctx context.Context, config keydist.RefresherConfig, listenAddr, bundleURL string, logger ports.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refresher, err := keydist.NewRefresher(config)
	if err != nil {
		return err
	}

	handle, err := refresher.Start(ctx)
	if err != nil {
		return err
	}

	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-count", healthcheck.GoroutineCountCheck(200))
	if bundleURL != "" {
		health.AddReadinessCheck("bundle-source", healthcheck.HTTPGetCheck(bundleURL, 5*time.Second))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/live", health.LiveEndpoint)
	mux.HandleFunc("/ready", health.ReadyEndpoint)

	server := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "metrics server failed", ports.F("error", err.Error()))
		}
	}()

	logger.Info(ctx, "refresh daemon started",
		ports.F("interval", time.Duration(config.Interval).String()),
		ports.F("listen_addr", listenAddr))

	<-handle.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	if err := handle.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info(context.Background(), "refresh daemon stopped")
	return nil
}

// instrumentedLoader counts bundle load outcomes.
type instrumentedLoader struct {
	inner keydist.BundleLoader
}

func (l instrumentedLoader) LoadBundle(ctx context.Context) (trust.KeyBundle, error) {
	bundle, err := l.inner.LoadBundle(ctx)
	if err != nil {
		metrics.RefreshLoadsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return trust.KeyBundle{}, err
	}
	metrics.RefreshLoadsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return bundle, nil
}

// instrumentedUpdater counts apply outcomes and tracks freshness.
type instrumentedUpdater struct {
	inner keydist.Updater
}

func (u instrumentedUpdater) Apply(ctx context.Context, bundle trust.KeyBundle) error {
	if err := u.inner.Apply(ctx, bundle); err != nil {
		metrics.RefreshAppliesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}
	metrics.RefreshAppliesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.SigningKeysApplied.Set(float64(len(bundle.Keys)))
	metrics.LastRefreshTimestamp.SetToCurrentTime()
	return nil
}
