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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fairyhunter13/item-registry-service/internal/config"
	httpapi "github.com/fairyhunter13/item-registry-service/internal/http"
	"github.com/fairyhunter13/item-registry-service/internal/obs"
	"github.com/fairyhunter13/item-registry-service/internal/registry"
	"github.com/fairyhunter13/item-registry-service/internal/store"
)

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "item-registry-service",
		Short:         "HTTP service for creating and looking up items",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				return nil
			}
			if err := config.LoadFile(v, cfgFile); err != nil {
				return fmt.Errorf("read config %s: %w", cfgFile, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), config.FromViper(v))
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	cmd.Flags().String("addr", "", "listen address (env HTTP_ADDR)")
	cmd.Flags().String("store", "", "storage backend: memory or sqlite (env STORE_BACKEND)")
	cmd.Flags().String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	bindFlag(v, cmd, config.KeyHTTPAddr, "addr")
	bindFlag(v, cmd, config.KeyStoreBackend, "store")
	bindFlag(v, cmd, config.KeyLogLevel, "log-level")
	return cmd
}

// bindFlag lets an explicitly set flag override env and file values.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
}

func run(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting", "version", version, "store_backend", cfg.StoreBackend)

	tracing, err := obs.InitTracing(parent, obs.TracingConfig{
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TracingSampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tracing.Shutdown(ctx); err != nil {
			obs.Logger.Warn("tracing_shutdown_error", "error", err)
		}
	}()
	obs.Logger.Info("tracing_configured", "exporter", cfg.TracingExporter, "enabled", tracing.Enabled())

	st, closeStore, err := store.Open(parent, cfg.StoreBackend, cfg.CacheTTL)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			obs.Logger.Error("store_close_error", "error", err)
		}
	}()

	app := httpapi.NewApp(cfg, registry.New(st))
	app.Tracing = tracing
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errc:
		obs.Logger.Error("http_server_error", "error", err)
		return err
	case <-ctx.Done():
		obs.Logger.Info("shutdown_signal")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
	return nil
}
