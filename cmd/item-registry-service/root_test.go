package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/item-registry-service/internal/config"
	"github.com/fairyhunter13/item-registry-service/internal/obs"
)

func TestRootCmd_FlagsRegistered(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "addr", "store", "log-level"} {
		require.NotNil(t, cmd.Flags().Lookup(name), "flag %s should be registered", name)
	}
	require.Equal(t, "c", cmd.Flags().Lookup("config").Shorthand)
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "read config")
}

func TestRun_UnknownStoreFails(t *testing.T) {
	cfg := config.Load()
	cfg.StoreBackend = "redis"
	err := run(context.Background(), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "open store")
}

func TestRun_StoreFailureShutsDownTracing(t *testing.T) {
	cfg := config.Load()
	cfg.TracingExporter = "stdout"
	cfg.StoreBackend = "redis"
	defer func() { _, _ = obs.InitTracing(context.Background(), obs.TracingConfig{}) }()

	err := run(context.Background(), cfg)
	require.Error(t, err)

	_, span := otel.GetTracerProvider().Tracer("after-run").Start(context.Background(), "x")
	defer span.End()
	require.False(t, span.IsRecording(), "tracer provider should be shut down when run returns")
}

func TestRun_UnknownTracingExporterFails(t *testing.T) {
	cfg := config.Load()
	cfg.TracingExporter = "zipkin"
	err := run(context.Background(), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "init tracing")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := config.Load()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.StoreBackend = "sqlite"
	cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRun_ListenErrorReturned(t *testing.T) {
	cfg := config.Load()
	cfg.HTTPAddr = "256.0.0.1:bad"
	err := run(context.Background(), cfg)
	require.Error(t, err)
}
