package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("POSTGRESQL_CONNECTION", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.LogLevel = "error"
	cfg.HeartbeatInterval = 50 * time.Millisecond
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func waitFor(t *testing.T, done <-chan error, within time.Duration) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(within):
		t.Fatalf("service did not stop within %s", within)
		return nil
	}
}

func TestServe_ShutsDownCleanlyOnCancel(t *testing.T) {
	cfg := testConfig(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, ln) }()

	client := &http.Client{Timeout: time.Second}
	base := "http://" + ln.Addr().String()

	resp, err := client.Get(base + "/config")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"connectionString":"DefaultConnectionString"}`, string(body))

	// The placeholder cannot be parsed, so storage is unavailable.
	resp, err = client.Get(base + "/products")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	cancel()
	assert.NoError(t, waitFor(t, done, time.Second))
}

func TestRun_BindsAnyPort(t *testing.T) {
	cfg := testConfig(t)
	cfg.Port = "0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	assert.NoError(t, waitFor(t, done, time.Second))
}

func TestRun_PortInUse(t *testing.T) {
	cfg := testConfig(t)
	taken, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer taken.Close()
	cfg.Port = strconv.Itoa(taken.Addr().(*net.TCPAddr).Port)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = run(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestStart_InvalidConfigFile(t *testing.T) {
	err := start(context.Background(), "/nonexistent/config.yaml")
	assert.Error(t, err)
}
