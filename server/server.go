// Package server exposes the HTTP surface: liveness, readiness, status, and
// Prometheus metrics. The bot itself talks to Discord over the gateway; this
// listener exists for container orchestration and scraping.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status supplies the runtime facts the endpoints report.
type Status interface {
	GatewayReady() bool
	StoredTimezones() int
	StorePath() string
}

var startedAt = time.Now()

// NewMux returns the HTTP handler with all routes.
func NewMux(st Status) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { handleReadyz(w, st) })
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, st) })
	return mux
}

// handleHealthz answers liveness probes; the process serving HTTP is alive.
func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReadyz answers readiness probes: the gateway session must be up and
// the preference file's directory must exist for writes to land.
func handleReadyz(w http.ResponseWriter, st Status) {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"gateway", func() error {
			if !st.GatewayReady() {
				return fmt.Errorf("gateway session down")
			}
			return nil
		}},
		{"store", func() error {
			_, err := os.Stat(filepath.Dir(st.StorePath()))
			return err
		}},
	}

	w.Header().Set("Content-Type", "application/json")
	for _, check := range checks {
		if err := check.fn(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status":       "not_ready",
				"failed_check": check.name,
				"error":        err.Error(),
			})
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

func handleStatus(w http.ResponseWriter, st Status) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"gateway_ready":    st.GatewayReady(),
		"stored_timezones": st.StoredTimezones(),
		"uptime_seconds":   int(time.Since(startedAt).Seconds()),
	})
}

// Start runs the HTTP server until ctx is cancelled.
func Start(ctx context.Context, addr string, st Status) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(st),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown failed", slog.Any("err", err))
		}
	}()

	slog.Info("http server listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
