// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters, labelled by command name.
	CommandsHandled *prometheus.CounterVec
	CommandErrors   *prometheus.CounterVec

	// Histogram (seconds)
	CommandDuration prometheus.Observer

	// Gauges
	GatewayConnectedGauge prometheus.Gauge
	StoredTimezonesGauge  prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{Name: "stampbot_commands_total", Help: "Number of slash commands handled"}, []string{"command"})
		CommandErrors = promauto.NewCounterVec(prometheus.CounterOpts{Name: "stampbot_command_errors_total", Help: "Number of slash commands answered with an error reply"}, []string{"command"})
		CommandDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "stampbot_command_duration_seconds", Help: "Command handling duration seconds", Buckets: prometheus.DefBuckets})
		GatewayConnectedGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "stampbot_gateway_connected", Help: "Discord gateway session up=1 down=0"})
		StoredTimezonesGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "stampbot_stored_timezones", Help: "Number of users with a stored timezone preference"})
	})
}

// ObserveCommand records one handled command with its outcome and duration.
func ObserveCommand(command string, d time.Duration, failed bool) {
	if CommandsHandled == nil {
		return
	}
	CommandsHandled.WithLabelValues(command).Inc()
	if failed {
		CommandErrors.WithLabelValues(command).Inc()
	}
	CommandDuration.Observe(d.Seconds())
}

// SetGatewayConnected sets the gateway gauge to 1 if up else 0.
func SetGatewayConnected(up bool) {
	if GatewayConnectedGauge == nil {
		return
	}
	if up {
		GatewayConnectedGauge.Set(1)
	} else {
		GatewayConnectedGauge.Set(0)
	}
}

// SetStoredTimezones records the current preference count.
func SetStoredTimezones(n int) {
	if StoredTimezonesGauge != nil {
		StoredTimezonesGauge.Set(float64(n))
	}
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with a corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
