// Command stampbot is the main entrypoint for the Discord timestamp bot.
// It:
//   - Loads configuration and initializes structured logging.
//   - Fails fast when DISCORD_TOKEN is missing, before any network connection.
//   - Opens the flat-file timezone preference store.
//   - Connects to the Discord gateway and registers the slash commands.
//   - Exposes a minimal HTTP server with /healthz, /readyz, /status, /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	_ "time/tzdata" // IANA database for containers without a system zoneinfo

	"github.com/joho/godotenv"

	"github.com/onnwee/stampbot/bot"
	"github.com/onnwee/stampbot/config"
	"github.com/onnwee/stampbot/server"
	"github.com/onnwee/stampbot/store"
	"github.com/onnwee/stampbot/telemetry"
)

// botStatus adapts the bot and store for the HTTP status endpoints.
type botStatus struct {
	bot   *bot.Bot
	store *store.TimezoneStore
}

func (s botStatus) GatewayReady() bool   { return s.bot.Ready() }
func (s botStatus) StoredTimezones() int { return s.store.Len() }
func (s botStatus) StorePath() string    { return s.store.Path() }

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) { // text | json
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	// Config; the token check happens before any connection attempt.
	cfg := config.Load()
	if err := cfg.ValidateBotReady(); err != nil {
		slog.Error("startup failed", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Optional OpenTelemetry tracing (requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("stampbot", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	// Timezone preferences, loaded once; the in-memory copy is the authority.
	st := store.Open(cfg.TimezoneFile)
	telemetry.SetStoredTimezones(st.Len())
	slog.Info("timezone store opened", slog.String("path", cfg.TimezoneFile), slog.Int("users", st.Len()))

	b, err := bot.New(cfg, st)
	if err != nil {
		slog.Error("failed to create bot", slog.Any("err", err))
		// os.Exit skips deferreds; flush the exporter first.
		shutdown()
		os.Exit(1)
	}

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		// An invalid token surfaces here; nothing to recover.
		slog.Error("failed to start bot", slog.Any("err", err))
		shutdown()
		os.Exit(1)
	}

	// HTTP server (health/readiness/status/metrics)
	go func() {
		if err := server.Start(ctx, cfg.HTTPAddr, botStatus{bot: b, store: st}); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	// Block until shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")
}
