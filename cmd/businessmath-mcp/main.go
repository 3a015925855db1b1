package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"businessmath-mcp/internal/dispatch"
	"businessmath-mcp/internal/registry"
	"businessmath-mcp/internal/server"
	"businessmath-mcp/internal/telemetry"
	"businessmath-mcp/internal/tools"
	"businessmath-mcp/internal/transport"
)

func main() {
	cfg := server.DefaultConfig()

	httpPort := flag.Int("http", 0, "serve MCP over HTTP on this port (default: stdio)")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()
	cfg.HTTPPort = *httpPort
	cfg.LogLevel = *logLevel

	// Logs go to stderr: the stdio transport owns stdout for frames.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Logger().
		Level(level)

	logger.Info().Str("version", cfg.Version).Msg("Starting BusinessMath MCP server")

	// Registration phase: populate, then freeze. A duplicate tool name is
	// a build defect and aborts before any transport accepts requests.
	reg := registry.New()
	if err := tools.RegisterAll(reg); err != nil {
		logger.Fatal().Err(err).Msg("Tool registration failed")
	}
	reg.Freeze()
	logger.Info().Int("tools", reg.Len()).Msg("Tool registry frozen")

	var metrics *telemetry.Metrics
	if cfg.HTTPPort > 0 {
		metrics = telemetry.NewMetrics(prometheus.DefaultRegisterer)
	}

	disp := dispatch.New(reg, metrics, logger)
	handler := server.NewHandler(reg, disp, cfg, logger)

	if cfg.HTTPPort > 0 {
		runHTTP(cfg, handler, metrics, logger)
		return
	}

	stdio := transport.NewStdio(handler, logger)
	if err := stdio.Run(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Stdio transport failed")
	}
}

func runHTTP(cfg server.Config, handler *server.Handler, metrics *telemetry.Metrics, logger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := telemetry.NewSystemMetricsCollector(metrics, logger, 15*time.Second)
	go collector.Start(ctx)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: transport.NewHTTP(handler, metrics, logger),
	}

	logger.Info().Str("addr", addr).Msg("Serving MCP over HTTP")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("HTTP server failed")
	}
}
