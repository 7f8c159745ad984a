package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/opencivic-io/socrata-engine/pkg/config"
	"github.com/opencivic-io/socrata-engine/pkg/logging"
	"github.com/opencivic-io/socrata-engine/pkg/mcp"
	"github.com/opencivic-io/socrata-engine/pkg/mcp/tools"
	"github.com/opencivic-io/socrata-engine/pkg/metrics"
	"github.com/opencivic-io/socrata-engine/pkg/socrata"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("transport", cfg.Server.Transport),
		zap.Strings("allowed_domains", cfg.Socrata.Domains),
		zap.Bool("authenticated", cfg.Socrata.HasCredentials()))

	m := metrics.New()
	guard := socrata.NewGuard(cfg.Socrata.Domains)
	client := socrata.NewClient(cfg.Socrata, logger, m)

	srv := mcp.NewServer("socrata-engine", cfg.Version, logger)
	tools.RegisterAll(srv.MCP(), &tools.Deps{
		Client:  client,
		Guard:   guard,
		Logger:  logger,
		Metrics: m,
	}, cfg.Version)

	switch cfg.Server.Transport {
	case "http":
		mux := http.NewServeMux()
		mux.Handle("/mcp", srv.NewStreamableHTTPServer())
		mux.Handle("/metrics", m.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		addr := cfg.Server.BindAddr + ":" + cfg.Server.Port
		logger.Info("Starting socrata-engine",
			zap.String("addr", addr),
			zap.String("version", cfg.Version))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	default:
		if err := srv.ServeStdio(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}
}
