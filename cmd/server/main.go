package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"codec8-svr/internal/config"
	"codec8-svr/internal/dispatcher"
	"codec8-svr/internal/grpcclient"
	"codec8-svr/internal/link"
	"codec8-svr/internal/observability"
	"codec8-svr/internal/server"
	"codec8-svr/internal/store"
	"codec8-svr/internal/utilities"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		observability.NewLogger(observability.LogConfig{}).Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(observability.LogConfig{Level: cfg.LogLevel, File: cfg.LogFile})
	logger.Info("Starting codec8-svr...", "port", cfg.TCPPort, "integrity_policy", cfg.IntegrityPolicy)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializar Redis antes del server
	st, rdb, err := store.Dial(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Error("Redis init failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	sinks := map[string]dispatcher.Sink{}
	if cfg.GRPCServer != "" {
		fwd, err := grpcclient.NewGRPCClient(cfg.GRPCServer)
		if err != nil {
			logger.Error("gRPC client init failed", "error", err)
			os.Exit(1)
		}
		defer fwd.Close()
		sinks["grpc"] = fwd
	}

	lk := link.New(cfg.ProxyAddr, logger)
	if lk.Enabled() {
		sinks["link"] = lk
		go lk.Run(ctx)
	}

	rawLog := utilities.NewRawLog(cfg.RawLogDir)
	defer rawLog.Close()

	disp := dispatcher.New(logger, cfg.IntegrityPolicy, st, sinks).WithNotifier(lk)

	go func() {
		if err := observability.StartMetricsServer(cfg.MetricsPort); err != nil {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	srv := server.New(disp, logger, server.Options{
		ReadTimeout:  cfg.ReadTimeout,
		MaxFrameSize: cfg.MaxFrameSize,
		RawLog:       rawLog,
	})
	if err := srv.Start(ctx, ":"+cfg.TCPPort); err != nil {
		logger.Error("TCP server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("codec8-svr stopped")
}
