// Package main - Entry point for the tilerate HTTP server
package main

import (
	"flag"
	"net/http"
	"os"

	"go.uber.org/zap"

	"tilerate/api"
	"tilerate/core/tariff"
	"tilerate/internal/config"
	"tilerate/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logging.Fatal("load config", zap.Error(err))
		}
		config.Set(loaded)
		cfg = loaded
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Error("initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}

	// Tariff load failure is fatal for pricing but the server still comes up
	// so the failure is observable at the HTTP boundary as engine-unavailable.
	snap, loadErr := tariff.Load(cfg.Tariffs.Directory)
	if loadErr != nil {
		logging.Error("tariff data failed to load, engines disabled",
			zap.String("directory", cfg.Tariffs.Directory),
			zap.Error(loadErr))
	} else {
		logging.Info("tariff data loaded",
			zap.String("directory", cfg.Tariffs.Directory),
			zap.Int("brands", len(snap.Catalog.Brands)))
	}

	server := api.NewServer(version, snap, loadErr, cfg.Pricing.DefaultKgPerM2)

	logging.Info("tilerate server listening", zap.String("addr", listen), zap.String("version", version))
	if err := http.ListenAndServe(listen, server); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
