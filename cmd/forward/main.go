package main

import (
	"context"
	"flag"
	"log"

	"github.com/carverauto/modradar/pkg/config"
	"github.com/carverauto/modradar/pkg/forwarder"
	"github.com/carverauto/modradar/pkg/logger"
	"github.com/carverauto/modradar/pkg/readings"
	"github.com/carverauto/modradar/pkg/registry"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	store := registry.NewFileStore(cfg.RegistryFile)

	scanned, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load device registry: %v", err)
	}

	devices := registry.Merge(scanned, cfg.Devices)
	if len(devices) == 0 {
		log.Fatalf("No known devices; run a scan first or list connected_devices in config")
	}

	tokens, err := forwarder.LoadTokenCache(cfg.Dashboard.TokenFile)
	if err != nil {
		log.Fatalf("Failed to load device token cache: %v", err)
	}

	client := forwarder.NewClient(cfg.Dashboard, nil, logg)
	fwd := forwarder.New(client, client, readings.NewCSVStore(cfg.DataFile), tokens, logg)

	if err := fwd.Run(ctx, devices); err != nil {
		log.Fatalf("Failed to read local readings store: %v", err)
	}
}
