package main

import (
	"context"
	"flag"
	"log"

	"github.com/carverauto/modradar/pkg/config"
	"github.com/carverauto/modradar/pkg/fetcher"
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

	f := fetcher.New(cfg.ModbusSettings, readings.NewCSVStore(cfg.DataFile), logg)
	f.Run(ctx, devices)
}
