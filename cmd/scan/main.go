package main

import (
	"context"
	"flag"
	"log"

	"github.com/carverauto/modradar/pkg/config"
	"github.com/carverauto/modradar/pkg/logger"
	"github.com/carverauto/modradar/pkg/models"
	"github.com/carverauto/modradar/pkg/probe"
	"github.com/carverauto/modradar/pkg/registry"
	"github.com/carverauto/modradar/pkg/scan"
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

	params := probe.Params{
		Port:    cfg.ModbusSettings.Port,
		Timeout: cfg.NetworkScan.ScanTimeout.Duration(),
	}

	scanner, err := scan.NewScanner(cfg.NetworkScan.Subnet, cfg.Protocols, params, logg)
	if err != nil {
		log.Fatalf("Failed to create scanner: %v", err)
	}

	results, err := scanner.Scan(ctx)
	if err != nil {
		log.Fatalf("Failed to start scan: %v", err)
	}

	var devices []models.Device

	for device := range results {
		devices = append(devices, device)
	}

	store := registry.NewFileStore(cfg.RegistryFile)

	if err := store.Save(devices); err != nil {
		log.Fatalf("Failed to save device registry: %v", err)
	}
}
