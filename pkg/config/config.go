/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads and validates the pipeline configuration document.
package config

import (
	"fmt"
	"net"

	"github.com/carverauto/modradar/pkg/logger"
	"github.com/carverauto/modradar/pkg/models"
)

const (
	defaultRegistryFile = "connected_devices.json"
	defaultDataFile     = "modbus_data.csv"
	defaultTokenFile    = "device_tokens.json"
)

// Config is the settings document shared by the scan, fetch, and forward
// commands. All three read the same file; each uses the sections it needs.
type Config struct {
	ModbusSettings ModbusSettings  `json:"modbus_settings"`
	NetworkScan    NetworkScan     `json:"network_scan"`
	Protocols      []string        `json:"protocols"`
	Devices        []models.Device `json:"connected_devices"`
	Dashboard      Dashboard       `json:"dashboard"`
	Logging        logger.Config   `json:"logging"`

	// File locations; defaults applied by Validate.
	RegistryFile string `json:"registry_file,omitempty"`
	DataFile     string `json:"data_file,omitempty"`
}

// ModbusSettings carries connection parameters for probes and register
// reads.
type ModbusSettings struct {
	Port    int     `json:"port"`
	Timeout Seconds `json:"timeout"`
	Retries int     `json:"retries"`
}

// NetworkScan describes the subnet sweep.
type NetworkScan struct {
	Subnet      string  `json:"subnet"`
	ScanTimeout Seconds `json:"scan_timeout"`
}

// Dashboard points the forwarder at the remote telemetry service.
type Dashboard struct {
	Endpoint  string `json:"endpoint"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	TokenFile string `json:"token_file,omitempty"`
}

// Validate implements the Validator contract. Any violation aborts the
// run before I/O starts.
func (c *Config) Validate() error {
	if c.ModbusSettings.Port <= 0 || c.ModbusSettings.Port > 65535 {
		return fmt.Errorf("%w: modbus_settings.port %d out of range", ErrInvalidConfig, c.ModbusSettings.Port)
	}

	if c.ModbusSettings.Timeout.Duration() <= 0 {
		return fmt.Errorf("%w: modbus_settings.timeout must be positive", ErrInvalidConfig)
	}

	if c.ModbusSettings.Retries < 0 {
		return fmt.Errorf("%w: modbus_settings.retries must not be negative", ErrInvalidConfig)
	}

	if _, _, err := net.ParseCIDR(c.NetworkScan.Subnet); err != nil {
		return fmt.Errorf("%w: network_scan.subnet %q: %w", ErrInvalidConfig, c.NetworkScan.Subnet, err)
	}

	if c.NetworkScan.ScanTimeout.Duration() <= 0 {
		return fmt.Errorf("%w: network_scan.scan_timeout must be positive", ErrInvalidConfig)
	}

	if len(c.Protocols) == 0 {
		return fmt.Errorf("%w: protocols must list at least one protocol tag", ErrInvalidConfig)
	}

	if c.RegistryFile == "" {
		c.RegistryFile = defaultRegistryFile
	}

	if c.DataFile == "" {
		c.DataFile = defaultDataFile
	}

	if c.Dashboard.TokenFile == "" {
		c.Dashboard.TokenFile = defaultTokenFile
	}

	return nil
}
