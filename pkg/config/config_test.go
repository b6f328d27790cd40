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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"modbus_settings": {"port": 502, "timeout": 0.5, "retries": 2},
		"network_scan": {"subnet": "192.168.1.0/24", "scan_timeout": 1},
		"protocols": ["modbus"],
		"connected_devices": [{"address": "10.0.0.5", "protocol": "modbus"}]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 502, cfg.ModbusSettings.Port)
	require.Equal(t, 500*time.Millisecond, cfg.ModbusSettings.Timeout.Duration())
	require.Equal(t, 2, cfg.ModbusSettings.Retries)
	require.Equal(t, "192.168.1.0/24", cfg.NetworkScan.Subnet)
	require.Equal(t, time.Second, cfg.NetworkScan.ScanTimeout.Duration())
	require.Len(t, cfg.Devices, 1)
	require.Equal(t, "10.0.0.5", cfg.Devices[0].Address)

	// Defaults applied by Validate.
	require.Equal(t, "connected_devices.json", cfg.RegistryFile)
	require.Equal(t, "modbus_data.csv", cfg.DataFile)
	require.Equal(t, "device_tokens.json", cfg.Dashboard.TokenFile)
}

func TestLoadTimeoutAsDurationString(t *testing.T) {
	path := writeConfig(t, `{
		"modbus_settings": {"port": 502, "timeout": "250ms", "retries": 0},
		"network_scan": {"subnet": "10.0.0.0/30", "scan_timeout": "2s"},
		"protocols": ["modbus"]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, cfg.ModbusSettings.Timeout.Duration())
	require.Equal(t, 2*time.Second, cfg.NetworkScan.ScanTimeout.Duration())
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "port out of range",
			content: `{
				"modbus_settings": {"port": 0, "timeout": 1, "retries": 0},
				"network_scan": {"subnet": "10.0.0.0/24", "scan_timeout": 1},
				"protocols": ["modbus"]
			}`,
		},
		{
			name: "negative timeout",
			content: `{
				"modbus_settings": {"port": 502, "timeout": -1, "retries": 0},
				"network_scan": {"subnet": "10.0.0.0/24", "scan_timeout": 1},
				"protocols": ["modbus"]
			}`,
		},
		{
			name: "negative retries",
			content: `{
				"modbus_settings": {"port": 502, "timeout": 1, "retries": -1},
				"network_scan": {"subnet": "10.0.0.0/24", "scan_timeout": 1},
				"protocols": ["modbus"]
			}`,
		},
		{
			name: "malformed subnet",
			content: `{
				"modbus_settings": {"port": 502, "timeout": 1, "retries": 0},
				"network_scan": {"subnet": "not-a-cidr", "scan_timeout": 1},
				"protocols": ["modbus"]
			}`,
		},
		{
			name: "missing scan timeout",
			content: `{
				"modbus_settings": {"port": 502, "timeout": 1, "retries": 0},
				"network_scan": {"subnet": "10.0.0.0/24"},
				"protocols": ["modbus"]
			}`,
		},
		{
			name: "empty protocols",
			content: `{
				"modbus_settings": {"port": 502, "timeout": 1, "retries": 0},
				"network_scan": {"subnet": "10.0.0.0/24", "scan_timeout": 1},
				"protocols": []
			}`,
		},
		{
			name:    "not json",
			content: `port = 502`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
