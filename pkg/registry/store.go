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

// Package registry persists the discovered-device registry.
package registry

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"os"
	"sort"

	"github.com/carverauto/modradar/pkg/models"
)

// Store loads and saves the device registry.
type Store interface {
	Load() ([]models.Device, error)
	Save(devices []models.Device) error
}

// FileStore keeps the registry as a JSON array on disk. Save is a full
// replace of the prior registry and is deterministic: saving an equal set
// twice produces byte-identical output.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore builds a FileStore rooted at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the registry. A missing file is an empty registry, not an
// error.
func (s *FileStore) Load() ([]models.Device, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read registry '%s': %w", s.path, err)
	}

	var devices []models.Device

	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registry '%s': %w", s.path, err)
	}

	return devices, nil
}

// Save replaces the registry with the given set. Records are deduplicated
// on (address, protocol), first occurrence winning, and written in stable
// order: ascending address, then protocol.
func (s *FileStore) Save(devices []models.Device) error {
	unique := make([]models.Device, 0, len(devices))
	seen := make(map[string]struct{}, len(devices))

	for _, d := range devices {
		if _, ok := seen[d.Key()]; ok {
			continue
		}

		seen[d.Key()] = struct{}{}
		unique = append(unique, d)
	}

	sort.Slice(unique, func(i, j int) bool {
		if unique[i].Address != unique[j].Address {
			return lessAddress(unique[i].Address, unique[j].Address)
		}

		return unique[i].Protocol < unique[j].Protocol
	})

	data, err := json.MarshalIndent(unique, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry '%s': %w", s.path, err)
	}

	return nil
}

// lessAddress orders addresses numerically when both parse as IPs, so
// 192.168.1.9 sorts before 192.168.1.10. Non-IP addresses fall back to
// string order.
func lessAddress(a, b string) bool {
	ipA, errA := netip.ParseAddr(a)
	ipB, errB := netip.ParseAddr(b)

	if errA == nil && errB == nil {
		return ipA.Compare(ipB) < 0
	}

	return a < b
}
