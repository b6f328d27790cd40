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

// Package models holds the records shared between the scan, fetch, and
// forward stages.
package models

import (
	"fmt"
	"time"
)

// Device is one discovered (address, protocol) pair. Records are never
// mutated in place; a rescan replaces them wholesale.
type Device struct {
	Address      string    `json:"address"`
	Protocol     string    `json:"protocol"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Label        string    `json:"label,omitempty"`
}

// Key returns the registry uniqueness key for the record.
func (d *Device) Key() string {
	return fmt.Sprintf("%s/%s", d.Address, d.Protocol)
}
