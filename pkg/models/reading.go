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

package models

import "time"

// Register names polled from every device. The set is fixed; the address
// and scaling for each live in the fetcher's register table.
const (
	RegisterCurrent     = "current"
	RegisterVoltage     = "voltage"
	RegisterTemperature = "temperature"
	RegisterPower       = "power"
)

// Reading is one timestamped register value in engineering units.
// Immutable once written; the readings store is append-only.
type Reading struct {
	Timestamp     time.Time `json:"timestamp"`
	DeviceAddress string    `json:"device_address"`
	Register      string    `json:"register"`
	Value         float64   `json:"value"`
	Unit          string    `json:"unit"`
}
