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

package forwarder

import "strings"

// Telemetry is one dashboard telemetry entry: a unix-millisecond
// timestamp and the register values captured at that instant.
type Telemetry struct {
	TS     int64              `json:"ts"`
	Values map[string]float64 `json:"values"`
}

// remoteDeviceType tags devices created on the dashboard.
const remoteDeviceType = "modbus_device"

// RemoteName derives the dashboard device name from a device address.
func RemoteName(address string) string {
	return remoteDeviceType + "_" + strings.ReplaceAll(address, ".", "_")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type remoteID struct {
	ID string `json:"id"`
}

type deviceRecord struct {
	ID   remoteID `json:"id"`
	Name string   `json:"name"`
}

type deviceListResponse struct {
	Data []deviceRecord `json:"data"`
}

type createDeviceRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type credentialsResponse struct {
	CredentialsID string `json:"credentialsId"`
}
