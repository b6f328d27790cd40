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

import (
	"context"
	"net/http"

	"github.com/carverauto/modradar/pkg/models"
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Provisioner resolves the remote access token for a device name,
// creating the remote device record if it does not exist yet.
type Provisioner interface {
	AccessToken(ctx context.Context, deviceName string) (string, error)
}

// Pusher delivers one telemetry batch using the device access token.
type Pusher interface {
	Push(ctx context.Context, accessToken string, batch []Telemetry) error
}

// LatestReader is the view of the readings store the forwarder needs.
type LatestReader interface {
	Latest() (map[string]map[string]models.Reading, error)
}
