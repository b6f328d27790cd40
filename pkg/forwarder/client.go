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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/carverauto/modradar/pkg/config"
	"github.com/carverauto/modradar/pkg/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// Client talks to the dashboard's REST API. It consumes two remote
// operations: find-or-create device by name (returning that device's
// access token) and telemetry push. The admin JWT obtained on login is
// cached for the lifetime of the client, i.e. one forwarder run.
type Client struct {
	endpoint   string
	username   string
	password   string
	httpClient HTTPClient
	logger     logger.Logger

	jwt string
}

var (
	_ Provisioner = (*Client)(nil)
	_ Pusher      = (*Client)(nil)
)

// NewClient builds a dashboard client from config. A nil httpClient gets
// a default with a request timeout.
func NewClient(cfg config.Dashboard, httpClient HTTPClient, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: httpClient,
		logger:     log.WithComponent("dashboard"),
	}
}

// login obtains an admin JWT, reusing the one from an earlier call in
// the same run.
func (c *Client) login(ctx context.Context) (string, error) {
	if c.jwt != "" {
		return c.jwt, nil
	}

	var resp loginResponse

	err := c.doJSON(ctx, http.MethodPost, c.endpoint+"/api/auth/login", "",
		loginRequest{Username: c.username, Password: c.password}, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errAuthFailed, err)
	}

	c.jwt = resp.Token

	return c.jwt, nil
}

// AccessToken implements Provisioner: lookup-by-name, create when
// absent, then fetch the device's access token credentials.
func (c *Client) AccessToken(ctx context.Context, deviceName string) (string, error) {
	jwt, err := c.login(ctx)
	if err != nil {
		return "", err
	}

	deviceID, found, err := c.findDevice(ctx, jwt, deviceName)
	if err != nil {
		return "", err
	}

	if !found {
		deviceID, err = c.createDevice(ctx, jwt, deviceName)
		if err != nil {
			return "", err
		}

		c.logger.Info().Str("device_name", deviceName).Str("device_id", deviceID).Msg("created dashboard device")
	}

	return c.deviceCredentials(ctx, jwt, deviceID)
}

func (c *Client) findDevice(ctx context.Context, jwt, deviceName string) (string, bool, error) {
	lookupURL := fmt.Sprintf("%s/api/tenant/devices?deviceName=%s", c.endpoint, url.QueryEscape(deviceName))

	var resp deviceListResponse

	if err := c.doJSON(ctx, http.MethodGet, lookupURL, jwt, nil, &resp); err != nil {
		return "", false, err
	}

	for _, device := range resp.Data {
		if device.Name == deviceName {
			return device.ID.ID, true, nil
		}
	}

	return "", false, nil
}

func (c *Client) createDevice(ctx context.Context, jwt, deviceName string) (string, error) {
	var resp deviceRecord

	err := c.doJSON(ctx, http.MethodPost, c.endpoint+"/api/device", jwt,
		createDeviceRequest{Name: deviceName, Type: remoteDeviceType}, &resp)
	if err != nil {
		return "", err
	}

	return resp.ID.ID, nil
}

func (c *Client) deviceCredentials(ctx context.Context, jwt, deviceID string) (string, error) {
	var resp credentialsResponse

	credsURL := fmt.Sprintf("%s/api/device/%s/credentials", c.endpoint, deviceID)

	if err := c.doJSON(ctx, http.MethodGet, credsURL, jwt, nil, &resp); err != nil {
		return "", err
	}

	if resp.CredentialsID == "" {
		return "", errNoCredentials
	}

	return resp.CredentialsID, nil
}

// Push implements Pusher. Telemetry is delivered on the device API
// authenticated by the device access token, not the admin JWT.
func (c *Client) Push(ctx context.Context, accessToken string, batch []Telemetry) error {
	pushURL := fmt.Sprintf("%s/api/v1/%s/telemetry", c.endpoint, accessToken)

	return c.doJSON(ctx, http.MethodPost, pushURL, "", batch, nil)
}

// doJSON performs one JSON request/response round-trip. jwt, body, and
// out may each be empty/nil.
func (c *Client) doJSON(ctx context.Context, method, reqURL, jwt string, body, out interface{}) error {
	var reqBody io.Reader = http.NoBody

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if jwt != "" {
		req.Header.Set("X-Authorization", "Bearer "+jwt)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode, resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
