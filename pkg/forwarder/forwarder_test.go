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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carverauto/modradar/pkg/config"
	"github.com/carverauto/modradar/pkg/logger"
	"github.com/carverauto/modradar/pkg/models"
)

// fakeDashboard is an httptest-backed stand-in for the remote telemetry
// service, counting each consumed operation.
type fakeDashboard struct {
	server *httptest.Server

	knownDevices map[string]string // name -> device id

	logins  int
	lookups int
	creates int
	pushes  int

	pushedTokens  []string
	pushedBatches [][]Telemetry
	failPush      bool
}

func newFakeDashboard(t *testing.T) *fakeDashboard {
	t.Helper()

	d := &fakeDashboard{knownDevices: map[string]string{}}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		d.logins++
		_ = json.NewEncoder(w).Encode(loginResponse{Token: "jwt-test"})
	})

	mux.HandleFunc("/api/tenant/devices", func(w http.ResponseWriter, r *http.Request) {
		d.lookups++

		name := r.URL.Query().Get("deviceName")
		resp := deviceListResponse{Data: []deviceRecord{}}

		if id, ok := d.knownDevices[name]; ok {
			resp.Data = append(resp.Data, deviceRecord{ID: remoteID{ID: id}, Name: name})
		}

		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/api/device", func(w http.ResponseWriter, r *http.Request) {
		d.creates++

		var req createDeviceRequest

		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		id := "id-" + req.Name
		d.knownDevices[req.Name] = id

		_ = json.NewEncoder(w).Encode(deviceRecord{ID: remoteID{ID: id}, Name: req.Name})
	})

	mux.HandleFunc("/api/device/", func(w http.ResponseWriter, r *http.Request) {
		deviceID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/device/"), "/credentials")
		_ = json.NewEncoder(w).Encode(credentialsResponse{CredentialsID: "token-" + deviceID})
	})

	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		if d.failPush {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		d.pushes++

		parts := strings.Split(r.URL.Path, "/")
		d.pushedTokens = append(d.pushedTokens, parts[3])

		var batch []Telemetry

		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		d.pushedBatches = append(d.pushedBatches, batch)

		w.WriteHeader(http.StatusOK)
	})

	d.server = httptest.NewServer(mux)
	t.Cleanup(d.server.Close)

	return d
}

func (d *fakeDashboard) client(t *testing.T) *Client {
	t.Helper()

	return NewClient(config.Dashboard{
		Endpoint: d.server.URL,
		Username: "tenant@example.org",
		Password: "secret",
	}, nil, logger.NewTestLogger())
}

type fakeLatest struct {
	data map[string]map[string]models.Reading
}

func (f *fakeLatest) Latest() (map[string]map[string]models.Reading, error) {
	return f.data, nil
}

func latestFor(address string, ts time.Time) map[string]map[string]models.Reading {
	return map[string]map[string]models.Reading{
		address: {
			models.RegisterVoltage: {Timestamp: ts, DeviceAddress: address, Register: models.RegisterVoltage, Value: 230.5, Unit: "V"},
			models.RegisterCurrent: {Timestamp: ts, DeviceAddress: address, Register: models.RegisterCurrent, Value: 1.5, Unit: "A"},
		},
	}
}

func newTestCache(t *testing.T) *TokenCache {
	t.Helper()

	cache, err := LoadTokenCache(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, err)

	return cache
}

func TestForwardNewDeviceCreatesThenPushes(t *testing.T) {
	dash := newFakeDashboard(t)
	client := dash.client(t)
	cache := newTestCache(t)

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeLatest{data: latestFor("192.168.1.5", ts)}

	fwd := New(client, client, store, cache, logger.NewTestLogger())

	devices := []models.Device{{Address: "192.168.1.5", Protocol: "modbus"}}
	require.NoError(t, fwd.Run(context.Background(), devices))

	require.Equal(t, 1, dash.creates)
	require.Equal(t, 1, dash.pushes)

	// Token for the new device was cached for the next run.
	token, ok := cache.Get("192.168.1.5")
	require.True(t, ok)
	require.Equal(t, "token-id-modbus_device_192_168_1_5", token)

	require.Len(t, dash.pushedBatches, 1)
	batch := dash.pushedBatches[0]
	require.Len(t, batch, 1)
	require.Equal(t, ts.UnixMilli(), batch[0].TS)
	require.InEpsilon(t, 230.5, batch[0].Values[models.RegisterVoltage], 1e-9)
	require.InEpsilon(t, 1.5, batch[0].Values[models.RegisterCurrent], 1e-9)
}

func TestForwardKnownDeviceSkipsCreate(t *testing.T) {
	dash := newFakeDashboard(t)
	dash.knownDevices[RemoteName("192.168.1.5")] = "existing-id"

	client := dash.client(t)
	cache := newTestCache(t)
	store := &fakeLatest{data: latestFor("192.168.1.5", time.Now().UTC())}

	fwd := New(client, client, store, cache, logger.NewTestLogger())

	devices := []models.Device{{Address: "192.168.1.5", Protocol: "modbus"}}
	require.NoError(t, fwd.Run(context.Background(), devices))

	require.Equal(t, 1, dash.lookups)
	require.Zero(t, dash.creates)
	require.Equal(t, 1, dash.pushes)
}

func TestForwardCachedTokenSkipsLookup(t *testing.T) {
	dash := newFakeDashboard(t)
	client := dash.client(t)

	cache := newTestCache(t)
	require.NoError(t, cache.Put("192.168.1.5", "cached-token"))

	store := &fakeLatest{data: latestFor("192.168.1.5", time.Now().UTC())}
	fwd := New(client, client, store, cache, logger.NewTestLogger())

	devices := []models.Device{{Address: "192.168.1.5", Protocol: "modbus"}}
	require.NoError(t, fwd.Run(context.Background(), devices))

	require.Zero(t, dash.logins)
	require.Zero(t, dash.lookups)
	require.Zero(t, dash.creates)
	require.Equal(t, []string{"cached-token"}, dash.pushedTokens)
}

func TestForwardPushFailureDoesNotAbortRun(t *testing.T) {
	dash := newFakeDashboard(t)
	client := dash.client(t)

	cache := newTestCache(t)
	require.NoError(t, cache.Put("10.0.0.1", "token-a"))
	require.NoError(t, cache.Put("10.0.0.2", "token-b"))

	ts := time.Now().UTC()
	data := latestFor("10.0.0.1", ts)

	for addr, regs := range latestFor("10.0.0.2", ts) {
		data[addr] = regs
	}

	store := &fakeLatest{data: data}
	fwd := New(client, client, store, cache, logger.NewTestLogger())

	dash.failPush = true

	devices := []models.Device{
		{Address: "10.0.0.1", Protocol: "modbus"},
		{Address: "10.0.0.2", Protocol: "modbus"},
	}

	// With failPush on, both pushes fail but the run still completes.
	require.NoError(t, fwd.Run(context.Background(), devices))
	require.Zero(t, dash.pushes)

	// A later run with the service healthy delivers both.
	dash.failPush = false
	require.NoError(t, fwd.Run(context.Background(), devices))
	require.Equal(t, 2, dash.pushes)
}

func TestForwardDeviceWithoutReadingsIsSkipped(t *testing.T) {
	dash := newFakeDashboard(t)
	client := dash.client(t)
	cache := newTestCache(t)

	store := &fakeLatest{data: map[string]map[string]models.Reading{}}
	fwd := New(client, client, store, cache, logger.NewTestLogger())

	devices := []models.Device{{Address: "10.0.0.1", Protocol: "modbus"}}
	require.NoError(t, fwd.Run(context.Background(), devices))

	require.Zero(t, dash.logins)
	require.Zero(t, dash.pushes)
}

func TestForwardMultiProtocolHostPushesOnce(t *testing.T) {
	dash := newFakeDashboard(t)
	client := dash.client(t)

	cache := newTestCache(t)
	require.NoError(t, cache.Put("10.0.0.1", "token-a"))

	store := &fakeLatest{data: latestFor("10.0.0.1", time.Now().UTC())}
	fwd := New(client, client, store, cache, logger.NewTestLogger())

	devices := []models.Device{
		{Address: "10.0.0.1", Protocol: "modbus"},
		{Address: "10.0.0.1", Protocol: "snmp"},
	}

	require.NoError(t, fwd.Run(context.Background(), devices))
	require.Equal(t, 1, dash.pushes)
}

func TestBatchLatestGroupsByTimestamp(t *testing.T) {
	tsOld := time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC)
	tsNew := tsOld.Add(time.Minute)

	byRegister := map[string]models.Reading{
		models.RegisterVoltage: {Timestamp: tsNew, Register: models.RegisterVoltage, Value: 231},
		models.RegisterCurrent: {Timestamp: tsNew, Register: models.RegisterCurrent, Value: 1.4},
		models.RegisterPower:   {Timestamp: tsOld, Register: models.RegisterPower, Value: 320},
	}

	batch := batchLatest(byRegister)
	require.Len(t, batch, 2)

	// Oldest first.
	require.Equal(t, tsOld.UnixMilli(), batch[0].TS)
	require.Len(t, batch[0].Values, 1)
	require.Equal(t, tsNew.UnixMilli(), batch[1].TS)
	require.Len(t, batch[1].Values, 2)
}

func TestRemoteName(t *testing.T) {
	require.Equal(t, "modbus_device_192_168_1_10", RemoteName("192.168.1.10"))
}
