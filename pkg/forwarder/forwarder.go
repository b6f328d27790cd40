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

// Package forwarder pushes the latest local readings to the telemetry
// dashboard, creating dashboard device records as needed.
package forwarder

import (
	"context"
	"sort"

	"github.com/carverauto/modradar/pkg/logger"
	"github.com/carverauto/modradar/pkg/models"
)

// Forwarder walks the device registry and, for each device address,
// resolves a dashboard access token (cache, then lookup-by-name, then
// create) and pushes the most recent reading per register. Failures are
// per-device: a device that cannot be provisioned or pushed is logged
// and skipped, never aborting the run.
type Forwarder struct {
	provisioner Provisioner
	pusher      Pusher
	store       LatestReader
	tokens      *TokenCache
	logger      logger.Logger
}

// New builds a Forwarder. provisioner and pusher are usually the same
// *Client.
func New(provisioner Provisioner, pusher Pusher, store LatestReader, tokens *TokenCache, log logger.Logger) *Forwarder {
	return &Forwarder{
		provisioner: provisioner,
		pusher:      pusher,
		store:       store,
		tokens:      tokens,
		logger:      log.WithComponent("forwarder"),
	}
}

// Run forwards the latest readings for every registry device. The only
// error returned is a failure to read the local store; everything past
// that point is logged and skipped per device.
func (f *Forwarder) Run(ctx context.Context, devices []models.Device) error {
	latest, err := f.store.Latest()
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(devices))

	for i := range devices {
		address := devices[i].Address

		// A host speaking two protocols has two registry records but
		// one reading stream; push it once.
		if _, ok := seen[address]; ok {
			continue
		}

		seen[address] = struct{}{}

		if ctx.Err() != nil {
			return nil
		}

		f.forwardDevice(ctx, address, latest[address])
	}

	return nil
}

func (f *Forwarder) forwardDevice(ctx context.Context, address string, byRegister map[string]models.Reading) {
	if len(byRegister) == 0 {
		f.logger.Debug().Str("address", address).Msg("no readings to forward")
		return
	}

	token, ok := f.tokens.Get(address)
	if !ok {
		var err error

		token, err = f.provisioner.AccessToken(ctx, RemoteName(address))
		if err != nil {
			f.logger.Error().Err(err).Str("address", address).Msg("remote device lookup failed")
			return
		}

		if err := f.tokens.Put(address, token); err != nil {
			f.logger.Error().Err(err).Str("address", address).Msg("failed to persist device token")
		}
	}

	batch := batchLatest(byRegister)

	if err := f.pusher.Push(ctx, token, batch); err != nil {
		f.logger.Error().Err(err).Str("address", address).Msg("telemetry push failed")
		return
	}

	f.logger.Info().
		Str("address", address).
		Int("entries", len(batch)).
		Msg("telemetry pushed")
}

// batchLatest groups the latest reading per register by capture
// timestamp and orders the entries oldest first.
func batchLatest(byRegister map[string]models.Reading) []Telemetry {
	byTS := make(map[int64]map[string]float64)

	for _, r := range byRegister {
		ts := r.Timestamp.UnixMilli()

		if byTS[ts] == nil {
			byTS[ts] = make(map[string]float64)
		}

		byTS[ts][r.Register] = r.Value
	}

	batch := make([]Telemetry, 0, len(byTS))

	for ts, values := range byTS {
		batch = append(batch, Telemetry{TS: ts, Values: values})
	}

	sort.Slice(batch, func(i, j int) bool { return batch[i].TS < batch[j].TS })

	return batch
}
