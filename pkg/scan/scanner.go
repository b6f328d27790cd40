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

// Package scan sweeps a subnet for devices speaking the configured
// protocols.
package scan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/modradar/pkg/logger"
	"github.com/carverauto/modradar/pkg/models"
	"github.com/carverauto/modradar/pkg/probe"
)

// Scanner enumerates every host in a subnet and probes each one with
// every configured protocol. Probes run sequentially so the emitted
// order is deterministic: ascending address, then protocol list order.
type Scanner struct {
	subnet    string
	protocols []string
	probers   map[string]probe.Prober
	logger    logger.Logger
}

// NewScanner builds a Scanner. One Prober per protocol tag is resolved up
// front; an unknown tag is a setup failure.
func NewScanner(subnet string, protocols []string, params probe.Params, log logger.Logger) (*Scanner, error) {
	probers := make(map[string]probe.Prober, len(protocols))

	for _, protocol := range protocols {
		p, err := probe.New(protocol, params, log)
		if err != nil {
			return nil, err
		}

		probers[protocol] = p
	}

	return &Scanner{
		subnet:    subnet,
		protocols: protocols,
		probers:   probers,
		logger:    log.WithComponent("scan"),
	}, nil
}

// Scan probes every (host, protocol) pair exactly once and emits a
// Device record for each Reachable outcome. Probe failures are logged
// and swallowed; a scan never aborts because one host is down.
// Persisting the result set is the caller's job.
func (s *Scanner) Scan(ctx context.Context) (<-chan models.Device, error) {
	ips, err := ExpandCIDR(s.subnet)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()

	s.logger.Info().
		Str("run_id", runID).
		Str("subnet", s.subnet).
		Int("hosts", len(ips)).
		Strs("protocols", s.protocols).
		Msg("starting scan")

	ch := make(chan models.Device)

	go func() {
		defer close(ch)

		found := 0

		for _, ip := range ips {
			for _, protocol := range s.protocols {
				if ctx.Err() != nil {
					return
				}

				outcome := s.probers[protocol].Probe(ctx, ip)
				if outcome != probe.Reachable {
					s.logger.Debug().
						Str("run_id", runID).
						Str("address", ip).
						Str("protocol", protocol).
						Str("outcome", string(outcome)).
						Msg("host not reachable")

					continue
				}

				device := models.Device{
					Address:      ip,
					Protocol:     protocol,
					DiscoveredAt: time.Now().UTC(),
				}

				s.logger.Info().
					Str("run_id", runID).
					Str("address", ip).
					Str("protocol", protocol).
					Msg("device found")

				found++

				select {
				case <-ctx.Done():
					return
				case ch <- device:
				}
			}
		}

		s.logger.Info().Str("run_id", runID).Int("devices", found).Msg("scan complete")
	}()

	return ch, nil
}
