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

package probe

import (
	"context"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/carverauto/modradar/pkg/logger"
)

// ProtocolSNMP is the protocol tag for SNMP v2c.
const ProtocolSNMP = "snmp"

const (
	snmpPort         = 161
	defaultCommunity = "public"
	sysDescrOID      = ".1.3.6.1.2.1.1.1.0"
)

// SNMPProber checks a host for a responding SNMP agent by fetching
// sysDescr with the configured read community.
type SNMPProber struct {
	community string
	timeout   time.Duration
	logger    logger.Logger
}

var _ Prober = (*SNMPProber)(nil)

// NewSNMPProber builds an SNMP prober from connection params.
func NewSNMPProber(params Params, log logger.Logger) *SNMPProber {
	community := params.Community
	if community == "" {
		community = defaultCommunity
	}

	return &SNMPProber{
		community: community,
		timeout:   params.Timeout,
		logger:    log.WithComponent("probe.snmp"),
	}
}

// Probe sends a sysDescr get. UDP has no connect handshake, so a timeout
// on the get itself maps to Unreachable; an SNMP error response maps to
// Incompatible.
func (p *SNMPProber) Probe(_ context.Context, address string) Outcome {
	client := &gosnmp.GoSNMP{
		Target:    address,
		Port:      snmpPort,
		Community: p.community,
		Version:   gosnmp.Version2c,
		Timeout:   p.timeout,
		Retries:   0,
	}

	if err := client.Connect(); err != nil {
		p.logger.Debug().Err(err).Str("address", address).Msg("snmp socket setup failed")
		return Unreachable
	}

	defer func() {
		if err := client.Conn.Close(); err != nil {
			p.logger.Debug().Err(err).Str("address", address).Msg("failed to close snmp socket")
		}
	}()

	result, err := client.Get([]string{sysDescrOID})
	if err != nil {
		p.logger.Debug().Err(err).Str("address", address).Msg("snmp get failed")
		return Unreachable
	}

	if result.Error != gosnmp.NoError {
		p.logger.Debug().Str("address", address).Int("snmp_error", int(result.Error)).Msg("snmp agent rejected request")
		return Incompatible
	}

	return Reachable
}
