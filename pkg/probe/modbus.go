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
	"net"
	"strconv"
	"time"

	"github.com/goburrow/modbus"

	"github.com/carverauto/modradar/pkg/logger"
)

// ProtocolModbus is the protocol tag for Modbus-TCP.
const ProtocolModbus = "modbus"

// probeRegister is a known-safe input register used for the handshake
// read. Register 0 sits at the base of the input block every supported
// meter exposes.
const probeRegister = 0

// ModbusProber checks a host for a responding Modbus-TCP endpoint.
type ModbusProber struct {
	port    int
	timeout time.Duration
	logger  logger.Logger
}

var _ Prober = (*ModbusProber)(nil)

// NewModbusProber builds a Modbus-TCP prober from connection params.
func NewModbusProber(params Params, log logger.Logger) *ModbusProber {
	return &ModbusProber{
		port:    params.Port,
		timeout: params.Timeout,
		logger:  log.WithComponent("probe.modbus"),
	}
}

// Probe connects to address:port and attempts a one-register input read.
// Connect failures map to Unreachable, protocol failures to Incompatible.
func (p *ModbusProber) Probe(_ context.Context, address string) Outcome {
	handler := modbus.NewTCPClientHandler(net.JoinHostPort(address, strconv.Itoa(p.port)))
	handler.Timeout = p.timeout

	if err := handler.Connect(); err != nil {
		p.logger.Debug().Err(err).Str("address", address).Msg("modbus connect failed")
		return Unreachable
	}

	defer func() {
		if err := handler.Close(); err != nil {
			p.logger.Debug().Err(err).Str("address", address).Msg("failed to close modbus connection")
		}
	}()

	client := modbus.NewClient(handler)

	if _, err := client.ReadInputRegisters(probeRegister, 1); err != nil {
		p.logger.Debug().Err(err).Str("address", address).Msg("modbus handshake read failed")
		return Incompatible
	}

	return Reachable
}
