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

// Package probe checks single hosts for protocol reachability. One Prober
// per protocol tag; adding a protocol means adding a Prober implementation
// and a case in New, with no scanner changes.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/carverauto/modradar/pkg/logger"
)

// Outcome classifies one probe of one address. A Prober never returns an
// error; every transport or protocol failure maps to an Outcome.
type Outcome string

const (
	// Reachable means the transport connected and the protocol handshake
	// succeeded.
	Reachable Outcome = "reachable"
	// Unreachable means the transport connection failed or timed out.
	Unreachable Outcome = "unreachable"
	// Incompatible means the host accepted the connection but rejected
	// the protocol handshake.
	Incompatible Outcome = "incompatible"
)

// Prober performs a single reachability/compatibility check against one
// address. Implementations are side-effect-free beyond the transient
// connection.
type Prober interface {
	Probe(ctx context.Context, address string) Outcome
}

// Params carries the connection settings shared by probe implementations.
type Params struct {
	Port    int
	Timeout time.Duration
	// Community is the SNMP read community; ignored by other protocols.
	Community string
}

// New returns the Prober registered for the given protocol tag.
func New(protocol string, params Params, log logger.Logger) (Prober, error) {
	switch protocol {
	case ProtocolModbus:
		return NewModbusProber(params, log), nil
	case ProtocolSNMP:
		return NewSNMPProber(params, log), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, protocol)
	}
}
