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

// Package fetcher polls known devices for the fixed register set and
// appends readings to the local store.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/goburrow/modbus"

	"github.com/carverauto/modradar/pkg/config"
	"github.com/carverauto/modradar/pkg/logger"
	"github.com/carverauto/modradar/pkg/models"
	"github.com/carverauto/modradar/pkg/probe"
)

// RegisterReader is the read surface of a connected Modbus client.
type RegisterReader interface {
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
}

// Appender receives each successful reading. Satisfied by
// readings.CSVStore.
type Appender interface {
	Append(r models.Reading) error
}

// Fetcher opens one connection per device per run and reads every
// register in the fixed table. Each successful reading is appended to
// the store immediately, so failures of later registers never lose
// earlier ones.
type Fetcher struct {
	settings config.ModbusSettings
	store    Appender
	logger   logger.Logger

	// connect is swapped out in tests.
	connect func(address string) (RegisterReader, io.Closer, error)
}

// New builds a Fetcher over the given store.
func New(settings config.ModbusSettings, store Appender, log logger.Logger) *Fetcher {
	f := &Fetcher{
		settings: settings,
		store:    store,
		logger:   log.WithComponent("fetcher"),
	}

	f.connect = f.dialModbus

	return f
}

func (f *Fetcher) dialModbus(address string) (RegisterReader, io.Closer, error) {
	handler := modbus.NewTCPClientHandler(net.JoinHostPort(address, strconv.Itoa(f.settings.Port)))
	handler.Timeout = f.settings.Timeout.Duration()

	if err := handler.Connect(); err != nil {
		return nil, nil, err
	}

	return modbus.NewClient(handler), handler, nil
}

// Run fetches every Modbus device in the registry. Per-device and
// per-register failures are logged and skipped; Run itself only reports
// completion.
func (f *Fetcher) Run(ctx context.Context, devices []models.Device) {
	for i := range devices {
		device := &devices[i]

		if device.Protocol != probe.ProtocolModbus {
			continue
		}

		if ctx.Err() != nil {
			return
		}

		readings, errs := f.Fetch(ctx, device)

		for _, err := range errs {
			f.logger.Error().Err(err).Str("address", device.Address).Msg("fetch error")
		}

		f.logger.Info().
			Str("address", device.Address).
			Int("readings", len(readings)).
			Int("errors", len(errs)).
			Msg("device polled")
	}
}

// Fetch reads the full register table from one device. It returns the
// readings that were appended and one error per register that exhausted
// its retries. A connection failure yields a single ErrConnect and no
// reads.
func (f *Fetcher) Fetch(_ context.Context, device *models.Device) ([]models.Reading, []error) {
	reader, closer, err := f.connect(device.Address)
	if err != nil {
		return nil, []error{fmt.Errorf("%w: %s: %w", ErrConnect, device.Address, err)}
	}

	defer func() {
		if err := closer.Close(); err != nil {
			f.logger.Debug().Err(err).Str("address", device.Address).Msg("failed to close connection")
		}
	}()

	var (
		out  []models.Reading
		errs []error
	)

	for _, spec := range Registers() {
		value, err := f.readRegister(reader, &spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s/%s: %w", ErrRead, device.Address, spec.Name, err))
			continue
		}

		reading := models.Reading{
			Timestamp:     time.Now().UTC(),
			DeviceAddress: device.Address,
			Register:      spec.Name,
			Value:         value,
			Unit:          spec.Unit,
		}

		if err := f.store.Append(reading); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s/%s: %w", ErrRead, device.Address, spec.Name, err))
			continue
		}

		out = append(out, reading)
	}

	return out, errs
}

// readRegister reads one register spec, retrying immediately up to the
// configured retry count.
func (f *Fetcher) readRegister(reader RegisterReader, spec *RegisterSpec) (float64, error) {
	attempts := f.settings.Retries + 1

	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		raw, err := reader.ReadInputRegisters(spec.Offset, spec.Count)
		if err != nil {
			lastErr = err
			continue
		}

		if len(raw) < int(spec.Count)*2 {
			lastErr = fmt.Errorf("%w: got %d bytes", errShortResponse, len(raw))
			continue
		}

		return spec.decode(raw), nil
	}

	return 0, lastErr
}
