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

// Package readings is the append-only local store of register readings.
package readings

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/carverauto/modradar/pkg/models"
)

var header = []string{"timestamp", "device_address", "register", "value", "unit"}

// CSVStore appends readings to a delimited file, one row per reading.
// Rows are durable as soon as Append returns; nothing is batched.
type CSVStore struct {
	path string
}

// NewCSVStore builds a CSVStore rooted at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Append writes one reading. The header row is written when the file is
// new or empty.
func (s *CSVStore) Append(r models.Reading) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open data file '%s': %w", s.path, err)
	}

	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat data file '%s': %w", s.path, err)
	}

	w := csv.NewWriter(f)

	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	record := []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.DeviceAddress,
		r.Register,
		strconv.FormatFloat(r.Value, 'f', -1, 64),
		r.Unit,
	}

	if err := w.Write(record); err != nil {
		return fmt.Errorf("failed to append reading: %w", err)
	}

	w.Flush()

	return w.Error()
}

// Latest returns the most recent reading per register per device
// address. Later rows win; row order is the append order.
func (s *CSVStore) Latest() (map[string]map[string]models.Reading, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]map[string]models.Reading{}, nil
		}

		return nil, fmt.Errorf("failed to open data file '%s': %w", s.path, err)
	}

	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read data file '%s': %w", s.path, err)
	}

	latest := make(map[string]map[string]models.Reading)

	for i, row := range rows {
		if i == 0 || len(row) != len(header) {
			continue
		}

		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			continue
		}

		value, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			continue
		}

		r := models.Reading{
			Timestamp:     ts,
			DeviceAddress: row[1],
			Register:      row[2],
			Value:         value,
			Unit:          row[4],
		}

		if latest[r.DeviceAddress] == nil {
			latest[r.DeviceAddress] = make(map[string]models.Reading)
		}

		latest[r.DeviceAddress][r.Register] = r
	}

	return latest, nil
}
