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

package fetcher

import (
	"encoding/binary"
	"math"

	"github.com/carverauto/modradar/pkg/models"
)

// The meters expose IEEE-754 floats as pairs of 16-bit input registers.
// Vendor documentation numbers the input block from 30001; Offset is
// relative to that base.
const inputBlockBase = 30001

// RegisterSpec maps a register name to its fixed address, width, scaling
// factor, and engineering unit.
type RegisterSpec struct {
	Name   string
	Offset uint16
	Count  uint16
	Scale  float64
	Unit   string
}

var registerTable = []RegisterSpec{
	{Name: models.RegisterCurrent, Offset: 30031 - inputBlockBase, Count: 2, Scale: 1, Unit: "A"},
	{Name: models.RegisterVoltage, Offset: 30025 - inputBlockBase, Count: 2, Scale: 1, Unit: "V"},
	{Name: models.RegisterTemperature, Offset: 30027 - inputBlockBase, Count: 2, Scale: 1, Unit: "C"},
	{Name: models.RegisterPower, Offset: 30033 - inputBlockBase, Count: 2, Scale: 1, Unit: "W"},
}

// Registers returns the fixed register table in poll order.
func Registers() []RegisterSpec {
	return registerTable
}

// decode converts the raw big-endian register bytes into engineering
// units via the spec's scaling factor.
func (r *RegisterSpec) decode(raw []byte) float64 {
	bits := binary.BigEndian.Uint32(raw[:4])
	return float64(math.Float32frombits(bits)) * r.Scale
}
