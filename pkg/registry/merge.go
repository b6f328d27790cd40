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

package registry

import "github.com/carverauto/modradar/pkg/models"

// Merge concatenates device lists, dropping later duplicates of the
// (address, protocol) key. Earlier lists take precedence and order is
// preserved, so config-seeded devices can be combined with the scanned
// registry.
func Merge(lists ...[]models.Device) []models.Device {
	var out []models.Device

	seen := make(map[string]struct{})

	for _, list := range lists {
		for _, d := range list {
			if _, ok := seen[d.Key()]; ok {
				continue
			}

			seen[d.Key()] = struct{}{}
			out = append(out, d)
		}
	}

	return out
}
