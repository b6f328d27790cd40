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

package config

import (
	"encoding/json"
	"time"
)

// Seconds is a duration that unmarshals from a JSON number of seconds
// (the documented config format, e.g. 0.5) or from a Go duration string
// ("500ms").
type Seconds time.Duration

// Duration returns the wrapped time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

func (s *Seconds) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*s = Seconds(time.Duration(n * float64(time.Second)))
		return nil
	}

	var str string

	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	if str == "" {
		*s = 0
		return nil
	}

	dur, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*s = Seconds(dur)

	return nil
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(s).Seconds())
}
