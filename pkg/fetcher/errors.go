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

import "errors"

var (
	// ErrConnect marks a failed device connection; the device is skipped
	// for the run.
	ErrConnect = errors.New("device connection failed")
	// ErrRead marks a register read that exhausted its retries. Other
	// registers and devices still proceed.
	ErrRead = errors.New("register read failed")
	// errShortResponse guards against a well-formed reply carrying fewer
	// bytes than the register width.
	errShortResponse = errors.New("short register response")
)
