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

package forwarder

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// TokenCache maps device addresses to their dashboard access tokens and
// persists the mapping, so repeat runs skip the remote lookup entirely.
type TokenCache struct {
	path   string
	mu     sync.RWMutex
	tokens map[string]string
}

// LoadTokenCache reads the cache file at path. A missing file yields an
// empty cache.
func LoadTokenCache(path string) (*TokenCache, error) {
	cache := &TokenCache{
		path:   path,
		tokens: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}

		return nil, fmt.Errorf("failed to read token cache '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, &cache.tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token cache '%s': %w", path, err)
	}

	return cache, nil
}

// Get returns the cached token for a device address.
func (c *TokenCache) Get(address string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	token, ok := c.tokens[address]

	return token, ok
}

// Put stores a token and persists the cache immediately.
func (c *TokenCache) Put(address, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens[address] = token

	data, err := json.MarshalIndent(c.tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache '%s': %w", c.path, err)
	}

	return nil
}
