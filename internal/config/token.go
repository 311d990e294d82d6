/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import "github.com/zalando/go-keyring"

// Service/key names for the OS keyring.
const (
	keyringService = "OpenReactions"
	keyringToken   = "backend_token"
)

// tokenStore abstracts the keyring so tests can stub it out.
var tokenStore TokenStore = osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// LoadToken fetches the backend token from the OS keyring.
func LoadToken() (string, error) { return tokenStore.Get(keyringService, keyringToken) }

// SaveToken stores the backend token in the OS keyring.
func SaveToken(token string) error { return tokenStore.Set(keyringService, keyringToken, token) }

// DeleteToken removes the backend token from the OS keyring.
func DeleteToken() error { return tokenStore.Delete(keyringService, keyringToken) }
