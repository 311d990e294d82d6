/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

// SketchInfo is the listing projection of a stored sketch.
type SketchInfo struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// SketchEnvelope is the full exchange form: metadata plus the
// reference-keyed molecule.
type SketchEnvelope struct {
	ID        int64               `json:"id,omitempty"`
	StableID  string              `json:"stable_id"`
	Name      string              `json:"name"`
	Molecule  sketch.WireMolecule `json:"molecule"`
	Version   int64               `json:"version,omitempty"`
	UpdatedAt time.Time           `json:"updated_at,omitempty"`
}

// Client is a minimal HTTP client for the backend API, used by the desktop
// app under a feature flag.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a backend client. baseURL may include a trailing
// slash; it is normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// ListSketches returns the available sketches.
func (c *Client) ListSketches(ctx context.Context) ([]SketchInfo, error) {
	var list []SketchInfo
	if err := c.doJSON(ctx, http.MethodGet, "/api/sketches", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetSketch fetches a stored sketch by id.
func (c *Client) GetSketch(ctx context.Context, id int64) (*SketchEnvelope, error) {
	var env SketchEnvelope
	path := fmt.Sprintf("/api/sketches/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// CreateSketch uploads a new sketch and returns its server id.
func (c *Client) CreateSketch(ctx context.Context, env SketchEnvelope) (int64, error) {
	var resp struct {
		ID      int64 `json:"id"`
		Version int64 `json:"version"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/sketches", env, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// PutSketch replaces a stored sketch, bumping its version.
func (c *Client) PutSketch(ctx context.Context, id int64, env SketchEnvelope) (int64, error) {
	var resp struct {
		ID      int64 `json:"id"`
		Version int64 `json:"version"`
	}
	path := fmt.Sprintf("/api/sketches/%d", id)
	if err := c.doJSON(ctx, http.MethodPut, path, env, &resp); err != nil {
		return 0, err
	}
	return resp.Version, nil
}
