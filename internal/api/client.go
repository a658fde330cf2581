/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
	"github.com/superficialadam/bl-agentic-rewrite/internal/reconcile"
	"github.com/superficialadam/bl-agentic-rewrite/internal/screenplay"
)

// Client is the HTTP client for the rewrite API, used by the CLI.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a client for the API at baseURL. A trailing slash is
// normalized away.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if payload != nil {
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
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server %s %s: %s: %s", method, u.Path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// FetchToken exchanges the shared secret for a bearer token.
func (c *Client) FetchToken(ctx context.Context, secret string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/token", map[string]string{"secret": secret}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var list []domain.Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateProject creates a project with its default scaffold.
func (c *Client) CreateProject(ctx context.Context, name string) (domain.Project, error) {
	var p domain.Project
	err := c.doJSON(ctx, http.MethodPost, "/api/projects", map[string]string{"name": name}, &p)
	return p, err
}

// ProjectBySlug loads one project.
func (c *Client) ProjectBySlug(ctx context.Context, slug string) (domain.Project, error) {
	var p domain.Project
	err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(slug), nil, &p)
	return p, err
}

// ScriptWithScenes mirrors the script endpoint response.
type ScriptWithScenes struct {
	domain.Script
	Scenes []domain.SceneWithContent `json:"scenes"`
}

// Script loads a script with its scenes nested.
func (c *Client) Script(ctx context.Context, scriptID string) (ScriptWithScenes, error) {
	var out ScriptWithScenes
	err := c.doJSON(ctx, http.MethodGet, "/api/scripts/"+url.PathEscape(scriptID), nil, &out)
	return out, err
}

// ScriptScenes loads just the scenes of a script.
func (c *Client) ScriptScenes(ctx context.Context, scriptID string) ([]domain.SceneWithContent, error) {
	out, err := c.Script(ctx, scriptID)
	return out.Scenes, err
}

// Sync submits a document for reconciliation and returns the result.
func (c *Client) Sync(ctx context.Context, scriptID string, doc screenplay.Document) (reconcile.Result, error) {
	var res reconcile.Result
	payload := map[string]any{"document": doc}
	err := c.doJSON(ctx, http.MethodPost, "/api/scripts/"+url.PathEscape(scriptID)+"/sync", payload, &res)
	return res, err
}
