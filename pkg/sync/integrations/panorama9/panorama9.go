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

// Package panorama9 talks to the Panorama9 fleet platform: it reads the device
// inventory and writes per-device updates back.
package panorama9

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

const (
	// DefaultAuthScheme prefixes the API key in the Authorization header.
	DefaultAuthScheme = "OAuth"
	// MediaType is the versioned content type the device API answers with.
	MediaType = "application/vnd.panorama9.com-v1+json"

	devicesPath = "/api/devices/"

	// bytes of an error response kept for the log message
	maxErrorBody = 512
)

// Client is a Panorama9 API client bound to one account key.
type Client struct {
	Config     *models.Panorama9Config
	HTTPClient HTTPClient
	Logger     logger.Logger
}

// NewClient validates cfg and builds a client around httpClient.
func NewClient(cfg *models.Panorama9Config, httpClient HTTPClient, log logger.Logger) (*Client, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, errMissingEndpoint
	}

	if cfg.APIKey == "" {
		return nil, errMissingAPIKey
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Client{
		Config:     cfg,
		HTTPClient: httpClient,
		Logger:     log.WithComponent("panorama9"),
	}, nil
}

// FetchDevices returns the inventory of the given device class in the order
// the platform reports it. Any failure wraps models.ErrUpstreamUnavailable.
func (c *Client) FetchDevices(ctx context.Context, class string) ([]models.Device, error) {
	req, err := c.newRequest(ctx, http.MethodGet, devicesPath+url.PathEscape(class), http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch devices: %w", models.ErrUpstreamUnavailable, err)
	}
	defer c.closeResponse(resp)

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("%w: fetch devices: %w", models.ErrUpstreamUnavailable, err)
	}

	var devices []models.Device

	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("%w: decode devices: %w", models.ErrUpstreamUnavailable, err)
	}

	c.Logger.Debug().
		Str("class", class).
		Int("count", len(devices)).
		Msg("Fetched device inventory")

	return devices, nil
}

// UpdateDevice PATCHes payload, marshaled as JSON, onto a single device.
func (c *Client) UpdateDevice(ctx context.Context, deviceID string, payload interface{}) error {
	if deviceID == "" {
		return errEmptyDeviceID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPatch, devicesPath+url.PathEscape(deviceID), bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: update device %s: %w", models.ErrUpstreamUnavailable, deviceID, err)
	}
	defer c.closeResponse(resp)

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("%w: update device %s: %w", models.ErrUpstreamUnavailable, deviceID, err)
	}

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	endpoint := strings.TrimRight(c.Config.Endpoint, "/") + path

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	scheme := c.Config.AuthScheme
	if scheme == "" {
		scheme = DefaultAuthScheme
	}

	req.Header.Set("Authorization", scheme+" "+c.Config.APIKey)
	req.Header.Set("Accept", MediaType)

	return req, nil
}

func (c *Client) closeResponse(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.Logger.Debug().Err(err).Msg("Failed to close response body")
	}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode, resp.StatusCode, string(bodyBytes))
}
