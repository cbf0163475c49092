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

// Package dell resolves warranty dates for Dell hardware through the Dell
// asset warranty API.
package dell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

const (
	DefaultEndpoint     = "https://api.dell.com"
	DefaultServiceLevel = "Next Business Day Onsite"

	// TimeLayout is how the API reports ship and entitlement dates.
	TimeLayout = "2006-01-02T15:04:05"

	warrantyPath = "/support/assetinfo/v4/getassetwarranty/"
	maxErrorBody = 512
)

var (
	errMissingAPIKey        = errors.New("dell api key is required")
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errNoAsset              = errors.New("no asset in response")
	errNoShipDate           = errors.New("no ship date")
	errNoEntitlement        = errors.New("no matching entitlement")
	errNoServiceTag         = errors.New("empty service tag")
	errInvalidServiceTag    = errors.New("service tag is INVALID")
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Strategy looks up Dell warranties by service tag.
type Strategy struct {
	endpoint     string
	apiKey       string
	serviceLevel string
	httpClient   HTTPClient
	logger       logger.Logger
}

// New builds a Dell strategy. The API key comes from cfg and is required.
func New(cfg *models.DellConfig, httpClient HTTPClient, log logger.Logger) (*Strategy, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errMissingAPIKey
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	serviceLevel := cfg.ServiceLevel
	if serviceLevel == "" {
		serviceLevel = DefaultServiceLevel
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Strategy{
		endpoint:     strings.TrimRight(endpoint, "/"),
		apiKey:       cfg.APIKey,
		serviceLevel: serviceLevel,
		httpClient:   httpClient,
		logger:       log.WithComponent("dell"),
	}, nil
}

// Lookup fetches the warranty of device by its serial number (the service tag).
// Missing data yields models.ErrLookupNotFound; anything else that goes wrong
// is a models.ErrTransportFault.
func (s *Strategy) Lookup(ctx context.Context, device *models.Device) (*models.WarrantyRecord, error) {
	if device.SerialNumber == "" {
		return nil, fmt.Errorf("%w: %w", models.ErrLookupNotFound, errNoServiceTag)
	}

	if device.SerialNumber == models.InvalidIdentifier {
		return nil, fmt.Errorf("%w: %w", models.ErrLookupNotFound, errInvalidServiceTag)
	}

	resp, err := s.fetch(ctx, device.SerialNumber)
	if err != nil {
		return nil, err
	}

	return s.extract(resp)
}

func (s *Strategy) fetch(ctx context.Context, serviceTag string) (*WarrantyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.endpoint+warrantyPath+url.PathEscape(serviceTag), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrTransportFault, err)
	}

	req.Header.Set("APIKey", s.apiKey)
	req.Header.Set("Accept", "Application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrTransportFault, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, fmt.Errorf("%w: %w: %d, response: %s",
			models.ErrTransportFault, errUnexpectedStatusCode, resp.StatusCode, string(bodyBytes))
	}

	var out WarrantyResponse

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode warranty response: %w", models.ErrTransportFault, err)
	}

	return &out, nil
}

func (s *Strategy) extract(resp *WarrantyResponse) (*models.WarrantyRecord, error) {
	if len(resp.AssetWarrantyResponse) == 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrLookupNotFound, errNoAsset)
	}

	asset := &resp.AssetWarrantyResponse[0]

	end, err := s.latestEndDate(asset.AssetEntitlementData)
	if err != nil {
		return nil, err
	}

	if asset.AssetHeaderData.ShipDate == "" {
		return nil, fmt.Errorf("%w: %w", models.ErrLookupNotFound, errNoShipDate)
	}

	shipped, err := parseTime(asset.AssetHeaderData.ShipDate)
	if err != nil {
		return nil, err
	}

	if end.IsZero() {
		return nil, fmt.Errorf("%w: %w %q", models.ErrLookupNotFound, errNoEntitlement, s.serviceLevel)
	}

	return models.NewWarrantyRecord(shipped, end), nil
}

// latestEndDate returns the greatest EndDate among entitlements at the
// configured service level, or the zero time when none match.
func (s *Strategy) latestEndDate(entitlements []Entitlement) (time.Time, error) {
	var latest time.Time

	for i := range entitlements {
		e := &entitlements[i]
		if e.ServiceLevelDescription != s.serviceLevel {
			continue
		}

		end, err := parseTime(e.EndDate)
		if err != nil {
			return time.Time{}, err
		}

		if latest.IsZero() || end.After(latest) {
			latest = end
		}
	}

	return latest, nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q: %w", models.ErrTransportFault, value, err)
	}

	return t, nil
}
