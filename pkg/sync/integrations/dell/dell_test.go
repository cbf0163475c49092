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

package dell

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/warrantysync/pkg/models"
)

const abc123Response = `{
  "AssetWarrantyResponse": [{
    "AssetHeaderData": {"ServiceTag": "ABC123", "ShipDate": "2020-01-01T00:00:00"},
    "AssetEntitlementData": [
      {"ServiceLevelDescription": "Next Business Day Onsite", "StartDate": "2020-01-01T00:00:00", "EndDate": "2022-01-01T00:00:00"},
      {"ServiceLevelDescription": "Next Business Day Onsite", "StartDate": "2022-01-01T00:00:00", "EndDate": "2023-01-01T00:00:00"},
      {"ServiceLevelDescription": "Collect and Return", "StartDate": "2020-01-01T00:00:00", "EndDate": "2030-01-01T00:00:00"}
    ]
  }]
}`

func newDellServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		assert.Equal(t, "/support/assetinfo/v4/getassetwarranty/ABC123", r.URL.Path)
		assert.Equal(t, "dell-key", r.Header.Get("APIKey"))
		assert.Equal(t, "Application/json", r.Header.Get("Accept"))

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	return server, &calls
}

func newStrategy(t *testing.T, endpoint string) *Strategy {
	t.Helper()

	s, err := New(&models.DellConfig{Endpoint: endpoint, APIKey: "dell-key"}, nil, nil)
	require.NoError(t, err)

	return s
}

func dellDevice() *models.Device {
	return &models.Device{DeviceID: "d1", SerialNumber: "ABC123", Manufacturer: "Dell", Model: "Latitude"}
}

func TestLookup_SelectsLatestEntitlement(t *testing.T) {
	server, calls := newDellServer(t, http.StatusOK, abc123Response)

	rec, err := newStrategy(t, server.URL).Lookup(context.Background(), dellDevice())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, models.PlaceholderCurrency, rec.PriceCurrency)
	assert.Equal(t, models.PlaceholderPrice, rec.Price)
	assert.Equal(t, "2020-01-01T00:00:00Z", rec.ShippingDate.String())
	assert.Equal(t, "2023-01-01T00:00:00Z", rec.WarrantyDate.String())
}

func TestLookup_EntitlementOrderDoesNotMatter(t *testing.T) {
	body := `{"AssetWarrantyResponse": [{
	  "AssetHeaderData": {"ShipDate": "2019-05-02T10:11:12"},
	  "AssetEntitlementData": [
	    {"ServiceLevelDescription": "Next Business Day Onsite", "EndDate": "2024-03-01T00:00:00"},
	    {"ServiceLevelDescription": "Next Business Day Onsite", "EndDate": "2021-03-01T00:00:00"},
	    {"ServiceLevelDescription": "Next Business Day Onsite", "EndDate": "2024-03-01T00:00:00"}
	  ]}]}`

	server, _ := newDellServer(t, http.StatusOK, body)

	rec, err := newStrategy(t, server.URL).Lookup(context.Background(), dellDevice())
	require.NoError(t, err)
	assert.Equal(t, "2019-05-02T10:11:12Z", rec.ShippingDate.String())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), rec.WarrantyDate.Time())
}

func TestLookup_CustomServiceLevel(t *testing.T) {
	server, _ := newDellServer(t, http.StatusOK, abc123Response)

	s, err := New(&models.DellConfig{Endpoint: server.URL, APIKey: "dell-key", ServiceLevel: "Collect and Return"}, nil, nil)
	require.NoError(t, err)

	rec, err := s.Lookup(context.Background(), dellDevice())
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01T00:00:00Z", rec.WarrantyDate.String())
}

func TestLookup_NotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "no matching entitlement",
			body: `{"AssetWarrantyResponse": [{
			  "AssetHeaderData": {"ShipDate": "2020-01-01T00:00:00"},
			  "AssetEntitlementData": [{"ServiceLevelDescription": "Parts Only", "EndDate": "2023-01-01T00:00:00"}]}]}`,
		},
		{
			name: "no entitlements",
			body: `{"AssetWarrantyResponse": [{"AssetHeaderData": {"ShipDate": "2020-01-01T00:00:00"}}]}`,
		},
		{
			name: "missing ship date",
			body: `{"AssetWarrantyResponse": [{
			  "AssetHeaderData": {},
			  "AssetEntitlementData": [{"ServiceLevelDescription": "Next Business Day Onsite", "EndDate": "2023-01-01T00:00:00"}]}]}`,
		},
		{
			name: "empty response",
			body: `{"AssetWarrantyResponse": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newDellServer(t, http.StatusOK, tt.body)

			rec, err := newStrategy(t, server.URL).Lookup(context.Background(), dellDevice())
			require.ErrorIs(t, err, models.ErrLookupNotFound)
			require.NotErrorIs(t, err, models.ErrTransportFault)
			assert.Nil(t, rec)
		})
	}
}

func TestLookup_TransportFaults(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "oops"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"bad key"}`},
		{name: "malformed json", status: http.StatusOK, body: `{"AssetWarrantyResponse": [`},
		{
			name:   "unparseable end date",
			status: http.StatusOK,
			body: `{"AssetWarrantyResponse": [{
			  "AssetHeaderData": {"ShipDate": "2020-01-01T00:00:00"},
			  "AssetEntitlementData": [{"ServiceLevelDescription": "Next Business Day Onsite", "EndDate": "01/01/2023"}]}]}`,
		},
		{
			name:   "unparseable ship date",
			status: http.StatusOK,
			body: `{"AssetWarrantyResponse": [{
			  "AssetHeaderData": {"ShipDate": "yesterday"},
			  "AssetEntitlementData": [{"ServiceLevelDescription": "Next Business Day Onsite", "EndDate": "2023-01-01T00:00:00"}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newDellServer(t, tt.status, tt.body)

			_, err := newStrategy(t, server.URL).Lookup(context.Background(), dellDevice())
			require.ErrorIs(t, err, models.ErrTransportFault)
			require.NotErrorIs(t, err, models.ErrLookupNotFound)
		})
	}
}

func TestLookup_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	_, err := newStrategy(t, endpoint).Lookup(context.Background(), dellDevice())
	require.ErrorIs(t, err, models.ErrTransportFault)
}

func TestLookup_EmptySerialSkipsNetwork(t *testing.T) {
	server, calls := newDellServer(t, http.StatusOK, abc123Response)

	_, err := newStrategy(t, server.URL).Lookup(context.Background(), &models.Device{DeviceID: "d1", Manufacturer: "Dell"})
	require.ErrorIs(t, err, models.ErrLookupNotFound)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestLookup_InvalidSerialSkipsNetwork(t *testing.T) {
	server, calls := newDellServer(t, http.StatusOK, abc123Response)

	_, err := newStrategy(t, server.URL).Lookup(context.Background(),
		&models.Device{DeviceID: "d1", SerialNumber: models.InvalidIdentifier, Manufacturer: "Dell"})
	require.ErrorIs(t, err, models.ErrLookupNotFound)
	require.ErrorIs(t, err, errInvalidServiceTag)
	require.NotErrorIs(t, err, models.ErrTransportFault)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(&models.DellConfig{Endpoint: "https://api.dell.com"}, nil, nil)
	require.ErrorIs(t, err, errMissingAPIKey)

	s, err := New(&models.DellConfig{APIKey: "k"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, s.endpoint)
	assert.Equal(t, DefaultServiceLevel, s.serviceLevel)
}
