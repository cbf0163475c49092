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

package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/warrantysync/pkg/models"
)

const fullRecord = `[{
  "device_id": "d1",
  "location": {"latitude": "40.7127", "longitude": "-74.0059", "city": "New York City", "country": "United States"},
  "alias": "NYC file server",
  "warranty_date": "2014-10-07T19:15:02Z",
  "shipping_date": null,
  "first_use_date": null,
  "barcode": "abc3123",
  "manuals": "http://intra.local/manuals/abc3123",
  "drivers": "http://intra.local/drivers/abc3123",
  "system_config": "http://intra.local/system_config/abc3123",
  "notes": "remember to start print service after boot"
}]`

func TestDecode_AllFields(t *testing.T) {
	records, err := Decode(strings.NewReader(fullRecord))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "d1", rec.DeviceID)
	require.NotNil(t, rec.Location)
	assert.Equal(t, "New York City", rec.Location.City)
	require.NotNil(t, rec.Alias)
	assert.Equal(t, "NYC file server", *rec.Alias)
	require.NotNil(t, rec.WarrantyDate)
	assert.Equal(t, "2014-10-07T19:15:02Z", *rec.WarrantyDate)
	assert.Nil(t, rec.ShippingDate)
	assert.Nil(t, rec.FirstUseDate)
	require.NotNil(t, rec.Notes)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown field", input: `[{"device_id":"d1","price":"10"}]`},
		{name: "missing device id", input: `[{"alias":"x"}]`},
		{name: "blank device id", input: `[{"device_id":"  "}]`},
		{name: "duplicate device id", input: `[{"device_id":"d1"},{"device_id":"d1"}]`},
		{name: "date without Z", input: `[{"device_id":"d1","warranty_date":"2014-10-07T19:15:02"}]`},
		{name: "date with offset", input: `[{"device_id":"d1","shipping_date":"2014-10-07T19:15:02+02:00"}]`},
		{name: "garbage date", input: `[{"device_id":"d1","first_use_date":"soonZ"}]`},
		{name: "not an array", input: `{"device_id":"d1"}`},
		{name: "trailing data", input: `[] []`},
		{name: "malformed", input: `[{"device_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrInvalidImport)
		})
	}
}

func TestDecode_DuplicateUsesSharedSentinel(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"device_id":"d1"},{"device_id":"d1"}]`))
	require.ErrorIs(t, err, models.ErrDuplicateDevice)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, os.WriteFile(path, []byte(fullRecord), 0o600))

	records, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
