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

// Package importer reads device import files.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/carverauto/warrantysync/pkg/models"
)

var (
	ErrInvalidImport = errors.New("invalid import file")

	errMissingDeviceID = errors.New("device_id is required")
	errNotUTC          = errors.New("date must be ISO 8601 in UTC with a trailing Z")
	errTrailingData    = errors.New("unexpected data after the record list")
)

// Load reads and validates the import file at path.
func Load(path string) ([]models.ImportRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode parses a JSON array of import records. Unknown fields, missing or
// repeated device IDs and dates without the UTC designator are rejected.
func Decode(r io.Reader) ([]models.ImportRecord, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var records []models.ImportRecord

	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	if dec.More() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, errTrailingData)
	}

	seen := make(map[string]struct{}, len(records))

	for i := range records {
		rec := &records[i]

		if strings.TrimSpace(rec.DeviceID) == "" {
			return nil, fmt.Errorf("%w: record %d: %w", ErrInvalidImport, i+1, errMissingDeviceID)
		}

		if _, dup := seen[rec.DeviceID]; dup {
			return nil, fmt.Errorf("%w: record %d: %w: %s", ErrInvalidImport, i+1, models.ErrDuplicateDevice, rec.DeviceID)
		}

		seen[rec.DeviceID] = struct{}{}

		if err := validateDates(rec); err != nil {
			return nil, fmt.Errorf("%w: record %d (%s): %w", ErrInvalidImport, i+1, rec.DeviceID, err)
		}
	}

	return records, nil
}

func validateDates(rec *models.ImportRecord) error {
	dates := []struct {
		field string
		value *string
	}{
		{"warranty_date", rec.WarrantyDate},
		{"shipping_date", rec.ShippingDate},
		{"first_use_date", rec.FirstUseDate},
	}

	for _, d := range dates {
		if d.value == nil {
			continue
		}

		if !strings.HasSuffix(*d.value, "Z") {
			return fmt.Errorf("%s %q: %w", d.field, *d.value, errNotUTC)
		}

		if _, err := time.Parse(time.RFC3339, *d.value); err != nil {
			return fmt.Errorf("%s %q: %w: %w", d.field, *d.value, errNotUTC, err)
		}
	}

	return nil
}
