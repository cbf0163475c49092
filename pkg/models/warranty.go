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

package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const (
	// PlaceholderCurrency and PlaceholderPrice are legacy constants written with
	// every record. They are not a valuation.
	PlaceholderCurrency             = "USD"
	PlaceholderPrice    json.Number = "1000.0"

	// TimestampLayout is ISO 8601 with the mandatory UTC designator.
	TimestampLayout = "2006-01-02T15:04:05Z"
	// DateLayout is the plain calendar date used in exports.
	DateLayout = "2006-01-02"
)

// Timestamp is a point in time that always serializes in UTC with a trailing Z.
type Timestamp time.Time

// NewTimestamp converts t to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC())
}

// Time returns the underlying time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Time(t).UTC()
}

func (t Timestamp) String() string {
	return t.Time().Format(TimestampLayout)
}

// Date returns the calendar date portion.
func (t Timestamp) Date() string {
	return t.Time().Format(DateLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}

	*t = NewTimestamp(parsed)

	return nil
}

// WarrantyRecord is the normalized warranty data written back to the fleet
// platform. Only these four fields are sent; everything else on the device is
// left untouched server-side.
type WarrantyRecord struct {
	PriceCurrency string      `json:"price_currency"`
	Price         json.Number `json:"price"`
	ShippingDate  Timestamp   `json:"shipping_date"`
	WarrantyDate  Timestamp   `json:"warranty_date"`
}

// NewWarrantyRecord builds a record with the placeholder price and currency.
func NewWarrantyRecord(shipped, warrantyEnd time.Time) *WarrantyRecord {
	return &WarrantyRecord{
		PriceCurrency: PlaceholderCurrency,
		Price:         PlaceholderPrice,
		ShippingDate:  NewTimestamp(shipped),
		WarrantyDate:  NewTimestamp(warrantyEnd),
	}
}

// ResolutionBatch maps device IDs to their resolved warranty record. It only
// ever holds successes.
type ResolutionBatch map[string]*WarrantyRecord

// Add inserts a record, refusing empty IDs, nil records and duplicates.
func (b ResolutionBatch) Add(deviceID string, rec *WarrantyRecord) error {
	if deviceID == "" {
		return errEmptyDeviceID
	}

	if rec == nil {
		return fmt.Errorf("%w: %s", errNilRecord, deviceID)
	}

	if _, exists := b[deviceID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDevice, deviceID)
	}

	b[deviceID] = rec

	return nil
}

// IDs returns the device IDs in the batch in sorted order.
func (b ResolutionBatch) IDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
