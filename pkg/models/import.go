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

// Location is the physical placement of a device.
type Location struct {
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}

// ImportFields are the only device fields the fleet platform accepts from an
// import. Unset fields are omitted from the PATCH body and stay untouched.
type ImportFields struct {
	Location     *Location `json:"location,omitempty"`
	Alias        *string   `json:"alias,omitempty"`
	WarrantyDate *string   `json:"warranty_date,omitempty"`
	ShippingDate *string   `json:"shipping_date,omitempty"`
	FirstUseDate *string   `json:"first_use_date,omitempty"`
	Barcode      *string   `json:"barcode,omitempty"`
	Manuals      *string   `json:"manuals,omitempty"`
	Drivers      *string   `json:"drivers,omitempty"`
	SystemConfig *string   `json:"system_config,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

// ImportRecord is one entry of an import file.
type ImportRecord struct {
	DeviceID string `json:"device_id"`
	ImportFields
}

// ApplyWarranty overrides the record's dates with a resolved warranty.
func (r *ImportRecord) ApplyWarranty(rec *WarrantyRecord) {
	if rec == nil {
		return
	}

	shipped := rec.ShippingDate.String()
	warrantyEnd := rec.WarrantyDate.String()

	r.ShippingDate = &shipped
	r.WarrantyDate = &warrantyEnd
}
