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

// Package models holds the data types shared by the warranty sync packages.
package models

// Manufacturer identifies the hardware vendor reported by the fleet platform.
type Manufacturer string

const (
	ManufacturerDell   Manufacturer = "Dell"
	ManufacturerLenovo Manufacturer = "Lenovo"
	ManufacturerOther  Manufacturer = "Other"
)

// InvalidIdentifier is the literal the fleet platform reports when it has no
// usable serial number or model for a device.
const InvalidIdentifier = "INVALID"

// ParseManufacturer maps the platform's manufacturer string onto a known vendor.
// Matching is exact; anything unrecognized is ManufacturerOther.
func ParseManufacturer(s string) Manufacturer {
	switch Manufacturer(s) {
	case ManufacturerDell, ManufacturerLenovo:
		return Manufacturer(s)
	default:
		return ManufacturerOther
	}
}

// Device represents a device as returned by the fleet platform inventory API.
type Device struct {
	DeviceID     string `json:"device_id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

// Vendor returns the parsed manufacturer of the device.
func (d *Device) Vendor() Manufacturer {
	return ParseManufacturer(d.Manufacturer)
}
