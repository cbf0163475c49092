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
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable means the fleet platform or a vendor API could not
	// be reached or answered with a non-success status.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrLookupNotFound means the vendor had no usable warranty data for a device.
	// The device is skipped and the batch continues.
	ErrLookupNotFound = errors.New("warranty lookup found nothing")
	// ErrScrapeStructureMismatch means a vendor page did not have the expected
	// form or results container. It is a flavour of ErrLookupNotFound.
	ErrScrapeStructureMismatch = fmt.Errorf("%w: page structure mismatch", ErrLookupNotFound)
	// ErrUnsupportedManufacturer means no lookup strategy exists for the vendor.
	ErrUnsupportedManufacturer = errors.New("unsupported manufacturer")
	// ErrTransportFault covers network errors and malformed vendor responses.
	ErrTransportFault = errors.New("transport fault")
	// ErrDuplicateDevice is returned when a device ID is added to a batch twice.
	ErrDuplicateDevice = errors.New("duplicate device id")

	errEmptyDeviceID = errors.New("device id is empty")
	errNilRecord     = errors.New("nil warranty record")
)
