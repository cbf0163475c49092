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

package sync

import (
	"context"
	"time"

	"github.com/carverauto/warrantysync/pkg/models"
)

//go:generate mockgen -destination=mock_sync.go -package=sync github.com/carverauto/warrantysync/pkg/sync Strategy,InventoryClient,Clock

// Strategy resolves the warranty of a single device against one vendor.
// Implementations return an error matching models.ErrLookupNotFound when the
// vendor has no usable data, and any other error for transport faults.
type Strategy interface {
	Lookup(ctx context.Context, device *models.Device) (*models.WarrantyRecord, error)
}

// InventoryClient reads devices from and writes updates to the fleet platform.
type InventoryClient interface {
	FetchDevices(ctx context.Context, class string) ([]models.Device, error)
	UpdateDevice(ctx context.Context, deviceID string, payload interface{}) error
}

// Clock defines an interface for time-related operations.
type Clock interface {
	Now() time.Time
}
