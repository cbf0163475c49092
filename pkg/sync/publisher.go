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
	"errors"
	"fmt"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

var errPublishFailed = errors.New("device updates failed")

// PublishResult counts the outcome of a publish pass.
type PublishResult struct {
	Published int
	Failed    []string
}

// update is one PATCH to send.
type update struct {
	deviceID string
	payload  interface{}
}

// Publisher writes resolved records back to the fleet platform, one device
// at a time.
type Publisher struct {
	client          InventoryClient
	continueOnError bool
	logger          logger.Logger
	metrics         Metrics
}

// NewPublisher creates a publisher over client.
func NewPublisher(client InventoryClient, continueOnError bool, log logger.Logger, metrics Metrics) *Publisher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	if metrics == nil {
		metrics = &NoOpMetrics{}
	}

	return &Publisher{
		client:          client,
		continueOnError: continueOnError,
		logger:          log.WithComponent("publisher"),
		metrics:         metrics,
	}
}

// Publish sends every record of batch in device ID order.
func (p *Publisher) Publish(ctx context.Context, batch models.ResolutionBatch) (*PublishResult, error) {
	ids := batch.IDs()
	updates := make([]update, 0, len(ids))

	for _, id := range ids {
		updates = append(updates, update{deviceID: id, payload: batch[id]})
	}

	return p.send(ctx, updates)
}

// PublishImport sends the writable fields of each import record in file order.
func (p *Publisher) PublishImport(ctx context.Context, records []models.ImportRecord) (*PublishResult, error) {
	updates := make([]update, 0, len(records))

	for i := range records {
		updates = append(updates, update{deviceID: records[i].DeviceID, payload: &records[i].ImportFields})
	}

	return p.send(ctx, updates)
}

// send stops at the first failure unless continueOnError is set, in which
// case it keeps going and reports the failures in a single error.
func (p *Publisher) send(ctx context.Context, updates []update) (*PublishResult, error) {
	result := &PublishResult{}

	for _, u := range updates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := p.client.UpdateDevice(ctx, u.deviceID, u.payload)

		p.metrics.RecordPublish(err == nil)

		if err != nil {
			result.Failed = append(result.Failed, u.deviceID)

			if !p.continueOnError {
				return result, fmt.Errorf("publish %s: %w", u.deviceID, err)
			}

			p.logger.Error().Err(err).Str("device_id", u.deviceID).Msg("Failed to update device")

			continue
		}

		result.Published++

		p.logger.Debug().Str("device_id", u.deviceID).Msg("Updated device")
	}

	if len(result.Failed) > 0 {
		return result, fmt.Errorf("%w: %d of %d", errPublishFailed, len(result.Failed), len(updates))
	}

	return result, nil
}
