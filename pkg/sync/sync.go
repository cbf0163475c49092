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

// Package sync resolves device warranties against vendor services and writes
// them back to the fleet platform.
package sync

import (
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

// ExportFunc receives the inventory and the resolved batch of an export run.
type ExportFunc func(devices []models.Device, batch models.ResolutionBatch) error

// Syncer runs the fetch, resolve and publish pipeline.
type Syncer struct {
	deviceClass string
	inventory   InventoryClient
	resolver    *Resolver
	publisher   *Publisher
	metrics     Metrics
	logger      logger.Logger
	tracer      trace.Tracer
	clock       Clock
}

// New wires a Syncer from an already validated config.
func New(
	config *Config,
	inventory InventoryClient,
	strategies map[models.Manufacturer]Strategy,
	metrics Metrics,
	log logger.Logger,
) *Syncer {
	if log == nil {
		log = logger.NewTestLogger()
	}

	if metrics == nil {
		metrics = &NoOpMetrics{}
	}

	deviceClass := config.DeviceClass
	if deviceClass == "" {
		deviceClass = defaultDeviceClass
	}

	if config.FaultThreshold > 0 {
		strategies = withCircuitBreakers(strategies, config, log)
	}

	return &Syncer{
		deviceClass: deviceClass,
		inventory:   inventory,
		resolver: NewResolver(strategies, ResolverConfig{
			Concurrency:     config.Concurrency,
			ContinueOnError: config.ContinueOnError,
		}, log, metrics),
		publisher: NewPublisher(inventory, config.ContinueOnError, log, metrics),
		metrics:   metrics,
		logger:    log.WithComponent("syncer"),
		tracer:    logger.GetTracer(tracerName),
		clock:     realClock{},
	}
}

// Run fetches the inventory, resolves warranties and publishes them. With
// dryRun the records are logged instead of published.
func (s *Syncer) Run(ctx context.Context, dryRun bool) (*Summary, error) {
	mode := ModeSync
	if dryRun {
		mode = ModeDryRun
	}

	return s.execute(ctx, mode, func(ctx context.Context, summary *Summary) error {
		_, res, err := s.collect(ctx, summary)
		if err != nil {
			return err
		}

		if dryRun {
			s.logBatch(res.Batch)

			return nil
		}

		published, err := s.publisher.Publish(ctx, res.Batch)
		summary.addPublish(published)

		return err
	})
}

// Export fetches and resolves the inventory like Run, then hands the result
// to write instead of publishing it.
func (s *Syncer) Export(ctx context.Context, write ExportFunc) (*Summary, error) {
	return s.execute(ctx, ModeExport, func(ctx context.Context, summary *Summary) error {
		devices, res, err := s.collect(ctx, summary)
		if err != nil {
			return err
		}

		return write(devices, res.Batch)
	})
}

// Import publishes records from an import file. Records of supported devices
// in the inventory get their shipping and warranty dates replaced by a fresh
// lookup. Records for IDs missing from the inventory are sent unchanged.
func (s *Syncer) Import(ctx context.Context, records []models.ImportRecord, dryRun bool) (*Summary, error) {
	records = slices.Clone(records)

	return s.execute(ctx, ModeImport, func(ctx context.Context, summary *Summary) error {
		devices, err := s.inventory.FetchDevices(ctx, s.deviceClass)
		if err != nil {
			return err
		}

		summary.Devices = len(devices)

		index := make(map[string]models.Device, len(devices))
		for i := range devices {
			index[devices[i].DeviceID] = devices[i]
		}

		matched := make([]models.Device, 0, len(records))

		for i := range records {
			dev, ok := index[records[i].DeviceID]
			if !ok {
				s.logger.Warn().
					Str("device_id", records[i].DeviceID).
					Msg("Device not in inventory, sending import values unchanged")

				continue
			}

			matched = append(matched, dev)
		}

		res, err := s.resolver.Resolve(ctx, matched)
		summary.addResolution(res)

		if err != nil {
			return err
		}

		for i := range records {
			if rec, ok := res.Batch[records[i].DeviceID]; ok {
				records[i].ApplyWarranty(rec)
			}
		}

		if dryRun {
			for i := range records {
				s.logger.Info().
					Str("device_id", records[i].DeviceID).
					Interface("fields", &records[i].ImportFields).
					Msg("Dry run, not updating device")
			}

			return nil
		}

		published, err := s.publisher.PublishImport(ctx, records)
		summary.addPublish(published)

		return err
	})
}

func (s *Syncer) collect(ctx context.Context, summary *Summary) ([]models.Device, *Resolution, error) {
	devices, err := s.inventory.FetchDevices(ctx, s.deviceClass)
	if err != nil {
		return nil, nil, err
	}

	summary.Devices = len(devices)

	res, err := s.resolver.Resolve(ctx, devices)
	summary.addResolution(res)

	return devices, res, err
}

func (s *Syncer) execute(ctx context.Context, mode string, fn func(context.Context, *Summary) error) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "warrantysync."+mode, trace.WithAttributes(
		attribute.String("device.class", s.deviceClass),
	))
	defer span.End()

	summary := &Summary{Mode: mode}
	start := s.clock.Now()

	err := fn(ctx, summary)

	summary.Duration = s.clock.Now().Sub(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	summary.Log(s.logger, err)
	s.metrics.RecordRun(summary, err)

	if ferr := s.metrics.Flush(); ferr != nil {
		s.logger.Warn().Err(ferr).Msg("Failed to write metrics")
	}

	return summary, err
}

func (s *Syncer) logBatch(batch models.ResolutionBatch) {
	for _, id := range batch.IDs() {
		rec := batch[id]

		s.logger.Info().
			Str("device_id", id).
			Str("shipping_date", rec.ShippingDate.String()).
			Str("warranty_date", rec.WarrantyDate.String()).
			Msg("Dry run, not updating device")
	}
}

func withCircuitBreakers(strategies map[models.Manufacturer]Strategy, config *Config, log logger.Logger) map[models.Manufacturer]Strategy {
	breakerConfig := DefaultCircuitBreakerConfig()
	breakerConfig.FailureThreshold = config.FaultThreshold

	if config.FaultCooldown > 0 {
		breakerConfig.Cooldown = time.Duration(config.FaultCooldown)
	}

	wrapped := make(map[models.Manufacturer]Strategy, len(strategies))

	for vendor, strategy := range strategies {
		breaker := NewCircuitBreaker(string(vendor), breakerConfig, realClock{}, log.WithComponent("circuit-breaker"))
		wrapped[vendor] = WithCircuitBreaker(strategy, breaker)
	}

	return wrapped
}
