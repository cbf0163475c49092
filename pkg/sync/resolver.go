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
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

const tracerName = "github.com/carverauto/warrantysync/pkg/sync"

// Skipped records a supported device that did not make it into the batch.
type Skipped struct {
	Device  models.Device
	Outcome Outcome
	Err     error

	position int
}

// Resolution is the result of resolving an inventory.
type Resolution struct {
	Batch       models.ResolutionBatch
	Skipped     []Skipped
	Unsupported int

	mu sync.Mutex
}

func newResolution() *Resolution {
	return &Resolution{Batch: make(models.ResolutionBatch)}
}

func (r *Resolution) add(deviceID string, rec *models.WarrantyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.Batch.Add(deviceID, rec)
}

func (r *Resolution) skip(position int, device *models.Device, outcome Outcome, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Skipped = append(r.Skipped, Skipped{Device: *device, Outcome: outcome, Err: err, position: position})
}

func (r *Resolution) unsupported() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Unsupported++
}

func (r *Resolution) sortSkipped() {
	sort.SliceStable(r.Skipped, func(i, j int) bool {
		return r.Skipped[i].position < r.Skipped[j].position
	})
}

// ResolverConfig controls how a Resolver treats the inventory.
type ResolverConfig struct {
	// Concurrency is the number of lookups in flight. Values below 2 resolve
	// devices one at a time in inventory order.
	Concurrency int
	// ContinueOnError turns transport faults into per-device skips.
	ContinueOnError bool
}

// Resolver dispatches devices to the lookup strategy of their manufacturer.
type Resolver struct {
	strategies      map[models.Manufacturer]Strategy
	concurrency     int
	continueOnError bool

	logger  logger.Logger
	metrics Metrics
	tracer  trace.Tracer
	clock   Clock
}

// NewResolver creates a resolver. Devices whose manufacturer has no entry in
// strategies are skipped silently.
func NewResolver(strategies map[models.Manufacturer]Strategy, cfg ResolverConfig, log logger.Logger, metrics Metrics) *Resolver {
	if log == nil {
		log = logger.NewTestLogger()
	}

	if metrics == nil {
		metrics = &NoOpMetrics{}
	}

	return &Resolver{
		strategies:      strategies,
		concurrency:     cfg.Concurrency,
		continueOnError: cfg.ContinueOnError,
		logger:          log.WithComponent("resolver"),
		metrics:         metrics,
		tracer:          logger.GetTracer(tracerName),
		clock:           realClock{},
	}
}

// strategyFor returns the lookup strategy registered for vendor, or an error
// matching models.ErrUnsupportedManufacturer.
func (r *Resolver) strategyFor(vendor models.Manufacturer) (Strategy, error) {
	strategy, ok := r.strategies[vendor]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedManufacturer, vendor)
	}

	return strategy, nil
}

// Resolve looks up every supported device. Lookup misses are logged and
// skipped. A transport fault stops the run and is returned together with
// the partial resolution, unless ContinueOnError is set.
func (r *Resolver) Resolve(ctx context.Context, devices []models.Device) (*Resolution, error) {
	res := newResolution()

	if r.concurrency <= 1 {
		for i := range devices {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			if err := r.resolveDevice(ctx, i, &devices[i], res); err != nil {
				return res, err
			}
		}

		return res, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range devices {
		device := &devices[i]

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			return r.resolveDevice(gctx, i, device, res)
		})
	}

	err := g.Wait()

	res.sortSkipped()

	return res, err
}

func (r *Resolver) resolveDevice(ctx context.Context, position int, device *models.Device, res *Resolution) error {
	vendor := device.Vendor()

	strategy, err := r.strategyFor(vendor)
	if Classify(err) == OutcomeUnsupported {
		res.unsupported()

		return nil
	}

	rec, err := r.lookup(ctx, vendor, strategy, device)

	switch outcome := Classify(err); outcome {
	case OutcomeResolved:
		if err := res.add(device.DeviceID, rec); err != nil {
			r.logger.Warn().Err(err).Str("device_id", device.DeviceID).Msg("Ignoring repeated device in inventory")
		}

		return nil
	case OutcomeNotFound:
		res.skip(position, device, outcome, err)

		msg := "No warranty found for device"
		if errors.Is(err, models.ErrScrapeStructureMismatch) {
			msg = "Warranty page did not have the expected structure"
		}

		r.diagnostic(r.logger.Warn(), vendor, device).Err(err).Msg(msg)

		return nil
	case OutcomeFault, OutcomeUnsupported:
		// A strategy reporting its own vendor as unsupported is a fault.
		outcome = OutcomeFault

		res.skip(position, device, outcome, err)

		if r.continueOnError {
			r.diagnostic(r.logger.Error(), vendor, device).Err(err).Msg("Warranty lookup failed, skipping device")

			return nil
		}

		return fmt.Errorf("lookup %s (%s): %w", device.DeviceID, vendor, err)
	}

	return nil
}

func (r *Resolver) lookup(
	ctx context.Context, vendor models.Manufacturer, strategy Strategy, device *models.Device,
) (*models.WarrantyRecord, error) {
	ctx, span := r.tracer.Start(ctx, "warranty.lookup", trace.WithAttributes(
		attribute.String("device.id", device.DeviceID),
		attribute.String("device.vendor", string(vendor)),
	))
	defer span.End()

	start := r.clock.Now()

	rec, err := strategy.Lookup(ctx, device)
	if err == nil && rec == nil {
		err = fmt.Errorf("%w: empty result", models.ErrLookupNotFound)
	}

	outcome := Classify(err)

	r.metrics.RecordLookup(vendor, outcome, r.clock.Now().Sub(start))

	span.SetAttributes(attribute.String("lookup.outcome", outcome.String()))

	if outcome == OutcomeFault {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return rec, err
}

// diagnostic adds the fields operators need to chase a device by hand.
func (*Resolver) diagnostic(event *zerolog.Event, vendor models.Manufacturer, device *models.Device) *zerolog.Event {
	event = event.
		Str("device_id", device.DeviceID).
		Str("vendor", string(vendor)).
		Str("serial", device.SerialNumber).
		Str("model", device.Model)

	if vendor == models.ManufacturerLenovo {
		event = event.Str("name", device.Name)
	}

	return event
}
