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
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

var errVendorDown = fmt.Errorf("%w: 503", models.ErrTransportFault)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	clock := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker("Dell", CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Cooldown:         time.Minute,
	}, clock, logger.NewTestLogger())

	assert.Equal(t, StateClosed, cb.GetState())

	require.ErrorIs(t, cb.Execute(func() error { return errVendorDown }), models.ErrTransportFault)
	assert.Equal(t, StateClosed, cb.GetState())

	require.ErrorIs(t, cb.Execute(func() error { return errVendorDown }), models.ErrTransportFault)
	assert.Equal(t, StateOpen, cb.GetState())

	called := false
	err := cb.Execute(func() error {
		called = true

		return nil
	})
	require.ErrorIs(t, err, errCircuitOpen)
	require.ErrorIs(t, err, models.ErrTransportFault)
	assert.False(t, called)

	clock.advance(time.Minute)

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker("Lenovo", CircuitBreakerConfig{FailureThreshold: 1, Cooldown: time.Second}, clock, logger.NewTestLogger())

	_ = cb.Execute(func() error { return errVendorDown })
	assert.Equal(t, StateOpen, cb.GetState())

	clock.advance(time.Second)

	_ = cb.Execute(func() error { return errVendorDown })
	assert.Equal(t, StateOpen, cb.GetState())
	require.ErrorIs(t, cb.Execute(func() error { return nil }), errCircuitOpen)
}

func TestCircuitBreaker_NotFoundDoesNotTrip(t *testing.T) {
	cb := NewCircuitBreaker("Dell", CircuitBreakerConfig{FailureThreshold: 1}, nil, logger.NewTestLogger())

	for range 3 {
		require.ErrorIs(t, cb.Execute(func() error { return models.ErrLookupNotFound }), models.ErrLookupNotFound)
	}

	require.ErrorIs(t, cb.Execute(func() error { return context.Canceled }), context.Canceled)
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", CircuitBreakerState(9).String())
}

func TestRun_FaultThresholdSkipsVendor(t *testing.T) {
	f := newSyncerFixture(t)

	devices := []models.Device{
		{DeviceID: "d1", SerialNumber: "A1", Manufacturer: "Dell"},
		{DeviceID: "d2", SerialNumber: "A2", Manufacturer: "Dell"},
		{DeviceID: "d3", SerialNumber: "A3", Manufacturer: "Dell"},
		{DeviceID: "d4", SerialNumber: "A4", Manufacturer: "Dell"},
	}

	f.inventory.EXPECT().FetchDevices(gomock.Any(), "computers").Return(devices, nil)
	f.dell.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(nil, errVendorDown).Times(2)

	cfg := validConfig()
	cfg.ContinueOnError = true
	cfg.FaultThreshold = 2
	require.NoError(t, cfg.Validate())

	summary, err := f.syncer(cfg).Run(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Faults)
	assert.Zero(t, summary.Resolved)
}

func TestWithCircuitBreaker_PassesRecordThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := NewMockStrategy(ctrl)
	record := models.NewWarrantyRecord(shipped, warrantyEnd)

	next.EXPECT().Lookup(gomock.Any(), deviceWithID("d1")).Return(record, nil)

	strategy := WithCircuitBreaker(next, NewCircuitBreaker("Dell", DefaultCircuitBreakerConfig(), nil, logger.NewTestLogger()))

	got, err := strategy.Lookup(context.Background(), &models.Device{DeviceID: "d1"})
	require.NoError(t, err)
	assert.Same(t, record, got)
}
