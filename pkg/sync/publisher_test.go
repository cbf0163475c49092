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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/warrantysync/pkg/models"
)

func testBatch(t *testing.T, ids ...string) models.ResolutionBatch {
	t.Helper()

	batch := make(models.ResolutionBatch)
	for _, id := range ids {
		require.NoError(t, batch.Add(id, models.NewWarrantyRecord(shipped, warrantyEnd)))
	}

	return batch
}

func TestPublish_SortedOrderAndPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockInventoryClient(ctrl)

	var bodies []string

	record := func(_ context.Context, _ string, payload interface{}) error {
		data, err := json.Marshal(payload)
		require.NoError(t, err)

		bodies = append(bodies, string(data))

		return nil
	}

	gomock.InOrder(
		client.EXPECT().UpdateDevice(gomock.Any(), "a", gomock.Any()).DoAndReturn(record),
		client.EXPECT().UpdateDevice(gomock.Any(), "b", gomock.Any()).DoAndReturn(record),
		client.EXPECT().UpdateDevice(gomock.Any(), "c", gomock.Any()).DoAndReturn(record),
	)

	res, err := NewPublisher(client, false, nil, nil).Publish(context.Background(), testBatch(t, "c", "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Published)
	assert.Empty(t, res.Failed)

	require.Len(t, bodies, 3)
	assert.JSONEq(t,
		`{"price_currency":"USD","price":1000.0,"shipping_date":"2020-01-01T00:00:00Z","warranty_date":"2023-01-01T00:00:00Z"}`,
		bodies[0])
	assert.Contains(t, bodies[0], `"price":1000.0`)
}

func TestPublish_FirstFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockInventoryClient(ctrl)

	gomock.InOrder(
		client.EXPECT().UpdateDevice(gomock.Any(), "a", gomock.Any()).Return(nil),
		client.EXPECT().UpdateDevice(gomock.Any(), "b", gomock.Any()).Return(models.ErrUpstreamUnavailable),
	)

	res, err := NewPublisher(client, false, nil, nil).Publish(context.Background(), testBatch(t, "a", "b", "c"))
	require.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	assert.Equal(t, 1, res.Published)
	assert.Equal(t, []string{"b"}, res.Failed)
}

func TestPublish_ContinueOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockInventoryClient(ctrl)

	client.EXPECT().UpdateDevice(gomock.Any(), "a", gomock.Any()).Return(models.ErrUpstreamUnavailable)
	client.EXPECT().UpdateDevice(gomock.Any(), "b", gomock.Any()).Return(nil)
	client.EXPECT().UpdateDevice(gomock.Any(), "c", gomock.Any()).Return(nil)

	res, err := NewPublisher(client, true, nil, nil).Publish(context.Background(), testBatch(t, "a", "b", "c"))
	require.ErrorIs(t, err, errPublishFailed)
	assert.Equal(t, 2, res.Published)
	assert.Equal(t, []string{"a"}, res.Failed)
}

func TestPublish_EmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockInventoryClient(ctrl)

	res, err := NewPublisher(client, false, nil, nil).Publish(context.Background(), models.ResolutionBatch{})
	require.NoError(t, err)
	assert.Zero(t, res.Published)
}

func TestPublishImport_SendsOnlyWritableFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockInventoryClient(ctrl)

	alias := "NYC file server"
	records := []models.ImportRecord{
		{DeviceID: "z9", ImportFields: models.ImportFields{Alias: &alias}},
	}

	client.EXPECT().UpdateDevice(gomock.Any(), "z9", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, payload interface{}) error {
			data, err := json.Marshal(payload)
			require.NoError(t, err)
			assert.JSONEq(t, `{"alias":"NYC file server"}`, string(data))

			return nil
		})

	res, err := NewPublisher(client, false, nil, nil).PublishImport(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Published)
}
