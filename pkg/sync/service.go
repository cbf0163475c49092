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
	"net/http"
	"time"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
	"github.com/carverauto/warrantysync/pkg/sync/integrations/dell"
	"github.com/carverauto/warrantysync/pkg/sync/integrations/lenovo"
	"github.com/carverauto/warrantysync/pkg/sync/integrations/panorama9"
)

// NewDefault builds a Syncer against the Panorama9, Dell and Lenovo services
// described by cfg. cfg must already be validated.
func NewDefault(cfg *Config, log logger.Logger) (*Syncer, error) {
	httpClient := &http.Client{Timeout: time.Duration(cfg.Timeout)}

	inventory, err := panorama9.NewClient(&cfg.Panorama9, httpClient, log)
	if err != nil {
		return nil, err
	}

	dellStrategy, err := dell.New(&cfg.Dell, httpClient, log)
	if err != nil {
		return nil, err
	}

	lenovoStrategy, err := lenovo.New(&cfg.Lenovo, httpClient, log)
	if err != nil {
		return nil, err
	}

	var metrics Metrics = &NoOpMetrics{}
	if cfg.MetricsTextfile != "" {
		metrics = NewPrometheusMetrics(cfg.MetricsTextfile)
	}

	strategies := map[models.Manufacturer]Strategy{
		models.ManufacturerDell:   dellStrategy,
		models.ManufacturerLenovo: lenovoStrategy,
	}

	return New(cfg, inventory, strategies, metrics, log), nil
}
