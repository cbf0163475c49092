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
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultDeviceClass = "computers"
	defaultP9Endpoint  = "https://dashboard.panorama9.com"
)

var (
	errMissingP9Key      = errors.New("panorama9.api_key is required")
	errMissingDellKey    = errors.New("dell.api_key is required")
	errInvalidConcurrent = errors.New("concurrency must not be negative")
	errInvalidTimeout    = errors.New("timeout must not be negative")
	errInvalidThreshold  = errors.New("fault_threshold must not be negative")
)

// Config is the warrantysync configuration file.
type Config struct {
	DeviceClass     string                 `json:"device_class"`      // inventory class to sync, "computers" by default
	Concurrency     int                    `json:"concurrency"`       // parallel lookups; 0 or 1 is sequential
	ContinueOnError bool                   `json:"continue_on_error"` // skip devices on transport faults instead of aborting
	Timeout         models.Duration        `json:"timeout"`           // per HTTP request
	FaultThreshold  int                    `json:"fault_threshold"`   // consecutive vendor faults before its lookups are skipped; 0 disables
	FaultCooldown   models.Duration        `json:"fault_cooldown"`    // how long a tripped vendor is skipped
	MetricsTextfile string                 `json:"metrics_textfile"`  // optional node_exporter textfile path
	Panorama9       models.Panorama9Config `json:"panorama9"`
	Dell            models.DellConfig      `json:"dell"`
	Lenovo          models.LenovoConfig    `json:"lenovo"`
	Logging         *logger.Config         `json:"logging"`
	Tracing         *logger.TracingConfig  `json:"tracing"`
}

// Validate checks required settings and fills in defaults.
func (c *Config) Validate() error {
	if c.DeviceClass == "" {
		c.DeviceClass = defaultDeviceClass
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("%w: %d", errInvalidConcurrent, c.Concurrency)
	}

	if c.Concurrency == 0 {
		c.Concurrency = 1
	}

	if c.Timeout < 0 {
		return errInvalidTimeout
	}

	if c.Timeout == 0 {
		c.Timeout = models.Duration(defaultTimeout)
	}

	if c.FaultThreshold < 0 {
		return fmt.Errorf("%w: %d", errInvalidThreshold, c.FaultThreshold)
	}

	if c.FaultThreshold > 0 && c.FaultCooldown <= 0 {
		c.FaultCooldown = models.Duration(DefaultCircuitBreakerConfig().Cooldown)
	}

	if c.Panorama9.Endpoint == "" {
		c.Panorama9.Endpoint = defaultP9Endpoint
	}

	if c.Panorama9.APIKey == "" {
		return errMissingP9Key
	}

	if c.Dell.APIKey == "" {
		return errMissingDellKey
	}

	if c.Logging == nil {
		c.Logging = &logger.Config{}
	}

	c.Logging.ApplyDefaults()

	if c.Tracing == nil {
		c.Tracing = &logger.TracingConfig{}
	}

	c.Tracing.ApplyDefaults()

	return nil
}
