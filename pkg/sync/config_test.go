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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/warrantysync/pkg/config"
	"github.com/carverauto/warrantysync/pkg/logger"
	"github.com/carverauto/warrantysync/pkg/models"
)

func validConfig() *Config {
	return &Config{
		Panorama9: models.Panorama9Config{APIKey: "p9"},
		Dell:      models.DellConfig{APIKey: "dell"},
	}
}

func TestConfigValidate_Defaults(t *testing.T) {
	cfg := validConfig()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "computers", cfg.DeviceClass)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, models.Duration(30*time.Second), cfg.Timeout)
	assert.Equal(t, "https://dashboard.panorama9.com", cfg.Panorama9.Endpoint)
	require.NotNil(t, cfg.Logging)
	require.NotNil(t, cfg.Tracing)
	assert.Zero(t, cfg.FaultCooldown)
}

func TestConfigValidate_FaultCooldownDefault(t *testing.T) {
	cfg := validConfig()
	cfg.FaultThreshold = 3

	require.NoError(t, cfg.Validate())
	assert.Equal(t, models.Duration(time.Minute), cfg.FaultCooldown)
}

func TestConfigValidate_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.DeviceClass = "servers"
	cfg.Concurrency = 6
	cfg.Timeout = models.Duration(5 * time.Second)
	cfg.Panorama9.Endpoint = "https://p9.example"

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "servers", cfg.DeviceClass)
	assert.Equal(t, 6, cfg.Concurrency)
	assert.Equal(t, models.Duration(5*time.Second), cfg.Timeout)
	assert.Equal(t, "https://p9.example", cfg.Panorama9.Endpoint)
}

func TestConfigValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "missing panorama9 key", mutate: func(c *Config) { c.Panorama9.APIKey = "" }, want: errMissingP9Key},
		{name: "missing dell key", mutate: func(c *Config) { c.Dell.APIKey = "" }, want: errMissingDellKey},
		{name: "negative concurrency", mutate: func(c *Config) { c.Concurrency = -1 }, want: errInvalidConcurrent},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -1 }, want: errInvalidTimeout},
		{name: "negative fault threshold", mutate: func(c *Config) { c.FaultThreshold = -2 }, want: errInvalidThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLoadConfig_EnvDefaultsForLoggingAndTracing(t *testing.T) {
	t.Setenv("WARRANTYSYNC_PANORAMA9_API_KEY", "p9")
	t.Setenv("WARRANTYSYNC_DELL_API_KEY", "dell")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("OTEL_TRACES_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "otel-collector:4317")
	t.Setenv("OTEL_SERVICE_NAME", "warranty-nightly")

	var cfg Config

	require.NoError(t, config.NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg))

	require.NotNil(t, cfg.Logging)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)

	require.NotNil(t, cfg.Tracing)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "otel-collector:4317", cfg.Tracing.Endpoint)
	assert.Equal(t, "warranty-nightly", cfg.Tracing.ServiceName)
}

func TestConfigValidate_PartialSectionsGetDefaults(t *testing.T) {
	t.Setenv("LOG_OUTPUT", "stderr")
	t.Setenv("OTEL_SERVICE_NAME", "")

	cfg := validConfig()
	cfg.Logging = &logger.Config{Level: "debug"}
	cfg.Tracing = &logger.TracingConfig{Endpoint: "collector:4317"}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
	assert.Equal(t, "warrantysync", cfg.Tracing.ServiceName)
}
