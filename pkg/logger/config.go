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

package logger

import (
	"os"
	"strconv"
)

const (
	defaultLevel       = "info"
	defaultServiceName = "warrantysync"
)

// DefaultConfig returns the logging settings used when the config file has no
// "logging" section.
func DefaultConfig() *Config {
	c := &Config{}
	c.ApplyDefaults()

	return c
}

// ApplyDefaults fills fields left empty by the config file from LOG_LEVEL,
// DEBUG, LOG_OUTPUT and LOG_TIME_FORMAT, then from built-in values.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = envOr("LOG_LEVEL", defaultLevel)
	}

	if !c.Debug {
		c.Debug = envBool("DEBUG")
	}

	if c.Output == "" {
		c.Output = envOr("LOG_OUTPUT", outputStdout)
	}

	if c.TimeFormat == "" {
		c.TimeFormat = os.Getenv("LOG_TIME_FORMAT")
	}
}

// DefaultTracingConfig returns the tracing settings used when the config file
// has no "tracing" section.
func DefaultTracingConfig() *TracingConfig {
	c := &TracingConfig{}
	c.ApplyDefaults()

	return c
}

// ApplyDefaults fills unset fields from the standard OTEL_* variables.
// OTEL_EXPORTER_OTLP_TRACES_ENDPOINT wins over OTEL_EXPORTER_OTLP_ENDPOINT.
func (c *TracingConfig) ApplyDefaults() {
	if !c.Enabled {
		c.Enabled = envBool("OTEL_TRACES_ENABLED")
	}

	if c.Endpoint == "" {
		c.Endpoint = envOr("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	}

	if c.ServiceName == "" {
		c.ServiceName = envOr("OTEL_SERVICE_NAME", defaultServiceName)
	}

	if !c.Insecure {
		c.Insecure = envBool("OTEL_EXPORTER_OTLP_TRACES_INSECURE")
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

// envBool reports whether key holds a true value; unset or garbage is false.
func envBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))

	return err == nil && b
}
