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
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DebugOverridesLevel(t *testing.T) {
	log, closeFn, err := New(&Config{Level: "error", Debug: true, Output: "stdout"})
	require.NoError(t, err)

	defer func() { _ = closeFn() }()

	zl, ok := log.(*zeroLogger)
	require.True(t, ok)
	assert.Equal(t, zerolog.DebugLevel, zl.logger.GetLevel())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(&Config{Level: "loud"})
	require.Error(t, err)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.log")

	log, closeFn, err := New(&Config{Level: "info", Output: path})
	require.NoError(t, err)

	log.WithComponent("resolver").Warn().Str("device_id", "d1").Msg("lookup found nothing")
	log.Debug().Msg("filtered out")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "resolver", entry["component"])
	assert.Equal(t, "d1", entry["device_id"])
}

func TestNew_UnwritableFile(t *testing.T) {
	_, _, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "sync.log")})
	require.Error(t, err)
}

func TestSetDebug(t *testing.T) {
	log, closeFn, err := New(&Config{Level: "info"})
	require.NoError(t, err)

	defer func() { _ = closeFn() }()

	log.SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, log.(*zeroLogger).logger.GetLevel())

	log.SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, log.(*zeroLogger).logger.GetLevel())
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_OUTPUT", "")

	config := DefaultConfig()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "stdout", config.Output)
}

func TestConfigApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_OUTPUT", "stderr")
	t.Setenv("DEBUG", "not-a-bool")

	config := &Config{Level: "error"}
	config.ApplyDefaults()

	assert.Equal(t, "error", config.Level)
	assert.Equal(t, "stderr", config.Output)
	assert.False(t, config.Debug)
}

func TestTracingConfigApplyDefaults(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_INSECURE", "true")

	config := DefaultTracingConfig()

	assert.True(t, config.Enabled)
	assert.Equal(t, "collector:4317", config.Endpoint)
	assert.Equal(t, "warrantysync", config.ServiceName)
	assert.True(t, config.Insecure)

	explicit := &TracingConfig{Endpoint: "file:4317", ServiceName: "nightly"}
	explicit.ApplyDefaults()

	assert.Equal(t, "file:4317", explicit.Endpoint)
	assert.Equal(t, "nightly", explicit.ServiceName)
}

func TestInitializeTracing_NoExporter(t *testing.T) {
	shutdown, err := InitializeTracing(context.Background(), &TracingConfig{ServiceName: "test"}, NewTestLogger())
	require.NoError(t, err)

	_, span := GetTracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(context.Background()))
}
