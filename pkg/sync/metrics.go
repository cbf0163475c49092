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

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carverauto/warrantysync/pkg/models"
)

const metricPrefix = "warrantysync_"

var errMetricsWrite = errors.New("failed to write metrics textfile")

// Metrics collects per-run statistics.
type Metrics interface {
	RecordLookup(vendor models.Manufacturer, outcome Outcome, duration time.Duration)
	RecordPublish(success bool)
	RecordRun(summary *Summary, err error)
	// Flush persists collected metrics, if the implementation stores them.
	Flush() error
}

// NoOpMetrics provides a no-op implementation of the Metrics interface
type NoOpMetrics struct{}

func (*NoOpMetrics) RecordLookup(models.Manufacturer, Outcome, time.Duration) {}
func (*NoOpMetrics) RecordPublish(bool)                                       {}
func (*NoOpMetrics) RecordRun(*Summary, error)                                {}
func (*NoOpMetrics) Flush() error                                             { return nil }

// PrometheusMetrics records run metrics in a private registry and writes them
// in the text exposition format, for node_exporter's textfile collector.
type PrometheusMetrics struct {
	registry *prometheus.Registry
	path     string

	lookups       *prometheus.CounterVec
	lookupLatency *prometheus.HistogramVec
	publishes     *prometheus.CounterVec
	lastRun       *prometheus.GaugeVec
	lastDuration  prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// NewPrometheusMetrics creates a collector that Flush writes to path.
func NewPrometheusMetrics(path string) *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		path:     path,
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "lookups_total",
				Help: "Warranty lookups by vendor and outcome",
			},
			[]string{"vendor", "outcome"},
		),
		lookupLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "lookup_duration_seconds",
				Help:    "Warranty lookup latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"vendor"},
		),
		publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "publishes_total",
				Help: "Device updates sent to the fleet platform by result",
			},
			[]string{"result"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "last_run_devices",
				Help: "Device counts of the last run by category",
			},
			[]string{"category"},
		),
		lastDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_success",
			Help: "1 if the last run finished without a fatal error",
		}),
	}

	m.registry.MustRegister(m.lookups, m.lookupLatency, m.publishes, m.lastRun, m.lastDuration, m.lastSuccess)

	return m
}

func (m *PrometheusMetrics) RecordLookup(vendor models.Manufacturer, outcome Outcome, duration time.Duration) {
	m.lookups.WithLabelValues(string(vendor), outcome.String()).Inc()
	m.lookupLatency.WithLabelValues(string(vendor)).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordPublish(success bool) {
	result := "success"
	if !success {
		result = "error"
	}

	m.publishes.WithLabelValues(result).Inc()
}

func (m *PrometheusMetrics) RecordRun(summary *Summary, err error) {
	if summary != nil {
		for category, count := range summary.counts() {
			m.lastRun.WithLabelValues(category).Set(float64(count))
		}

		m.lastDuration.Set(summary.Duration.Seconds())
	}

	if err == nil {
		m.lastSuccess.Set(1)
	} else {
		m.lastSuccess.Set(0)
	}
}

// Flush writes the registry to the textfile path. It is a no-op without one.
func (m *PrometheusMetrics) Flush() error {
	if m.path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(m.path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", errMetricsWrite, err)
	}

	return nil
}
