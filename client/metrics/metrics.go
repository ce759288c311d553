// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics provides Prometheus instrumentation for encryption and
// decryption runs. Each Metrics value owns its own registry so that a run
// can be exported on its own, for example to a node_exporter textfile.
package metrics

import (
	"time"

	"github.com/GoogleCloudPlatform/polycipher/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// LabelOperation is the label for the codec operation.
	LabelOperation = "operation"
	// LabelReason is the label for the failure reason.
	LabelReason = "reason"

	// OpEncrypt labels encryption metrics.
	OpEncrypt = "encrypt"
	// OpDecrypt labels decryption metrics.
	OpDecrypt = "decrypt"

	// Failure reasons.
	ReasonZeroDerivative = "zero_derivative"
	ReasonIterationLimit = "iteration_limit"
	ReasonOutOfRange     = "out_of_range"
	ReasonMalformed      = "malformed"
	ReasonMissingKey     = "missing_key"
	ReasonCanceled       = "canceled"
	ReasonOther          = "other"
)

// Metrics holds the collectors for one client. The zero value is not
// usable; a nil *Metrics is, and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// BytesTotal counts plaintext bytes processed, by operation.
	BytesTotal *prometheus.CounterVec
	// FailuresTotal counts aborted operations, by operation and reason.
	FailuresTotal *prometheus.CounterVec
	// SolverIterations observes the number of Newton steps per encrypted byte.
	SolverIterations prometheus.Histogram
	// OperationDuration observes whole encrypt and decrypt calls in seconds.
	OperationDuration *prometheus.HistogramVec
}

// New creates a Metrics with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "bytes_total",
				Help:      "Total number of plaintext bytes processed by operation",
			},
			[]string{LabelOperation},
		),
		FailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "failures_total",
				Help:      "Total number of aborted operations by operation and reason",
			},
			[]string{LabelOperation, LabelReason},
		),
		SolverIterations: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: constants.MetricsNamespace,
				Subsystem: "newton",
				Name:      "iterations",
				Help:      "Number of Newton steps needed to converge per encrypted byte",
				Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024},
			},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: constants.MetricsNamespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of encrypt and decrypt operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{LabelOperation},
		),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordBytes adds n processed bytes for op.
func (m *Metrics) RecordBytes(op string, n int) {
	if m == nil {
		return
	}
	m.BytesTotal.WithLabelValues(op).Add(float64(n))
}

// RecordIterations observes the step count of one converged root search.
func (m *Metrics) RecordIterations(n uint64) {
	if m == nil {
		return
	}
	m.SolverIterations.Observe(float64(n))
}

// RecordFailure counts an aborted op.
func (m *Metrics) RecordFailure(op, reason string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabelValues(op, reason).Inc()
}

// ObserveDuration records how long op took.
func (m *Metrics) ObserveDuration(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// WriteTextfile writes all collected metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
