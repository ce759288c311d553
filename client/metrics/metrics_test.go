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

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBytes(t *testing.T) {
	m := New()
	m.RecordBytes(OpEncrypt, 5)
	m.RecordBytes(OpEncrypt, 7)
	m.RecordBytes(OpDecrypt, 3)

	if got := testutil.ToFloat64(m.BytesTotal.WithLabelValues(OpEncrypt)); got != 12 {
		t.Errorf("bytes_total{operation=%q} = %v, want 12", OpEncrypt, got)
	}
	if got := testutil.ToFloat64(m.BytesTotal.WithLabelValues(OpDecrypt)); got != 3 {
		t.Errorf("bytes_total{operation=%q} = %v, want 3", OpDecrypt, got)
	}
}

func TestRecordFailure(t *testing.T) {
	m := New()
	m.RecordFailure(OpEncrypt, ReasonZeroDerivative)

	if got := testutil.ToFloat64(m.FailuresTotal.WithLabelValues(OpEncrypt, ReasonZeroDerivative)); got != 1 {
		t.Errorf("failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FailuresTotal.WithLabelValues(OpEncrypt, ReasonIterationLimit)); got != 0 {
		t.Errorf("failures_total for unrecorded reason = %v, want 0", got)
	}
}

func TestRecordIterations(t *testing.T) {
	m := New()
	for _, n := range []uint64{1, 2, 3} {
		m.RecordIterations(n)
	}

	if got := testutil.CollectAndCount(m.SolverIterations); got != 1 {
		t.Errorf("CollectAndCount(iterations) = %d, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordBytes(OpEncrypt, 1)
	m.RecordIterations(1)
	m.RecordFailure(OpEncrypt, ReasonOther)
	m.ObserveDuration(OpEncrypt, time.Second)

	if m.Registry() != nil {
		t.Errorf("Registry() on nil Metrics = non-nil, want nil")
	}
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "none.prom")); err != nil {
		t.Errorf("WriteTextfile() on nil Metrics returned error: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordBytes(OpDecrypt, 10)
	m.ObserveDuration(OpDecrypt, 20*time.Millisecond)

	path := filepath.Join(t.TempDir(), "polycipher.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile(%q) returned error: %v", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile(%q) returned error: %v", path, err)
	}

	for _, want := range []string{
		`polycipher_bytes_total{operation="decrypt"} 10`,
		"polycipher_operation_duration_seconds_count",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile does not contain %q:\n%s", want, data)
		}
	}
}
