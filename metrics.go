/*
 * Copyright 2019 Dgraph Labs, Inc. and Contributors
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

package ibf

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// metricType names one of Metrics' atomic counters: an int enum whose
// String method gives each counter its display name.
type metricType int

const (
	metricDecodeSuccess metricType = iota
	metricDecodeFailed
	metricSaturation
	metricFold
	numMetrics
)

func (t metricType) String() string {
	switch t {
	case metricDecodeSuccess:
		return "decode-success"
	case metricDecodeFailed:
		return "decode-failed"
	case metricSaturation:
		return "saturation"
	case metricFold:
		return "fold"
	default:
		return "unknown"
	}
}

// Metrics is an optional, caller-owned counter bank — nothing in this
// package writes to one on its own; a caller calls RecordDecode/
// RecordFold itself after the operations it wants to track. It gives
// cheap observability into the soft-error paths (§7's CountSaturation)
// and the decode success/failure rate a sizing loop needs to track
// across retries, without an external metrics library.
type Metrics struct {
	all [numMetrics]*uint64
}

// NewMetrics allocates a zeroed Metrics.
func NewMetrics() *Metrics {
	m := &Metrics{}
	for i := range m.all {
		m.all[i] = new(uint64)
	}
	return m
}

func (m *Metrics) add(t metricType, delta uint64) {
	if m == nil {
		return
	}
	atomic.AddUint64(m.all[t], delta)
}

// Get returns the current value of one counter.
func (m *Metrics) Get(t metricType) uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(m.all[t])
}

func (m *Metrics) String() string {
	if m == nil {
		return "Metrics{nil}"
	}
	var b strings.Builder
	b.WriteString("Metrics{")
	for t := metricType(0); t < numMetrics; t++ {
		if t > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%d", t, m.Get(t))
	}
	b.WriteString("}")
	return b.String()
}

// RecordDecode updates decode-outcome and saturation counters after a
// Decode/SubtractAndDecode call — callers that care about long-run
// success rates (e.g. a sizing-retry loop per §4.9) wire this in
// themselves; nothing in decode.go or paired.go calls it implicitly,
// since an Ibf doesn't carry a *Metrics of its own.
func (m *Metrics) RecordDecode(outcome DecodeOutcome, saturated bool) {
	if outcome == DecodeSuccess {
		m.add(metricDecodeSuccess, 1)
	} else {
		m.add(metricDecodeFailed, 1)
	}
	if saturated {
		m.add(metricSaturation, 1)
	}
}

// RecordFold bumps the fold counter — call after a successful Fold or
// Compress.
func (m *Metrics) RecordFold() {
	m.add(metricFold, 1)
}
