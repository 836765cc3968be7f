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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSet(t *testing.T, cfg IbfConfig, m int64, n int, offset uint64) *Ibf {
	t.Helper()
	f, err := NewIbf(cfg, m)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, f.Add(record(offset+uint64(i), fmt.Sprintf("v%d", offset+uint64(i)))))
	}
	return f
}

func TestDecodeIdenticalSetsYieldsEmpty(t *testing.T) {
	cfg := testConfig()
	a := buildSet(t, cfg, 1500, 1000, 0)
	b := buildSet(t, cfg, 1500, 1000, 0)

	diff, err := a.Subtract(b, false)
	require.NoError(t, err)
	onlyInA, onlyInB, outcome := diff.Decode()
	assert.Equal(t, DecodeSuccess, outcome)
	assert.Empty(t, onlyInA)
	assert.Empty(t, onlyInB)
}

func TestDecodeDisjointSideEmptyVsThousand(t *testing.T) {
	cfg := testConfig()
	a, err := NewIbf(cfg, 6000)
	require.NoError(t, err)
	b := buildSet(t, cfg, 6000, 1000, 0)

	diff, err := a.Subtract(b, false)
	require.NoError(t, err)
	onlyInA, onlyInB, outcome := diff.Decode()
	assert.Equal(t, DecodeSuccess, outcome)
	assert.Empty(t, onlyInA)
	assert.Len(t, onlyInB, 1000)
}

func TestDecodeOneSidedIds(t *testing.T) {
	cfg := testConfig()
	a := buildSet(t, cfg, 4000, 500, 0)
	b := buildSet(t, cfg, 4000, 500, 1000) // disjoint id ranges

	diff, err := a.Subtract(b, false)
	require.NoError(t, err)
	onlyInA, onlyInB, outcome := diff.Decode()
	assert.Equal(t, DecodeSuccess, outcome)
	assert.Len(t, onlyInA, 500)
	assert.Len(t, onlyInB, 500)
}

func TestDecodeFailsWhenUndersized(t *testing.T) {
	cfg := testConfig()
	a := buildSet(t, cfg, 32, 200, 0)
	b := buildSet(t, cfg, 32, 200, 1000)

	diff, err := a.Subtract(b, false)
	require.NoError(t, err)
	_, _, outcome := diff.Decode()
	assert.Equal(t, DecodeFailed, outcome)
}

func TestDecodeOutcomeString(t *testing.T) {
	assert.Equal(t, "success", DecodeSuccess.String())
	assert.Equal(t, "failed", DecodeFailed.String())
}
