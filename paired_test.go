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

func buildPairedSet(t *testing.T, cfg IbfConfig, m int64, n int, valueFor func(id uint64) string) *PairedIbf {
	t.Helper()
	p, err := NewPairedIbf(cfg, m)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		id := uint64(i)
		require.NoError(t, p.Add(record(id, valueFor(id))))
	}
	return p
}

// Scenario 1 (§8): two identical 1,000-record sets decode to empty sets
// and success.
func TestPairedIdenticalSets(t *testing.T) {
	cfg := testConfig()
	same := func(id uint64) string { return fmt.Sprintf("v%d", id) }
	a := buildPairedSet(t, cfg, 4000, 1000, same)
	b := buildPairedSet(t, cfg, 4000, 1000, same)

	onlyInA, onlyInB, modified, outcome, err := a.SubtractAndDecode(b, false)
	require.NoError(t, err)
	assert.Equal(t, DecodeSuccess, outcome)
	assert.Empty(t, onlyInA)
	assert.Empty(t, onlyInB)
	assert.Empty(t, modified)
}

// Scenario 2 (§8): 1,000 records identical in id, 50 with altered value
// on the right, decoded with m = 15*50.
func TestPairedFiftyModifications(t *testing.T) {
	cfg := testConfig()
	left := func(id uint64) string { return fmt.Sprintf("v%d", id) }
	right := func(id uint64) string {
		if id < 50 {
			return fmt.Sprintf("modified%d", id)
		}
		return fmt.Sprintf("v%d", id)
	}
	a := buildPairedSet(t, cfg, 15*50, 1000, left)
	b := buildPairedSet(t, cfg, 15*50, 1000, right)

	onlyInA, onlyInB, modified, outcome, err := a.SubtractAndDecode(b, false)
	require.NoError(t, err)
	assert.Equal(t, DecodeSuccess, outcome)
	assert.Empty(t, onlyInA)
	assert.Empty(t, onlyInB)
	require.Len(t, modified, 50)
	for _, id := range modified {
		assert.Less(t, uint64(id), uint64(50))
	}
}

// Scenario 3 (§8): A empty, B holds 1,000 records.
func TestPairedEmptyVsThousand(t *testing.T) {
	cfg := testConfig()
	p, err := NewPairedIbf(cfg, 6000)
	require.NoError(t, err)
	b := buildPairedSet(t, cfg, 6000, 1000, func(id uint64) string { return fmt.Sprintf("v%d", id) })

	onlyInA, onlyInB, modified, outcome, err := p.SubtractAndDecode(b, false)
	require.NoError(t, err)
	assert.Equal(t, DecodeSuccess, outcome)
	assert.Empty(t, onlyInA)
	assert.Len(t, onlyInB, 1000)
	assert.Empty(t, modified)
}

func TestPairedCompressFoldsBothFilters(t *testing.T) {
	cfg := testConfig()
	p := buildPairedSet(t, cfg, 16, 3, func(id uint64) string { return fmt.Sprintf("v%d", id) })
	out, err := p.Compress()
	require.NoError(t, err)
	// m=16, 3 items: the largest divisor f with 16/f >= 2*3 is 2.
	assert.Equal(t, int64(8), out.Primary.M())
	assert.Equal(t, int64(8), out.Reverse.M())
}

func TestPairedItemCountTracksPrimary(t *testing.T) {
	cfg := testConfig()
	p := buildPairedSet(t, cfg, 64, 5, func(id uint64) string { return fmt.Sprintf("v%d", id) })
	assert.Equal(t, int64(5), p.ItemCount())
}
