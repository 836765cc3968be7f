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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountKindBounds(t *testing.T) {
	min, max := CountI8.bounds()
	assert.Equal(t, Count(-128), min)
	assert.Equal(t, Count(127), max)

	min, max = CountI16.bounds()
	assert.Equal(t, Count(-32768), min)
	assert.Equal(t, Count(32767), max)
}

func TestCountKindSaturatesInsteadOfWrapping(t *testing.T) {
	c := CountI8.bounds
	_, max := c()
	got := CountI8.add(max, 1)
	assert.Equal(t, max, got)
	assert.True(t, CountI8.saturated(got))

	min, _ := c()
	got = CountI8.subtract(min, 1)
	assert.Equal(t, min, got)
	assert.True(t, CountI8.saturated(got))
}

func TestCountKindIsPure(t *testing.T) {
	assert.True(t, CountI32.isPure(1))
	assert.True(t, CountI32.isPure(-1))
	assert.False(t, CountI32.isPure(0))
	assert.False(t, CountI32.isPure(2))
}

func TestCountKindSupports(t *testing.T) {
	assert.True(t, CountI32.Supports(100, 1000))
	assert.False(t, CountI8.Supports(100000, 10))
}

func TestEstimatedCount(t *testing.T) {
	cells := []Cell{
		{Count: 1}, {Count: 1}, {Count: -1}, {Count: 0},
	}
	// k=1 so every cell's absolute count contributes directly.
	assert.Equal(t, int64(3), estimatedCount(cells, 1))
}
