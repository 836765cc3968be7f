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

package estimator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setreconcile/ibf"
)

func TestHybridEstimatorFactoryThresholds(t *testing.T) {
	factory := HybridEstimatorFactory{Config: testCfg()}

	h, err := factory.Create(100, 0)
	require.NoError(t, err)
	assert.Len(t, h.strata.strata, 7)
	assert.Equal(t, 8, h.minwise.N())

	h, err = factory.Create(9000, 0)
	require.NoError(t, err)
	assert.Len(t, h.strata.strata, 9)
	assert.Equal(t, 10, h.minwise.N())

	// setSize > 16_000 alone is unreachable: the > 8_000 branch already
	// matched, so this still resolves to the 9/10 tier (§9 open
	// question b, preserved rather than silently reordered).
	h, err = factory.Create(20000, 0)
	require.NoError(t, err)
	assert.Len(t, h.strata.strata, 9)
	assert.Equal(t, 10, h.minwise.N())

	// A failed decode still reaches the top tier regardless of setSize.
	h, err = factory.Create(100, 1)
	require.NoError(t, err)
	assert.Len(t, h.strata.strata, 13)
	assert.Equal(t, 15, h.minwise.N())
}

func TestHybridEstimatorDecodeSelfIsZero(t *testing.T) {
	factory := HybridEstimatorFactory{Config: testCfg()}
	a, err := factory.Create(500, 0)
	require.NoError(t, err)
	b, err := factory.Create(500, 0)
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		r := ibf.Record{Id: ibf.Id(i), Value: []byte(fmt.Sprintf("v%d", i))}
		require.NoError(t, a.Add(r))
		require.NoError(t, b.Add(r))
	}

	estimate, ok := a.Decode(b, 0)
	require.True(t, ok)
	assert.Equal(t, int64(0), estimate)
}

func TestHybridEstimatorUpperBound(t *testing.T) {
	factory := HybridEstimatorFactory{Config: testCfg()}
	a, err := factory.Create(10, 0)
	require.NoError(t, err)
	b, err := factory.Create(10, 0)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, a.Add(ibf.Record{Id: ibf.Id(i), Value: []byte("a")}))
	}
	for i := 1000; i < 1005; i++ {
		require.NoError(t, b.Add(ibf.Record{Id: ibf.Id(i), Value: []byte("b")}))
	}

	estimate, ok := a.Decode(b, 10)
	require.True(t, ok)
	assert.LessOrEqual(t, estimate, int64(10))
}
