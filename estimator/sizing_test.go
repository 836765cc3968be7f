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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/setreconcile/ibf"
)

func TestSizeForSmallDifferenceUsesKThree(t *testing.T) {
	s := SizeFor(100, 0)
	assert.Equal(t, 3, s.K)
	assert.Equal(t, int64(450), s.M) // ceil(1.5*100*3)
}

func TestSizeForLargeDifferenceUsesKFour(t *testing.T) {
	s := SizeFor(500, 0)
	assert.Equal(t, 4, s.K)
	assert.Equal(t, int64(3000), s.M) // ceil(1.5*500*4)
}

func TestSizeForDoublesOnFailedDecode(t *testing.T) {
	base := SizeFor(100, 0)
	retried := SizeFor(100, 2)
	assert.Equal(t, base.M*4, retried.M)
}

func TestSizeForNeverBelowK(t *testing.T) {
	s := SizeFor(0, 0)
	assert.GreaterOrEqual(t, s.M, int64(s.K))
}

func TestSizeForPicksNarrowestAdequateCountKind(t *testing.T) {
	// Tiny difference over a large m: load per cell is minuscule, so
	// even CountI8 comfortably covers it.
	s := SizeFor(10, 0)
	assert.Equal(t, ibf.CountI8, s.CountKind)
}
