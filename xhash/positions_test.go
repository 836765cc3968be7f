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

package xhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionsReturnsKDistinctPositions(t *testing.T) {
	secondary := DefaultSecondary()
	for h := uint32(0); h < 200; h++ {
		positions := Positions(secondary, h, 1000, 4)
		assert.Len(t, positions, 4)
		seen := map[int]bool{}
		for _, p := range positions {
			assert.False(t, seen[p], "position %d repeated", p)
			assert.GreaterOrEqual(t, p, 0)
			assert.Less(t, p, 1000)
			seen[p] = true
		}
	}
}

func TestPositionsDeterministic(t *testing.T) {
	secondary := DefaultSecondary()
	a := Positions(secondary, 42, 500, 4)
	b := Positions(secondary, 42, 500, 4)
	assert.Equal(t, a, b)
}

func TestPositionsHandlesDegenerateInputs(t *testing.T) {
	secondary := DefaultSecondary()
	assert.Nil(t, Positions(secondary, 1, 0, 4))
	assert.Nil(t, Positions(secondary, 1, 10, 0))
}

func TestPositionsNeverExceedsM(t *testing.T) {
	secondary := DefaultSecondary()
	positions := Positions(secondary, 7, 4, 4)
	assert.LessOrEqual(t, len(positions), 4)
}
