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

func TestCellIsIdentity(t *testing.T) {
	assert.True(t, Cell{}.isIdentity())
	assert.False(t, Cell{Count: 1}.isIdentity())
	assert.False(t, Cell{IdSum: 1}.isIdentity())
	assert.False(t, Cell{HashSum: 1}.isIdentity())
}

func TestCellApplyAtIsSelfInverse(t *testing.T) {
	var c Cell
	c.applyAt(CountI32, +1, 42, 7)
	assert.Equal(t, Count(1), c.Count)
	assert.Equal(t, Id(42), c.IdSum)
	assert.Equal(t, H(7), c.HashSum)

	c.applyAt(CountI32, -1, 42, 7)
	assert.True(t, c.isIdentity())
}

func TestCombineSubtractAnticommutes(t *testing.T) {
	a := Cell{Count: 3, IdSum: 0xAB, HashSum: 0x12}
	b := Cell{Count: 1, IdSum: 0xCD, HashSum: 0x34}

	ab := combineSubtract(CountI32, a, b)
	ba := combineSubtract(CountI32, b, a)

	assert.Equal(t, ab.Count, -ba.Count)
	assert.Equal(t, ab.IdSum, ba.IdSum) // XOR is commutative
	assert.Equal(t, ab.HashSum, ba.HashSum)
}

func TestCombineAddAndFoldCells(t *testing.T) {
	src := []Cell{
		{Count: 1, IdSum: 1, HashSum: 1},
		{Count: 1, IdSum: 2, HashSum: 2},
		{Count: 1, IdSum: 4, HashSum: 4},
		{Count: 1, IdSum: 8, HashSum: 8},
	}
	folded := foldCells(CountI32, src, 2)
	assert.Len(t, folded, 2)
	assert.Equal(t, Count(2), folded[0].Count)
	assert.Equal(t, Id(1^4), folded[0].IdSum) // src[0], src[0+newM]
	assert.Equal(t, Count(2), folded[1].Count)
	assert.Equal(t, Id(2^8), folded[1].IdSum) // src[1], src[1+newM]
}
