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

// Cell is one slot of an IBF's cell array. IdSum always carries the XOR
// of every (remapped) record id that has ever touched this cell;
// HashSum carries the XOR of id_hash(id) for a key-IBF, or of
// hash(value) for a reverse IBF — see ibf.go's isPureAt for how the two
// orientations verify purity differently given what HashSum holds.
//
// The identity cell is the zero value: Count 0, IdSum 0, HashSum 0.
type Cell struct {
	Count   Count
	IdSum   Id
	HashSum H
}

// isIdentity reports whether the cell is indistinguishable from one
// that has never been touched — the decoder's completion check (§4.4)
// is exactly "every non-pure cell is the identity cell."
func (c Cell) isIdentity() bool {
	return c.Count == 0 && c.IdSum == 0 && c.HashSum == 0
}

// applyAt folds a (id, hashContribution) pair into the cell under op,
// which is +1 for Add, -1 for Remove. Both idSum and hashSum XOR
// regardless of direction: XOR is its own inverse, so "undoing" an add
// is applying the identical XOR again.
func (c *Cell) applyAt(kind CountKind, op int, id Id, hashContribution H) {
	if op > 0 {
		c.Count = kind.increase(c.Count)
	} else {
		c.Count = kind.decrease(c.Count)
	}
	c.IdSum ^= id
	c.HashSum ^= hashContribution
}

// combineSubtract returns a-b per invariant 4: counts subtract, sums
// XOR.
func combineSubtract(kind CountKind, a, b Cell) Cell {
	return Cell{
		Count:   kind.subtract(a.Count, b.Count),
		IdSum:   a.IdSum ^ b.IdSum,
		HashSum: a.HashSum ^ b.HashSum,
	}
}

// combineAdd returns a+b, used by AddSketch and foldCells: counts add,
// sums XOR.
func combineAdd(kind CountKind, a, b Cell) Cell {
	return Cell{
		Count:   kind.add(a.Count, b.Count),
		IdSum:   a.IdSum ^ b.IdSum,
		HashSum: a.HashSum ^ b.HashSum,
	}
}

// foldCells XOR/sum-reduces src (length m) into a new slice of length
// m/factor, per fold.go's stripe rule: new[i] combines src[i],
// src[i+newM], src[i+2*newM], ... i.e. every original position
// congruent to i modulo the new size.
func foldCells(kind CountKind, src []Cell, factor int) []Cell {
	newM := len(src) / factor
	dst := make([]Cell, newM)
	for i := 0; i < newM; i++ {
		acc := Cell{}
		for t := 0; t < factor; t++ {
			acc = combineAdd(kind, acc, src[i+t*newM])
		}
		dst[i] = acc
	}
	return dst
}
