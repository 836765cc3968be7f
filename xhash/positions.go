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

import "encoding/binary"

// DoubleHashSeed is the fixed seed spec.md §4.2 mandates for deriving
// the secondary hash h' from an entity hash h.
const DoubleHashSeed uint64 = 0x365CAB4E

// IDHash returns id_hash(id): a 32-bit word derived from id, remapped
// away from 0 so hashSum == id_hash(idSum) is a meaningful purity check
// (an empty cell's hashSum is 0, and a real id must never hash to that).
func IDHash(f Func, id uint64) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], id)
	h := uint32(f.Sum64(buf[:], 0))
	if h == 0 {
		h = 1
	}
	return h
}

// ValueHash returns a 32-bit hash of an opaque value. Unlike IDHash,
// there's no reserved-zero concern here: a value-hash of 0 is a valid
// (if unlucky) hashSum contribution, and it isn't used as a purity
// check's right-hand side the way id_hash(idSum) is.
func ValueHash(f Func, value []byte) uint32 {
	return uint32(f.Sum64(value, 0))
}

// Positions computes the k distinct cell positions for an entity whose
// primary hash is h, via double hashing: h' = hash(h, DoubleHashSeed),
// then probe (h + j*h') mod m for j = 0, 1, 2, ..., skipping duplicates
// until k distinct positions are collected.
//
// Callers are expected to maintain m >= k (ibf.NewIbf validates this at
// construction), so in the overwhelmingly common case this returns
// exactly k positions. As a correctness backstop against a degenerate
// (h, h', m) combination whose orbit under +h' (mod m) revisits fewer
// than k distinct residues, the search gives up after m probes and
// returns whatever distinct positions it found — better than hanging.
func Positions(secondary Func, h uint32, m, k int) []int {
	if m <= 0 || k <= 0 {
		return nil
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], h)
	hp := uint32(secondary.Sum64(buf[:], DoubleHashSeed))
	if hp == 0 {
		hp = 1
	}

	positions := make([]int, 0, k)
	seen := make(map[int]struct{}, k)
	for j := 0; j < m && len(positions) < k; j++ {
		pos := int((uint64(h) + uint64(j)*uint64(hp)) % uint64(m))
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		positions = append(positions, pos)
	}
	return positions
}
