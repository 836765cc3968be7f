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
	"encoding/binary"

	"github.com/setreconcile/ibf"
	"github.com/setreconcile/ibf/xhash"
)

// MinwiseEstimator is a b-bit minwise sketch (§4.7): n independent
// min-hash permutations, each tracking the smallest hash it has ever
// observed over the ids added to it. Jaccard similarity between two
// sketches is estimated from the fraction of permutations whose low b
// bits agree.
type MinwiseEstimator struct {
	secondary xhash.Func
	bitSize   uint
	mins      []uint64 // raw 64-bit minimum per permutation, index = permutation seed offset
}

// NewMinwiseEstimator allocates n permutations retaining bitSize low
// bits each. secondary supplies the permutation family — one seeded
// hash per slot, the same "independent family via seed" approach
// xhash.Func.Sum64 already offers for double hashing.
func NewMinwiseEstimator(secondary xhash.Func, n int, bitSize uint) *MinwiseEstimator {
	mins := make([]uint64, n)
	for i := range mins {
		mins[i] = ^uint64(0)
	}
	return &MinwiseEstimator{secondary: secondary, bitSize: bitSize, mins: mins}
}

// N returns the permutation count.
func (m *MinwiseEstimator) N() int { return len(m.mins) }

// BitSize returns the number of low bits retained per permutation.
func (m *MinwiseEstimator) BitSize() uint { return m.bitSize }

// Add folds id into every permutation's running minimum.
func (m *MinwiseEstimator) Add(id ibf.Id) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	for i := range m.mins {
		h := m.secondary.Sum64(buf[:], uint64(i)+1)
		if h < m.mins[i] {
			m.mins[i] = h
		}
	}
}

func (m *MinwiseEstimator) packedBit(i int) uint64 {
	mask := uint64(1)<<m.bitSize - 1
	return m.mins[i] & mask
}

// Similarity estimates the agreement fraction between m and other's
// low-bitSize bits, corrected by (1 - 2^-bitSize) and clamped to
// [0, 1] — §4.7's b-bit minwise Jaccard estimator. m and other must
// share n and bitSize.
func (m *MinwiseEstimator) Similarity(other *MinwiseEstimator) float64 {
	if len(m.mins) != len(other.mins) || m.bitSize != other.bitSize || len(m.mins) == 0 {
		return 0
	}
	agree := 0
	for i := range m.mins {
		if m.packedBit(i) == other.packedBit(i) {
			agree++
		}
	}
	observed := float64(agree) / float64(len(m.mins))
	correction := 1.0 - pow2(-int(m.bitSize))
	if correction <= 0 {
		return 0
	}
	j := (observed - pow2(-int(m.bitSize))) / correction
	if j < 0 {
		return 0
	}
	if j > 1 {
		return 1
	}
	return j
}

func pow2(exp int) float64 {
	if exp >= 0 {
		return float64(int64(1) << uint(exp))
	}
	return 1.0 / float64(int64(1)<<uint(-exp))
}

// Fold reduces the permutation count by factor, taking the elementwise
// minimum across each stripe of factor raw minhashes — the same
// stripe-reduction shape ibf.Ibf.Fold uses for cells, adapted here
// since a minimum-of-minimums is still a valid (if coarser) minhash.
// factor must divide N() exactly.
func (m *MinwiseEstimator) Fold(factor int) (*MinwiseEstimator, error) {
	if factor <= 0 || len(m.mins)%factor != 0 {
		return nil, ibf.ErrInvalidFoldFactor
	}
	newN := len(m.mins) / factor
	mins := make([]uint64, newN)
	for i := 0; i < newN; i++ {
		best := m.mins[i]
		for t := 1; t < factor; t++ {
			if v := m.mins[i+t*newN]; v < best {
				best = v
			}
		}
		mins[i] = best
	}
	return &MinwiseEstimator{secondary: m.secondary, bitSize: m.bitSize, mins: mins}, nil
}

// Intersect returns a new sketch holding the bitwise (elementwise)
// minimum of m and other's raw minhashes per slot — the minhash of the
// union of the two underlying sets, which the bit-packed comparison in
// Similarity then approximates from its low bits.
func (m *MinwiseEstimator) Intersect(other *MinwiseEstimator) *MinwiseEstimator {
	mins := make([]uint64, len(m.mins))
	for i := range mins {
		if m.mins[i] < other.mins[i] {
			mins[i] = m.mins[i]
		} else {
			mins[i] = other.mins[i]
		}
	}
	return &MinwiseEstimator{secondary: m.secondary, bitSize: m.bitSize, mins: mins}
}
