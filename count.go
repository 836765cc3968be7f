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

// Count is the per-cell signed counter. It is always stored as the widest
// native width (int32); CountKind narrows the saturation bounds applied
// to arithmetic on it. This is the "tagged variant" the design notes
// call for in place of the source's virtual dispatch to a configuration
// object: the bound check is a couple of comparisons, inlined at every
// call site instead of indirected through an interface.
type Count int32

// CountKind selects the saturation bounds for a Count. A cmRow-style
// packed representation isn't worth it here (cells also carry 64-bit
// XOR sums, so there's no space win from sub-byte packing of the count
// field alone) — CountKind only changes *where Count saturates*, not how
// it's stored.
type CountKind uint8

const (
	// CountI8 saturates at [-128, 127]. Suitable for lightly loaded
	// filters (estimated difference well below capacity).
	CountI8 CountKind = iota
	// CountI16 saturates at [-32768, 32767].
	CountI16
	// CountI32 saturates at the full int32 range. Default for filters
	// sized after a failed decode, where load is least predictable.
	CountI32
)

func (k CountKind) bounds() (min, max Count) {
	switch k {
	case CountI8:
		return -128, 127
	case CountI16:
		return -32768, 32767
	default:
		return -2147483648, 2147483647
	}
}

func (k CountKind) String() string {
	switch k {
	case CountI8:
		return "i8"
	case CountI16:
		return "i16"
	default:
		return "i32"
	}
}

// identity is the zero count: "no item contributed to this cell."
func (k CountKind) identity() Count { return 0 }

// unity is the count contributed by a single Add.
func (k CountKind) unity() Count { return 1 }

// increase adds one unit to c, saturating rather than wrapping.
func (k CountKind) increase(c Count) Count {
	return k.add(c, k.unity())
}

// decrease subtracts one unit from c, saturating rather than wrapping.
func (k CountKind) decrease(c Count) Count {
	return k.subtract(c, k.unity())
}

// add combines two counts (used by AddSketch), saturating at the bound.
func (k CountKind) add(a, b Count) Count {
	min, max := k.bounds()
	sum := int64(a) + int64(b)
	return clampCount(sum, min, max)
}

// subtract combines two counts (used by Subtract and Remove/RemoveKey),
// saturating at the bound.
func (k CountKind) subtract(a, b Count) Count {
	min, max := k.bounds()
	diff := int64(a) - int64(b)
	return clampCount(diff, min, max)
}

func clampCount(v int64, min, max Count) Count {
	if v < int64(min) {
		return min
	}
	if v > int64(max) {
		return max
	}
	return Count(v)
}

// isPure reports whether c holds exactly one item's contribution, in
// either direction. |count| == 1 is necessary but not sufficient for
// purity of a cell — the caller must also check the hash-sum identity
// (see isPureCell in ibf.go).
func (k CountKind) isPure(c Count) bool {
	return c == 1 || c == -1
}

// saturated reports whether c sits exactly at one of k's bounds, i.e.
// further arithmetic in that direction would have clamped. This is the
// "soft error" CountSaturation from §7: operations keep going, but
// purity checks and decode become unreliable once a cell saturates.
func (k CountKind) saturated(c Count) bool {
	min, max := k.bounds()
	return c == min || c == max
}

// supports reports whether this CountKind's range comfortably
// accommodates the expected per-cell occupancy implied by capacity
// (total expected items) spread over size cells at k hash functions
// each — i.e. whether saturation should stay rare. This mirrors the
// sizing policy's safety factor (§4.3.1) but at the level of an
// individual count representation rather than the whole sketch.
func (k CountKind) supports(capacity, size int64) bool {
	if size <= 0 {
		return false
	}
	_, max := k.bounds()
	// Expect roughly capacity/size items landing in each cell across
	// all k probes; require at least a 4x safety margin under max
	// before calling this representation adequate.
	avgLoad := capacity / size
	return int64(max) >= avgLoad*4
}

// Supports is the exported form of supports, for the estimator
// package's sizing policy (§4.9) to pick the narrowest count width
// that comfortably covers a given difference estimate and block size.
func (k CountKind) Supports(capacity, size int64) bool {
	return k.supports(capacity, size)
}

// estimatedCount sums |count[i]| over cells and divides by k, the
// standard IBF cardinality estimator: every inserted item contributed
// to exactly k cells, so the total absolute count mass divided by k
// approximates the number of distinct items still represented.
func estimatedCount(cells []Cell, k int) int64 {
	if k <= 0 {
		return 0
	}
	var total int64
	for i := range cells {
		c := cells[i].Count
		if c < 0 {
			total -= int64(c)
		} else {
			total += int64(c)
		}
	}
	return total / int64(k)
}
