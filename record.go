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

// Id is the 64-bit identifier of a record. Zero is a reserved sentinel:
// the XOR algebra needs a representable "nothing here" value for an
// empty cell, and id 0 would be indistinguishable from that. remapID
// offsets every id by one, so id 0 is stored as 1; the one id stored as
// 0 is 2^64-1. See design note (b) in spec.md §9.
type Id uint64

// H is a 32-bit value-hash, the other half of what a cell's idSum /
// hashSum pair carries. Its identity element is also 0; id_hash(id)
// remaps away from 0 for the same reason (see xhash.IDHash).
type H uint32

// Record is the unit of reconciliation: an identifier and an opaque
// value. The core never inspects Value beyond hashing it —
// xhash.ValueHash is the only operation performed on the value.
type Record struct {
	Id    Id
	Value []byte
}

// remapID maps the reserved identity value away so it never collides
// with an empty cell's XOR-sum of zero ids. Adding 1 modulo 2^64 is a
// bijection over the whole Id space (0 -> 1, ..., 2^64-1 -> 0), so no
// two distinct ids ever collide post-remap; it's also cheap enough to
// apply on every Add/Remove without a lookup table. unmapID is its
// inverse, applied when an id is emitted from the decoder.
func remapID(id Id) Id {
	return id + 1
}

func unmapID(id Id) Id {
	return id - 1
}
