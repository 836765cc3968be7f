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

// Package xhash is the pluggable hash primitive spec.md §4.2 asks for:
// a seeded, non-cryptographic 64-bit hash, plus the double-hashing
// position generator built on top of it. The core package (ibf) never
// picks an algorithm for the caller — Default() returns the module's
// stock choice, but any Func works.
//
// Keeping the hash implementation swappable behind a narrow interface
// lets two independent families (xxhash and farm) combine for double
// hashing instead of re-running one family twice.
package xhash

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"
	"github.com/cespare/xxhash/v2"
)

// Func is a seeded, non-cryptographic 64-bit hash. Implementations need
// not be safe for concurrent use on the same instance.
type Func interface {
	// Sum64 returns a 64-bit hash of data salted with seed.
	Sum64(data []byte, seed uint64) uint64
	// Name identifies the implementation, used in IbfConfig.String().
	Name() string
}

// XXHash implements Func using cespare/xxhash/v2. It's the default
// primary hash (hashing record values and ids).
type XXHash struct{}

// Sum64 hashes data followed by an 8-byte little-endian encoding of seed.
// xxhash.Sum64 has no seed parameter of its own, so the seed is mixed
// into the input the way Ristretto's CBF folds a per-row seed into the
// key before hashing (bloom.go's `rowHashed = hashed ^ c.seed[row]`),
// adapted here to mix before hashing rather than after.
func (XXHash) Sum64(data []byte, seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	d := xxhash.New()
	_, _ = d.Write(data)
	_, _ = d.Write(buf[:])
	return d.Sum64()
}

func (XXHash) Name() string { return "xxhash" }

// Farm implements Func using dgryski/go-farm's Fingerprint64, seeded by
// appending the seed bytes the same way XXHash does. Used as the
// secondary hash in double hashing (an independent family, not just a
// second run of the primary one) and as the minhash family for the
// b-bit minwise estimator.
type Farm struct{}

func (Farm) Sum64(data []byte, seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	buffered := make([]byte, 0, len(data)+8)
	buffered = append(buffered, data...)
	buffered = append(buffered, buf[:]...)
	return farm.Fingerprint64(buffered)
}

func (Farm) Name() string { return "farm" }

// Default returns the module's stock primary hash implementation.
func Default() Func { return XXHash{} }

// DefaultSecondary returns the module's stock secondary hash
// implementation used for double hashing and minwise permutations.
func DefaultSecondary() Func { return Farm{} }
