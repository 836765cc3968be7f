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

// Package estimator builds the cardinality estimators a caller consults
// before choosing an IBF's size (§4.6-4.10): a strata estimator for
// close-range differences, a b-bit minwise sketch for far-range ones,
// a hybrid composing both, and a quasi-estimator fallback that samples
// membership directly against an IBF.
package estimator

import (
	"math/bits"

	"github.com/setreconcile/ibf"
	"github.com/setreconcile/ibf/xhash"
)

// Strata is the number of mini-IBFs a Strata estimator partitions
// records into, one per trailing-zero-count stratum of id_hash(id).
// trailing_zeros never exceeds 31 for a 32-bit hash, so 32 strata cover
// every possible stratum exactly.
const Strata = 32

// miniIbfM is the cell count of each per-stratum mini-IBF. It's small
// and fixed: strata estimation only needs to resolve whether a given
// stratum's difference is small enough to decode outright, not to
// recover every record at top granularity.
const miniIbfM = 80

// StrataEstimator buckets records into its top `active` strata by
// trailing_zeros(id_hash(id)), so higher strata see exponentially fewer
// records and decode first on a typical difference size. `active` may
// be smaller than Strata — see NewStrataEstimator — in which case every
// id whose trailing-zero count would fall below the lowest allocated
// stratum is folded into that lowest stratum instead, trading
// resolution at the low (common, high-difference) end for a smaller
// allocation.
type StrataEstimator struct {
	cfg    ibf.IbfConfig
	active int
	strata []*ibf.Ibf // length active, indexed 0..active-1 = strata Strata-active..Strata-1
}

// NewStrataEstimator allocates `active` mini-IBFs covering the top
// `active` strata (Strata-active .. Strata-1). Passing Strata allocates
// the full 32-stratum ladder §4.6 describes; the sizing policy (§4.9)
// instead asks for a smaller, size-dependent count (7, 9, or 13) as a
// cost/resolution tradeoff — see NewHybridEstimator.
func NewStrataEstimator(cfg ibf.IbfConfig, active int) (*StrataEstimator, error) {
	if active <= 0 || active > Strata {
		active = Strata
	}
	se := &StrataEstimator{cfg: cfg, active: active, strata: make([]*ibf.Ibf, active)}
	for i := range se.strata {
		f, err := ibf.NewIbf(cfg, miniIbfM)
		if err != nil {
			return nil, err
		}
		se.strata[i] = f
	}
	return se, nil
}

// Add inserts r into the stratum selected by trailing_zeros(id_hash(id)).
func (se *StrataEstimator) Add(r ibf.Record) error {
	return se.strata[se.indexOf(r.Id)].Add(r)
}

// Remove deletes r from the stratum it would have been added to.
func (se *StrataEstimator) Remove(r ibf.Record) error {
	return se.strata[se.indexOf(r.Id)].Remove(r)
}

// indexOf maps an id to a slot in se.strata: stratum number
// trailing_zeros(id_hash(id)), clamped down into the lowest allocated
// stratum if se.active < Strata.
func (se *StrataEstimator) indexOf(id ibf.Id) int {
	primary := se.cfg.Primary
	if primary == nil {
		primary = xhash.Default()
	}
	h := xhash.IDHash(primary, uint64(id))
	t := bits.TrailingZeros32(h)
	if t >= Strata {
		t = Strata - 1
	}
	lowest := Strata - se.active
	if t < lowest {
		t = lowest
	}
	return t - lowest
}

// Decode estimates |A △ B| given se is side A and other is side B
// (§4.6): subtract corresponding strata from the top (stratum 31) down,
// accumulating decoded difference counts, and stop at the first
// (highest) stratum that fails to decode — everything below it is
// assumed to scale the same way, so the running total is multiplied by
// 2^(stopped-at-stratum+1).
//
// decodeFactor multiplies the returned estimate; a caller doubles it per
// prior failed decode per §4.9's failure-amplification note. It does not
// change the mini-IBFs or which strata are decoded.
func (se *StrataEstimator) Decode(other *StrataEstimator, decodeFactor int64) (int64, bool) {
	if decodeFactor < 1 {
		decodeFactor = 1
	}
	if se.active != other.active {
		return 0, false
	}
	var accumulated int64
	for i := se.active - 1; i >= 0; i-- {
		diff, err := se.strata[i].Subtract(other.strata[i], false)
		if err != nil {
			return 0, false
		}
		onlyInA, onlyInB, outcome := diff.Decode()
		if outcome == ibf.DecodeFailed {
			if i == se.active-1 {
				return 0, false
			}
			// Every allocated stratum below i is assumed, on average, to
			// hold twice as many differing records as the one above it
			// — so the accumulated count from strata above the stall is
			// scaled up by 2^(i+1) to account for the strata that were
			// never reached, per §4.6's "2^s_min * accumulated" rule
			// (s_min here is the lowest stratum actually decoded, i.e.
			// slot i+1).
			return decodeFactor * int64(1<<uint(i+1)) * accumulated, true
		}
		accumulated += int64(len(onlyInA) + len(onlyInB))
	}
	return decodeFactor * accumulated, true
}
