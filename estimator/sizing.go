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
	"math"

	"github.com/setreconcile/ibf"
)

// Sizing is the result of SizeFor: the m and k an IBF should be
// allocated with for an estimated difference, plus the count width
// wide enough to carry it without saturating.
type Sizing struct {
	M         int64
	K         int
	CountKind ibf.CountKind
}

// SizeFor implements §4.9's sizing policy given an estimated difference
// d and a failed-decode count f: k is 3 below 200 items, 4 otherwise;
// m is ceil(1.5*d*k), doubled per failed attempt; the count width is
// the narrowest of CountI8/I16/I32 that still comfortably covers the
// expected per-cell load at that m.
func SizeFor(d int64, failedDecodeCount int) Sizing {
	if d < 0 {
		d = 0
	}
	k := 4
	if d < 200 {
		k = 3
	}
	m := int64(math.Ceil(1.5 * float64(d) * float64(k)))
	if m < int64(k) {
		m = int64(k)
	}
	if failedDecodeCount > 0 {
		m *= int64(1) << uint(failedDecodeCount)
	}

	kind := ibf.CountI32
	for _, candidate := range []ibf.CountKind{ibf.CountI8, ibf.CountI16, ibf.CountI32} {
		if candidate.Supports(d, m) {
			kind = candidate
			break
		}
	}

	return Sizing{M: m, K: k, CountKind: kind}
}
