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

// FoldingStrategy picks a divisor of the current block size to shrink a
// sketch by, given how full it is. It's consulted by Compress, which is
// the self-driven counterpart to an explicit Fold(factor) call.
type FoldingStrategy interface {
	// ChooseDivisor returns a divisor f of m such that capacity/f still
	// comfortably exceeds itemCount, or 0 if no such divisor exists (the
	// sketch shouldn't shrink further).
	ChooseDivisor(m, capacity, itemCount int64) int64
}

// safetyFactor is the minimum ratio of post-fold capacity to itemCount
// the folding strategy insists on before it will fold (§4.3.1).
const safetyFactor = 2

// DivisorFoldingStrategy picks the largest divisor of m for which
// capacity/f still clears safetyFactor*itemCount. It only tries divisors
// of m itself, so it works regardless of how m was chosen.
type DivisorFoldingStrategy struct{}

func (DivisorFoldingStrategy) ChooseDivisor(m, capacity, itemCount int64) int64 {
	best := int64(0)
	for f := int64(2); f <= m; f++ {
		if m%f != 0 {
			continue
		}
		if capacity/f >= safetyFactor*itemCount {
			best = f
		}
	}
	return best
}

// smoothBases are the primes smooth-numbers block sizes are built from:
// products of powers of 2, 3, 5, 7. Restricting m to this set at
// allocation time (see SmoothSize) means DivisorFoldingStrategy and
// SmoothFoldingStrategy both have many more candidate divisors to work
// with than an arbitrary m would offer.
var smoothBases = [...]int64{2, 3, 5, 7}

// SmoothFoldingStrategy behaves like DivisorFoldingStrategy but only
// considers divisors built from smoothBases, on the assumption that m
// itself was chosen via SmoothSize and so is smooth. This avoids wasting
// time probing divisors that a smooth m could never have.
type SmoothFoldingStrategy struct{}

func (SmoothFoldingStrategy) ChooseDivisor(m, capacity, itemCount int64) int64 {
	divisors := smoothDivisors(m)
	best := int64(0)
	for _, f := range divisors {
		if f > 1 && f > best && capacity/f >= safetyFactor*itemCount {
			best = f
		}
	}
	return best
}

func smoothDivisors(m int64) []int64 {
	divisors := []int64{1}
	remaining := m
	for _, base := range smoothBases {
		for remaining%base == 0 {
			remaining /= base
			next := make([]int64, len(divisors))
			for i, d := range divisors {
				next[i] = d * base
			}
			divisors = append(divisors, next...)
		}
	}
	return divisors
}

// SmoothSize rounds want up to the nearest 7-smooth number (a product of
// powers of 2, 3, 5 and 7), so that an IBF allocated at this size has
// many candidate fold factors available later.
func SmoothSize(want int64) int64 {
	if want <= 1 {
		return 1
	}
	best := int64(-1)
	// Bounded 4-nested loop over exponents of 2,3,5,7 up to a size that
	// comfortably exceeds any realistic sketch (2^31 alone exceeds it),
	// picking the smallest smooth number >= want.
	for e7 := int64(0); pow(7, e7) <= want*7; e7++ {
		for e5 := int64(0); pow(5, e5)*pow(7, e7) <= want*7; e5++ {
			for e3 := int64(0); pow(3, e3)*pow(5, e5)*pow(7, e7) <= want*7; e3++ {
				for e2 := int64(0); ; e2++ {
					v := pow(2, e2) * pow(3, e3) * pow(5, e5) * pow(7, e7)
					if v > want*7 {
						break
					}
					if v >= want && (best == -1 || v < best) {
						best = v
					}
				}
			}
		}
	}
	if best == -1 {
		return want
	}
	return best
}

func pow(base, exp int64) int64 {
	r := int64(1)
	for i := int64(0); i < exp; i++ {
		r *= base
	}
	return r
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
