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

import "github.com/setreconcile/ibf"

// QuasiEstimate is the last-resort fallback of §4.10: used when one
// side holds only a sketch (no strata/minwise estimator of its own)
// and the other holds the raw record set. It samples, rather than
// decodes.
//
// sketch is the side with only an IBF (membership probes via
// sketch.Contains); sample is a subset of the other side's raw records
// (the caller picks how many — a larger sample tightens the estimate
// at the cost of more Contains calls); sampleSetSize is the raw side's
// total cardinality, used to scale the sampled non-member rate back up
// to a full-set difference estimate; sketchSetSize is the sketch side's
// cardinality and does not enter the calculation;
// falsePositiveRate is the sketch's own Bloom-style false-positive
// rate at its current load, used to correct for samples that probe as
// present despite never having been added.
func QuasiEstimate(sketch *ibf.Ibf, sample []ibf.Record, sketchSetSize, sampleSetSize int64, falsePositiveRate float64, upperBound int64) int64 {
	if len(sample) == 0 || falsePositiveRate >= 1 {
		return 0
	}
	var nonMembers int64
	for _, r := range sample {
		if !sketch.Contains(r) {
			nonMembers++
		}
	}
	observedRate := float64(nonMembers) / float64(len(sample))
	correctedRate := observedRate / (1 - falsePositiveRate)
	if correctedRate < 0 {
		correctedRate = 0
	}
	if correctedRate > 1 {
		correctedRate = 1
	}

	estimate := int64(correctedRate * float64(sampleSetSize))
	if upperBound > 0 && estimate > upperBound {
		estimate = upperBound
	}
	return estimate
}
