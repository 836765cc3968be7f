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

// Package ibf implements approximate set reconciliation over key/value
// data using Invertible Bloom Filters (IBF). Two parties each holding a
// set of (id, value) records exchange small, fixed-size sketches built
// from this package; subtracting one sketch from the other and peeling
// the result locally recovers the records unique to each side plus the
// records whose id matches but value differs, without either side
// transmitting its full set.
//
// The building blocks are, in dependency order: a saturating count
// algebra (count.go), a pluggable hash primitive with a double-hashing
// position generator (xhash), a folding strategy for shrinking a sketch
// into a smaller copy (fold.go), the cell array itself (cell.go, ibf.go), a peeling
// decoder (decode.go), and a paired key+reverse IBF that additionally
// detects modified records (paired.go). Package estimator builds the
// hybrid cardinality estimator used to size a sketch before it is built.
//
// Sketches are not safe for concurrent mutation; see Ibf.Subtract in
// ibf.go for the ownership rules around destructive subtraction.
package ibf
