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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXXHashDeterministic(t *testing.T) {
	h := XXHash{}
	a := h.Sum64([]byte("hello"), 1)
	b := h.Sum64([]byte("hello"), 1)
	assert.Equal(t, a, b)
}

func TestXXHashSeedChangesOutput(t *testing.T) {
	h := XXHash{}
	a := h.Sum64([]byte("hello"), 1)
	b := h.Sum64([]byte("hello"), 2)
	assert.NotEqual(t, a, b)
}

func TestFarmIsIndependentFromXXHash(t *testing.T) {
	x := XXHash{}.Sum64([]byte("hello"), 7)
	f := Farm{}.Sum64([]byte("hello"), 7)
	assert.NotEqual(t, x, f)
}

func TestIDHashNeverZero(t *testing.T) {
	h := Default()
	for id := uint64(0); id < 1000; id++ {
		assert.NotZero(t, IDHash(h, id))
	}
}

func TestValueHashMayBeZeroButIsDeterministic(t *testing.T) {
	h := Default()
	a := ValueHash(h, []byte("abc"))
	b := ValueHash(h, []byte("abc"))
	assert.Equal(t, a, b)
}

func TestDefaultAndDefaultSecondaryAreDistinctFamilies(t *testing.T) {
	assert.NotEqual(t, Default().Name(), DefaultSecondary().Name())
}
