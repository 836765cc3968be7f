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

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/setreconcile/ibf/xhash"
)

// IbfConfig bundles everything two IBFs need to agree on before their
// sketches can be combined: the hash-function pair, the fold/size
// policy, and the count representation. It's deliberately a plain
// struct validated eagerly by NewIbf, not a builder or a flag-parsed
// object.
type IbfConfig struct {
	// K is the number of hash functions (cell positions) per item. 3
	// or 4 in practice; must be >= 1.
	K int
	// CountKind selects the saturation width for cell counters.
	CountKind CountKind
	// HashSeed tags the config: two IbfConfigs with different seeds are
	// never considered compatible even if everything else matches (see
	// compatibleWith). It is not mixed into any hash; ids and values
	// hash the same under every seed.
	HashSeed uint64
	// Folding is consulted by Compress; defaults to
	// DivisorFoldingStrategy if nil.
	Folding FoldingStrategy
	// Primary hashes ids (id_hash: a key-IBF's positions and HashSum)
	// and record values (a reverse IBF's positions and HashSum).
	// Defaults to xhash.Default().
	Primary xhash.Func
	// Secondary is the double-hashing hash used to derive h' from an
	// entity's primary hash. Defaults to xhash.DefaultSecondary().
	Secondary xhash.Func
}

// WithDefaults returns a copy of cfg with nil fields filled in from the
// module's stock choices.
func (cfg IbfConfig) WithDefaults() IbfConfig {
	if cfg.Folding == nil {
		cfg.Folding = DivisorFoldingStrategy{}
	}
	if cfg.Primary == nil {
		cfg.Primary = xhash.Default()
	}
	if cfg.Secondary == nil {
		cfg.Secondary = xhash.DefaultSecondary()
	}
	return cfg
}

// Validate checks the config is usable, returning a wrapped error
// rather than panicking — bad configuration is caller input, not
// programmer error, and belongs in the same bucket as NewIbf's other
// returned errors.
func (cfg IbfConfig) Validate() error {
	if cfg.K <= 0 {
		return errors.New("ibf: K must be >= 1")
	}
	return nil
}

// compatibleWith implements the config half of invariant 2: K and the
// hash seed must match. Subtract and AddSketch check isReverse
// themselves and fold both block sizes to their gcd.
func (cfg IbfConfig) compatibleWith(other IbfConfig) bool {
	return cfg.K == other.K && cfg.HashSeed == other.HashSeed
}

func (cfg IbfConfig) String() string {
	return fmt.Sprintf("IbfConfig{k=%d, count=%s, seed=%#x, primary=%s, secondary=%s}",
		cfg.K, cfg.CountKind, cfg.HashSeed, cfg.Primary.Name(), cfg.Secondary.Name())
}
