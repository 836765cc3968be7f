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

// PairedIbf layers a reverse Ibf alongside a key Ibf to recover modified
// records — same id, different value — that a lone EGH-style filter
// can't distinguish from an unrelated add-then-delete (§4.5). The two
// filters are siblings, not nested: every Add/Remove goes to both, and
// Decode cross-references their independent peels rather than either
// filter knowing about the other mid-peel.
//
// Primary is indexed by id_hash(id), so a record present under the same
// id on both sides always lands on the same cells and fully cancels
// under Subtract regardless of its value — Primary alone only ever
// reports genuine one-sided ids.
//
// Reverse is indexed by hash(value), so two records sharing an id but
// differing in value land on different cells and each peels out on its
// own. A modified record therefore shows up as the *same* id decoding
// out of both sides of Reverse's subtraction — that overlap is exactly
// the signal Decode uses to separate "modified" from "added"/"removed".
type PairedIbf struct {
	Primary *Ibf
	Reverse *Ibf
}

// NewPairedIbf allocates both filters at the same size and configuration.
func NewPairedIbf(cfg IbfConfig, m int64) (*PairedIbf, error) {
	primary, err := NewIbf(cfg, m)
	if err != nil {
		return nil, err
	}
	reverse, err := NewReverseIbf(cfg, m)
	if err != nil {
		return nil, err
	}
	return &PairedIbf{Primary: primary, Reverse: reverse}, nil
}

// Add inserts r into both filters.
func (p *PairedIbf) Add(r Record) error {
	if err := p.Primary.Add(r); err != nil {
		return err
	}
	return p.Reverse.Add(r)
}

// Remove deletes r from both filters.
func (p *PairedIbf) Remove(r Record) error {
	if err := p.Primary.Remove(r); err != nil {
		return err
	}
	return p.Reverse.Remove(r)
}

// ItemCount returns the running Add/Remove balance, same as Ibf.ItemCount.
func (p *PairedIbf) ItemCount() int64 { return p.Primary.ItemCount() }

// Compress folds both filters down per their shared FoldingStrategy.
func (p *PairedIbf) Compress() (*PairedIbf, error) {
	primary, err := p.Primary.Compress()
	if err != nil {
		return nil, err
	}
	reverse, err := p.Reverse.Compress()
	if err != nil {
		return nil, err
	}
	return &PairedIbf{Primary: primary, Reverse: reverse}, nil
}

// Subtract computes p - other filter-wise, returning a new PairedIbf
// ready for SubtractAndDecode. destructive has the same meaning as
// Ibf.Subtract, applied independently to both filters.
func (p *PairedIbf) Subtract(other *PairedIbf, destructive bool) (*PairedIbf, error) {
	primary, err := p.Primary.Subtract(other.Primary, destructive)
	if err != nil {
		return nil, err
	}
	reverse, err := p.Reverse.Subtract(other.Reverse, destructive)
	if err != nil {
		return nil, err
	}
	return &PairedIbf{Primary: primary, Reverse: reverse}, nil
}

// SubtractAndDecode is Subtract immediately followed by Decode — the
// usual entry point, since a PairedIbf that isn't a subtraction result
// has nothing meaningful to decode.
func (p *PairedIbf) SubtractAndDecode(other *PairedIbf, destructive bool) (onlyInA, onlyInB, modified []Id, outcome DecodeOutcome, err error) {
	diff, err := p.Subtract(other, destructive)
	if err != nil {
		return nil, nil, nil, DecodeFailed, err
	}
	onlyInA, onlyInB, modified, outcome = diff.Decode()
	return onlyInA, onlyInB, modified, outcome, nil
}

// Decode peels both filters and reconciles their results: Primary's
// peel gives the genuine one-sided ids directly (modifications never
// reach it, having cancelled out during Subtract); Reverse's peel gives
// every id that changed sides at all, with a modified record appearing
// in *both* its onlyIn-sets since its two differently-valued copies
// land on different cells. The intersection of Reverse's two sets is
// exactly the modified ids; Primary's sets are returned unchanged as
// onlyInA/onlyInB. Outcome is the conjunction of both peels' outcomes,
// per invariant 5 applied twice.
func (p *PairedIbf) Decode() (onlyInA, onlyInB, modified []Id, outcome DecodeOutcome) {
	onlyInA, onlyInB, outcomeP := p.Primary.Decode()
	reverseA, reverseB, outcomeR := p.Reverse.Decode()

	inReverseB := decodeIDSet(reverseB)
	for _, id := range reverseA {
		if inReverseB[id] {
			modified = append(modified, id)
		}
	}

	outcome = DecodeSuccess
	if outcomeP == DecodeFailed || outcomeR == DecodeFailed {
		outcome = DecodeFailed
	}
	return onlyInA, onlyInB, modified, outcome
}

func decodeIDSet(ids []Id) map[Id]bool {
	set := make(map[Id]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
