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
	"unsafe"

	"github.com/dustin/go-humanize"

	"github.com/setreconcile/ibf/xhash"
)

// Ibf is an Invertible Bloom Filter: a counting sketch whose cells carry
// XOR-folded identifier sums and hash sums. A plain (key) Ibf is indexed
// by id_hash(id); a reverse Ibf (used internally by PairedIbf) is
// indexed by hash(value) instead, so the pair together can recover
// modified records that a plain EGUV filter can't (see paired.go).
//
// Ibf is not safe for concurrent mutation — see the package doc comment.
type Ibf struct {
	cfg       IbfConfig
	isReverse bool
	cells     []Cell
	itemCount int64
	// capacity is m at allocation time, before any Fold/Compress shrinks
	// the live cell array — the wire format (wire.go) carries both so a
	// deserialized sketch can tell it was folded down from a larger size.
	capacity int64

	// preDecoded holds singleton ids recovered by Subtract's early
	// capture rule (§4.3): positions where both operands were
	// individually pure but didn't cancel. Decode seeds its output
	// sets from this before peeling.
	preDecoded []preDecodedItem

	generation uint64
	destroyed  bool
}

type preDecodedItem struct {
	id  Id
	toA bool
}

// NewIbf allocates an Ibf with m cells per cfg. m must be >= cfg.K.
func NewIbf(cfg IbfConfig, m int64) (*Ibf, error) {
	return newIbf(cfg, m, false)
}

// NewReverseIbf allocates the reverse-orientation Ibf used by PairedIbf:
// indexed by hash(value), storing (id, hash(value)) sums instead of
// (id, id_hash(id)) sums.
func NewReverseIbf(cfg IbfConfig, m int64) (*Ibf, error) {
	return newIbf(cfg, m, true)
}

func newIbf(cfg IbfConfig, m int64, isReverse bool) (*Ibf, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m < int64(cfg.K) {
		return nil, fmt.Errorf("ibf: m (%d) must be >= k (%d)", m, cfg.K)
	}
	return &Ibf{
		cfg:       cfg,
		isReverse: isReverse,
		cells:     make([]Cell, m),
		capacity:  m,
	}, nil
}

// Capacity returns m as it stood at allocation time, before any
// Fold/Compress shrank the live cell array.
func (f *Ibf) Capacity() int64 { return f.capacity }

// M returns the current block size (number of cells).
func (f *Ibf) M() int64 { return int64(len(f.cells)) }

// K returns the number of hash functions (positions) per item.
func (f *Ibf) K() int { return f.cfg.K }

// IsReverse reports whether this is the reverse (value-keyed) Ibf used
// internally by a PairedIbf.
func (f *Ibf) IsReverse() bool { return f.isReverse }

// ItemCount returns the running estimate of cardinality: net Adds minus
// net Removes, not the decoded result of estimatedCount (which is only
// meaningful after a Subtract).
func (f *Ibf) ItemCount() int64 { return f.itemCount }

// IsSaturated reports whether any cell's counter sits at its
// representation bound — the observable side of the §7 CountSaturation
// soft error.
func (f *Ibf) IsSaturated() bool {
	for i := range f.cells {
		if f.cfg.CountKind.saturated(f.cells[i].Count) {
			return true
		}
	}
	return false
}

func (f *Ibf) checkAlive() error {
	if ibfDebug && f.destroyed {
		return ErrDestroyed
	}
	return nil
}

// positionsFor returns the k probe positions for a record under this
// Ibf's orientation, along with the HashSum contribution to store/undo
// at each.
//
// A key-IBF is indexed by id_hash(id): HashSum carries that same hash,
// so position and checksum are one and the same value, the classic
// EGH arrangement. It never looks at r.Value at all, which is exactly
// why it can't by itself tell a modified record from an unchanged one
// (see paired.go) — two records sharing an id always land on the same
// cells and cancel under Subtract regardless of their values.
//
// A reverse-IBF is indexed by hash(value) instead, with HashSum
// carrying that same value-hash. Two records that share an id but
// differ in value land on *different* cells here, so each can peel out
// on its own — that's what lets PairedIbf recognize modifications: the
// same id decoding out of both sides of a reverse-IBF's Subtract.
func (f *Ibf) positionsFor(r Record) (positions []int, hashContribution H) {
	id := remapID(r.Id)
	if !f.isReverse {
		idh := xhash.IDHash(f.cfg.Primary, uint64(id))
		positions = xhash.Positions(f.cfg.Secondary, idh, len(f.cells), f.cfg.K)
		return positions, H(idh)
	}
	vh := xhash.ValueHash(f.cfg.Primary, r.Value)
	positions = xhash.Positions(f.cfg.Secondary, vh, len(f.cells), f.cfg.K)
	return positions, H(vh)
}

// keyPositions returns the k probe positions derived from id_hash(id)
// alone — the same positions a key-IBF's own Add/Remove already use.
// RemoveKey is the only caller; it exists so a record can be retracted
// by id when its value isn't at hand.
func (f *Ibf) keyPositions(id Id) []int {
	idh := xhash.IDHash(f.cfg.Primary, uint64(remapID(id)))
	return xhash.Positions(f.cfg.Secondary, idh, len(f.cells), f.cfg.K)
}

// Add inserts a record into the filter.
func (f *Ibf) Add(r Record) error {
	if err := f.checkAlive(); err != nil {
		return err
	}
	positions, hc := f.positionsFor(r)
	id := remapID(r.Id)
	for _, p := range positions {
		f.cells[p].applyAt(f.cfg.CountKind, +1, id, hc)
	}
	f.itemCount++
	return nil
}

// Remove deletes a record from the filter. It does not verify the
// record was previously added; removing something that was never
// present drives the touched cells toward negative counts, same as the
// source's behavior.
func (f *Ibf) Remove(r Record) error {
	if err := f.checkAlive(); err != nil {
		return err
	}
	positions, hc := f.positionsFor(r)
	id := remapID(r.Id)
	for _, p := range positions {
		f.cells[p].applyAt(f.cfg.CountKind, -1, id, hc)
	}
	f.itemCount--
	return nil
}

// RemoveKey removes a record by id alone, deriving positions from
// id_hash(id). Valid only on a key-IBF — a reverse-IBF derives its
// positions and HashSum from hash(value), which can't be recovered
// without the value.
func (f *Ibf) RemoveKey(id Id) error {
	if err := f.checkAlive(); err != nil {
		return err
	}
	if f.isReverse {
		return fmt.Errorf("ibf: RemoveKey is only valid on a key-IBF")
	}
	positions := f.keyPositions(id)
	idh := xhash.IDHash(f.cfg.Primary, uint64(remapID(id)))
	for _, p := range positions {
		f.cells[p].applyAt(f.cfg.CountKind, -1, remapID(id), H(idh))
	}
	f.itemCount--
	return nil
}

// Contains probes the k cells a record would occupy. If any of them has
// a zero count the record is definitely absent; otherwise it probably
// is present, with the usual Bloom-filter-style false positive rate.
// This is also the membership probe the quasi-estimator (§4.10) uses.
func (f *Ibf) Contains(r Record) bool {
	positions, _ := f.positionsFor(r)
	for _, p := range positions {
		if f.cells[p].Count == 0 {
			return false
		}
	}
	return true
}

// isPureAt reports whether cells[p] is pure: it holds exactly one
// item's contribution and that contribution is self-consistent.
//
// For a key-IBF, HashSum *is* id_hash(IdSum) by construction (that's
// what positionsFor stores), so purity is the direct self-contained
// check invariant 3 states: HashSum must equal id_hash(IdSum).
//
// For a reverse-IBF, HashSum is hash(value), which has no relationship
// to IdSum — but HashSum *is* the quantity positions were derived from.
// So purity there is verified on "the reverse axis": recompute the k
// positions HashSum would produce and check p is among them.
func (f *Ibf) isPureAt(p int) bool {
	return isPureCell(f.cfg, f.isReverse, f.cells[p], p, len(f.cells))
}

func isPureCell(cfg IbfConfig, isReverse bool, cell Cell, position, m int) bool {
	if !cfg.CountKind.isPure(cell.Count) {
		return false
	}
	if !isReverse {
		idh := xhash.IDHash(cfg.Primary, uint64(cell.IdSum))
		return cell.HashSum == H(idh)
	}
	for _, p := range probePositions(cfg, cell.HashSum, m) {
		if p == position {
			return true
		}
	}
	return false
}

// probePositions recomputes the k cells a pure cell's own contribution
// must occupy, from whichever stored sum doubles as that orientation's
// position basis (HashSum — see positionsFor). The decoder (decode.go)
// uses this to cancel a peeled item out of all k cells it occupies.
func probePositions(cfg IbfConfig, hashSum H, m int) []int {
	return xhash.Positions(cfg.Secondary, uint32(hashSum), m, cfg.K)
}

// Fold reduces the block size by factor, XOR/sum-reducing the factor
// stripes that map to each new cell. factor must divide M() exactly.
func (f *Ibf) Fold(factor int64) (*Ibf, error) {
	if err := f.checkAlive(); err != nil {
		return nil, err
	}
	if factor <= 0 || int64(len(f.cells))%factor != 0 {
		return nil, invalidFoldFactorf("fold factor %d does not divide m=%d", factor, len(f.cells))
	}
	if factor == 1 {
		return f.clone(), nil
	}
	out := &Ibf{
		cfg:       f.cfg,
		isReverse: f.isReverse,
		cells:     foldCells(f.cfg.CountKind, f.cells, int(factor)),
		itemCount: f.itemCount,
		capacity:  f.capacity,
	}
	return out, nil
}

// Compress asks the configured FoldingStrategy for a divisor and folds
// if one is returned; otherwise it returns an equivalent copy unchanged.
func (f *Ibf) Compress() (*Ibf, error) {
	if err := f.checkAlive(); err != nil {
		return nil, err
	}
	m := int64(len(f.cells))
	divisor := f.cfg.Folding.ChooseDivisor(m, m, f.itemCount)
	if divisor <= 1 {
		return f.clone(), nil
	}
	return f.Fold(divisor)
}

func (f *Ibf) clone() *Ibf {
	cells := make([]Cell, len(f.cells))
	copy(cells, f.cells)
	return &Ibf{cfg: f.cfg, isReverse: f.isReverse, cells: cells, itemCount: f.itemCount, capacity: f.capacity}
}

// Subtract computes the cell-wise difference f - other (invariant 4),
// folding whichever operand has the larger block size down to their
// common size first (gcd of the two sizes — always reachable, since
// both m's divide it... rather both are divisible by it). Positions
// where both pre-subtraction cells were independently pure but didn't
// cancel are captured immediately (§4.3's early-capture rule) instead
// of being left for the decoder.
//
// If destructive is true and no fold was required for f, f's own cell
// array is reused for the result and f must not be read afterward (see
// ibfdebug_on.go for the debug-build misuse check); otherwise a fresh
// result is always allocated.
func (f *Ibf) Subtract(other *Ibf, destructive bool) (*Ibf, error) {
	if err := f.checkAlive(); err != nil {
		return nil, err
	}
	if err := other.checkAlive(); err != nil {
		return nil, err
	}
	if !f.cfg.compatibleWith(other.cfg) || f.isReverse != other.isReverse {
		return nil, incompatibleSketchesf("k=%d/%d isReverse=%v/%v seed=%#x/%#x",
			f.cfg.K, other.cfg.K, f.isReverse, other.isReverse, f.cfg.HashSeed, other.cfg.HashSeed)
	}
	mA, mB := int64(len(f.cells)), int64(len(other.cells))
	common := gcd(mA, mB)
	if common == 0 {
		return nil, incompatibleSketchesf("no common fold size for m=%d, m=%d", mA, mB)
	}

	foldedA := f.cells
	reusedA := destructive
	if mA != common {
		foldedA = foldCells(f.cfg.CountKind, f.cells, int(mA/common))
		reusedA = false
	}
	foldedB := other.cells
	if mB != common {
		foldedB = foldCells(other.cfg.CountKind, other.cells, int(mB/common))
	}

	var result []Cell
	if !reusedA {
		result = make([]Cell, common)
	} else {
		result = foldedA // destructive reuse of f's own backing array
	}

	var preDecoded []preDecodedItem
	kind := f.cfg.CountKind
	for i := int64(0); i < common; i++ {
		a, b := foldedA[i], foldedB[i]
		if isPureCell(f.cfg, f.isReverse, a, int(i), int(common)) &&
			isPureCell(other.cfg, other.isReverse, b, int(i), int(common)) &&
			(a.IdSum^b.IdSum != 0 || a.HashSum^b.HashSum != 0) {
			if a.Count > 0 {
				preDecoded = append(preDecoded, preDecodedItem{id: a.IdSum, toA: true})
			} else {
				preDecoded = append(preDecoded, preDecodedItem{id: a.IdSum, toA: false})
			}
			if b.Count > 0 {
				preDecoded = append(preDecoded, preDecodedItem{id: b.IdSum, toA: false})
			} else {
				preDecoded = append(preDecoded, preDecodedItem{id: b.IdSum, toA: true})
			}
			result[i] = Cell{}
			continue
		}
		result[i] = combineSubtract(kind, a, b)
	}

	if destructive && reusedA {
		f.destroyed = true
		f.generation++
	}

	return &Ibf{
		cfg:        f.cfg,
		isReverse:  f.isReverse,
		cells:      result,
		itemCount:  f.itemCount - other.itemCount,
		preDecoded: preDecoded,
		capacity:   f.capacity,
	}, nil
}

// AddSketch combines f and other cell-wise: counts add, sums XOR, item
// counts sum. Like Subtract, whichever operand has the larger block
// size is folded down to the other's (gcd-common) size first.
func (f *Ibf) AddSketch(other *Ibf, inPlace bool) (*Ibf, error) {
	if err := f.checkAlive(); err != nil {
		return nil, err
	}
	if err := other.checkAlive(); err != nil {
		return nil, err
	}
	if !f.cfg.compatibleWith(other.cfg) || f.isReverse != other.isReverse {
		return nil, incompatibleSketchesf("k=%d/%d isReverse=%v/%v seed=%#x/%#x",
			f.cfg.K, other.cfg.K, f.isReverse, other.isReverse, f.cfg.HashSeed, other.cfg.HashSeed)
	}
	mA, mB := int64(len(f.cells)), int64(len(other.cells))
	common := gcd(mA, mB)
	if common == 0 {
		return nil, incompatibleSketchesf("no common fold size for m=%d, m=%d", mA, mB)
	}

	foldedA := f.cells
	reusedA := inPlace
	if mA != common {
		foldedA = foldCells(f.cfg.CountKind, f.cells, int(mA/common))
		reusedA = false
	}
	foldedB := other.cells
	if mB != common {
		foldedB = foldCells(other.cfg.CountKind, other.cells, int(mB/common))
	}

	var result []Cell
	if reusedA {
		result = foldedA
	} else {
		result = make([]Cell, common)
	}
	kind := f.cfg.CountKind
	for i := int64(0); i < common; i++ {
		result[i] = combineAdd(kind, foldedA[i], foldedB[i])
	}

	out := &Ibf{
		cfg:       f.cfg,
		isReverse: f.isReverse,
		cells:     result,
		itemCount: f.itemCount + other.itemCount,
		capacity:  f.capacity,
	}
	if inPlace {
		f.cells = result
		f.itemCount = out.itemCount
		return f, nil
	}
	return out, nil
}

// String renders a human-readable summary, in the spirit of the
// teacher's Metrics.String() and sketch.go's string() debug helpers.
func (f *Ibf) String() string {
	size := uintptr(len(f.cells)) * unsafe.Sizeof(Cell{})
	return fmt.Sprintf("Ibf{m=%s cells (%s), k=%d, reverse=%v, items~=%s}",
		humanize.Comma(int64(len(f.cells))), humanize.Bytes(uint64(size)),
		f.cfg.K, f.isReverse, humanize.Comma(f.itemCount))
}
