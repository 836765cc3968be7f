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
	"encoding/binary"
	"io"
)

// Wire layout (§6): k (u32), isReverse (u8), m (u64), capacity (u64),
// itemCount (i64), count_width_tag (u8), then three parallel
// little-endian arrays of length m — counts, idSums, hashSums — with no
// length prefixes of their own, since m already governs their length.
//
// The hash functions and fold seed an Ibf needs to operate again live
// in IbfConfig, not on the wire: ReadIbf takes the caller's cfg and
// only cross-checks k against it, the same way a cache's RESP codec
// trusts its caller to already hold the matching key space rather than
// re-deriving it from the wire. count_width_tag overrides cfg.CountKind
// on the reconstructed Ibf, since a sketch may have been resized to a
// wider representation (§4.9) after cfg was first chosen.
//
// preDecoded is never written: it only holds transient early-capture
// state from an in-memory Subtract and has nothing to contribute to a
// sketch serialized for transport or storage.

// WriteTo writes f in the §6 wire layout. It implements io.WriterTo.
func (f *Ibf) WriteTo(w io.Writer) (int64, error) {
	var written int64
	write := func(v interface{}) error {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
		written += int64(binary.Size(v))
		return nil
	}

	if err := write(uint32(f.cfg.K)); err != nil {
		return written, err
	}
	isReverse := uint8(0)
	if f.isReverse {
		isReverse = 1
	}
	if err := write(isReverse); err != nil {
		return written, err
	}
	if err := write(uint64(len(f.cells))); err != nil {
		return written, err
	}
	if err := write(uint64(f.capacity)); err != nil {
		return written, err
	}
	if err := write(f.itemCount); err != nil {
		return written, err
	}
	if err := write(uint8(f.cfg.CountKind)); err != nil {
		return written, err
	}

	for i := range f.cells {
		if err := write(int32(f.cells[i].Count)); err != nil {
			return written, err
		}
	}
	for i := range f.cells {
		if err := write(uint64(f.cells[i].IdSum)); err != nil {
			return written, err
		}
	}
	for i := range f.cells {
		if err := write(uint32(f.cells[i].HashSum)); err != nil {
			return written, err
		}
	}
	return written, nil
}

// ReadIbf reconstructs an Ibf from the §6 wire layout, using cfg for
// the hash functions and fold strategy a bare wire stream can't carry.
// cfg.K is cross-checked against the stream's k; a mismatch is
// ErrMalformedWire rather than silently trusting whichever value wins.
func ReadIbf(r io.Reader, cfg IbfConfig) (*Ibf, error) {
	cfg = cfg.WithDefaults()

	var k uint32
	if err := binary.Read(r, binary.LittleEndian, &k); err != nil {
		return nil, err
	}
	if int(k) != cfg.K {
		return nil, malformedWiref("stream k=%d does not match cfg.K=%d", k, cfg.K)
	}

	var isReverseByte uint8
	if err := binary.Read(r, binary.LittleEndian, &isReverseByte); err != nil {
		return nil, err
	}

	var m uint64
	if err := binary.Read(r, binary.LittleEndian, &m); err != nil {
		return nil, err
	}
	if m < uint64(cfg.K) {
		return nil, malformedWiref("stream m=%d is smaller than k=%d", m, cfg.K)
	}

	var capacity uint64
	if err := binary.Read(r, binary.LittleEndian, &capacity); err != nil {
		return nil, err
	}

	var itemCount int64
	if err := binary.Read(r, binary.LittleEndian, &itemCount); err != nil {
		return nil, err
	}

	var countWidthTag uint8
	if err := binary.Read(r, binary.LittleEndian, &countWidthTag); err != nil {
		return nil, err
	}
	cfg.CountKind = CountKind(countWidthTag)

	cells := make([]Cell, m)
	for i := range cells {
		var c int32
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return nil, err
		}
		cells[i].Count = Count(c)
	}
	for i := range cells {
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
		cells[i].IdSum = Id(v)
	}
	for i := range cells {
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
		cells[i].HashSum = H(v)
	}

	return &Ibf{
		cfg:       cfg,
		isReverse: isReverseByte != 0,
		cells:     cells,
		itemCount: itemCount,
		capacity:  int64(capacity),
	}, nil
}

// WriteTo writes p as Primary's layout immediately followed by a
// present byte (always 1 — a PairedIbf always carries its Reverse) and
// Reverse's layout, matching §6's "optional sub-sketch prefixed with
// present (u8)".
func (p *PairedIbf) WriteTo(w io.Writer) (int64, error) {
	n1, err := p.Primary.WriteTo(w)
	if err != nil {
		return n1, err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(1)); err != nil {
		return n1 + 1, err
	}
	n2, err := p.Reverse.WriteTo(w)
	return n1 + 1 + n2, err
}

// ReadPairedIbf reconstructs a PairedIbf, requiring the present byte
// after Primary to be 1 — a stream with present == 0 describes a lone
// Ibf, not a PairedIbf, and is ErrMalformedWire here.
func ReadPairedIbf(r io.Reader, cfg IbfConfig) (*PairedIbf, error) {
	primary, err := ReadIbf(r, cfg)
	if err != nil {
		return nil, err
	}
	var present uint8
	if err := binary.Read(r, binary.LittleEndian, &present); err != nil {
		return nil, err
	}
	if present != 1 {
		return nil, malformedWiref("expected a present sub-sketch byte of 1, got %d", present)
	}
	reverse, err := ReadIbf(r, cfg)
	if err != nil {
		return nil, err
	}
	return &PairedIbf{Primary: primary, Reverse: reverse}, nil
}
