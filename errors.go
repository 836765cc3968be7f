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

import "github.com/pkg/errors"

// Sentinel errors for the structural failure modes of §7. DecodeFailure
// is deliberately not one of these: a failed decode is an ordinary,
// expected outcome (see DecodeOutcome) rather than a programmer error.
var (
	// ErrIncompatibleSketches is returned by Subtract and AddSketch when
	// the two operands cannot be aligned: different k, different
	// isReverse, or no common fold factor between their block sizes.
	ErrIncompatibleSketches = errors.New("ibf: incompatible sketches")

	// ErrInvalidFoldFactor is returned by Fold when factor <= 0 or
	// factor does not divide m.
	ErrInvalidFoldFactor = errors.New("ibf: invalid fold factor")

	// ErrDestroyed is returned when a debug build (see ibfdebug_on.go)
	// detects a read of an IBF that was consumed by a destructive
	// Subtract or by Decode. In release builds this condition is
	// undefined per §7 and is not checked.
	ErrDestroyed = errors.New("ibf: use of sketch invalidated by destructive operation")

	// ErrMalformedWire is returned by the wire.go readers when a stream
	// doesn't describe a usable sketch: a k mismatch against the caller's
	// config, an m too small for that k, or an unrecognized sub-sketch
	// presence flag. It is a structural error, same bucket as
	// ErrIncompatibleSketches.
	ErrMalformedWire = errors.New("ibf: malformed wire data")
)

// incompatibleSketchesf wraps ErrIncompatibleSketches with a reason,
// preserving errors.Is / errors.Cause compatibility with the sentinel.
func incompatibleSketchesf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIncompatibleSketches, format, args...)
}

func invalidFoldFactorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidFoldFactor, format, args...)
}

func malformedWiref(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedWire, format, args...)
}
