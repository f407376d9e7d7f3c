// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"fmt"

	"github.com/gomlx/optiling/types/planerrors"
)

// SplitLast can be used as the split axis of Normalize to refer to the last axis, whatever the rank.
const SplitLast = -1

// Normalized is the canonical 3-part view of a shape around a split axis: every axis before the split axis is
// collapsed into Prefix, the split axis itself is AxisExtent and every axis after it is collapsed into Suffix.
//
// Prefix * AxisExtent * Suffix == Shape.Size().
type Normalized struct {
	Prefix, AxisExtent, Suffix int64
}

// Size is the total number of elements described.
func (n Normalized) Size() int64 { return n.Prefix * n.AxisExtent * n.Suffix }

// IsEmpty returns whether the normalized shape holds no elements.
func (n Normalized) IsEmpty() bool { return n.Size() == 0 }

// String implements fmt.Stringer.
func (n Normalized) String() string {
	return fmt.Sprintf("[prefix=%d, axis=%d, suffix=%d]", n.Prefix, n.AxisExtent, n.Suffix)
}

// Normalize collapses the shape around splitAxis.
//
// splitAxis must be in the range [-1, rank]: SplitLast (-1) refers to the last axis, and splitAxis == rank means
// "collapse everything", in which case AxisExtent and Suffix are 1. A scalar normalizes to (1, 1, 1).
//
// It returns ErrDimensionLimit if the rank is larger than MaxRank and ErrShape for an invalid shape or an
// out-of-range axis.
func Normalize(shape Shape, splitAxis int) (Normalized, error) {
	return NormalizeTransformed(shape, shape, splitAxis)
}

// NormalizeTransformed is like Normalize, but for operators that change the dimension of the split axis (e.g.:
// slicing, padding or one-hot): AxisExtent is taken from the output shape, while Prefix and Suffix are taken from
// the input shape.
//
// The input and output must have the same rank.
func NormalizeTransformed(input, output Shape, splitAxis int) (n Normalized, err error) {
	if err = input.Validate(); err != nil {
		return
	}
	if err = output.Validate(); err != nil {
		return
	}
	rank := input.Rank()
	if rank > MaxRank {
		err = planerrors.DimensionLimitf("shape %s has rank %d, the maximum supported is %d", input, rank, MaxRank)
		return
	}
	if output.Rank() != rank {
		err = planerrors.Shapef("input shape %s and output shape %s have different ranks", input, output)
		return
	}
	axis, err := resolveSplitAxis(splitAxis, rank)
	if err != nil {
		return
	}
	n = Normalized{Prefix: 1, AxisExtent: 1, Suffix: 1}
	for ii := 0; ii < axis; ii++ {
		n.Prefix *= int64(input.Dimensions[ii])
	}
	if axis < rank {
		n.AxisExtent = int64(output.Dimensions[axis])
		for ii := axis + 1; ii < rank; ii++ {
			n.Suffix *= int64(input.Dimensions[ii])
		}
	}
	return
}

// resolveSplitAxis converts SplitLast to the last axis index and validates the range [0, rank].
func resolveSplitAxis(splitAxis, rank int) (int, error) {
	if splitAxis == SplitLast {
		if rank == 0 {
			// A scalar has no last axis: it collapses entirely.
			return 0, nil
		}
		return rank - 1, nil
	}
	if splitAxis < 0 || splitAxis > rank {
		return 0, planerrors.Shapef("split axis %d out of range [-1, %d]", splitAxis, rank)
	}
	return splitAxis, nil
}
