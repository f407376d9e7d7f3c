// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

import (
	"github.com/gomlx/optiling/types/planerrors"
	"golang.org/x/exp/constraints"
)

// CeilDiv returns ceil(a/b) for non-negative a and positive b. It returns 0 if b <= 0.
func CeilDiv[T constraints.Integer](a, b T) T {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// AlignUp rounds value up to the next multiple of align. If align <= 0 the value is returned unchanged.
func AlignUp[T constraints.Integer](value, align T) T {
	if align <= 0 {
		return value
	}
	return CeilDiv(value, align) * align
}

// AlignDown rounds value down to a multiple of align. If align <= 0 the value is returned unchanged.
func AlignDown[T constraints.Integer](value, align T) T {
	if align <= 0 {
		return value
	}
	return value / align * align
}

// BlockElementCount returns how many elements of elemBytes fit one transfer block, at least 1.
func BlockElementCount(elemBytes, blockBytes int64) (int64, error) {
	if elemBytes <= 0 {
		return 0, planerrors.DivisionByZerof("element size is %d bytes", elemBytes)
	}
	return max(blockBytes/elemBytes, 1), nil
}

// MinUsefulPartition is the smallest per-lane element count that still fills one transfer block:
// ceil(blockBytes/elemBytes).
func MinUsefulPartition(elemBytes, blockBytes int64) (int64, error) {
	if elemBytes <= 0 {
		return 0, planerrors.DivisionByZerof("element size is %d bytes", elemBytes)
	}
	return max(CeilDiv(blockBytes, elemBytes), 1), nil
}
