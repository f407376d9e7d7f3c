// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapeinference calculates the shape resulting from operations and validates its inputs.
//
// The planners use it to derive the output shapes they tile, so every validation error here carries the
// planerrors.ErrShape kind.
package shapeinference

import (
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/gomlx/optiling/types/shapes"
)

// SliceAxes are the normalized parameters of a strided slice, one entry per axis of the operand.
//
// Begin is the first index read. End is exclusive, and can be -1 for negative strides (reading down to index 0).
// Strides are never 0.
type SliceAxes struct {
	Begin, End, Strides []int
}

// StridedSliceOp calculates the output shape of a strided slice, with Python-like semantics for negative indices,
// out-of-bound clamping and negative strides.
//
// begins, ends and strides can be shorter than the operand rank, in which case the remaining axes are taken
// entirely. If strides is nil, all strides are 1. Bit i of beginMask (endMask) set means begins[i] (ends[i]) is
// ignored, and the slice starts (ends) at the extremity of the axis, according to the sign of the stride.
func StridedSliceOp(operand shapes.Shape, begins, ends, strides []int, beginMask, endMask int) (
	output shapes.Shape, axes SliceAxes, err error) {
	opName := "StridedSliceOp"
	if err = operand.Validate(); err != nil {
		return
	}
	rank := operand.Rank()
	if len(begins) > rank || len(ends) > rank || len(strides) > rank {
		err = planerrors.Shapef("%s: len(begins)=%d, len(ends)=%d, len(strides)=%d, but operand rank is %d",
			opName, len(begins), len(ends), len(strides), rank)
		return
	}
	if strides != nil && len(strides) != len(begins) {
		err = planerrors.Shapef("%s: len(strides)=%d must match len(begins)=%d", opName, len(strides), len(begins))
		return
	}
	if len(ends) != len(begins) {
		err = planerrors.Shapef("%s: len(ends)=%d must match len(begins)=%d", opName, len(ends), len(begins))
		return
	}

	output = shapes.Shape{DType: operand.DType, Dimensions: make([]int, rank)}
	axes = SliceAxes{Begin: make([]int, rank), End: make([]int, rank), Strides: make([]int, rank)}
	for axis := range rank {
		dim := operand.Dimensions[axis]
		stride := 1
		if axis < len(strides) {
			stride = strides[axis]
		}
		if stride == 0 {
			err = planerrors.Shapef("%s: stride for axis %d is 0 (operand shape %s)", opName, axis, operand)
			return
		}
		begin, end := defaultBounds(dim, stride)
		if axis < len(begins) {
			if beginMask&(1<<axis) == 0 {
				begin = clampIndex(begins[axis], dim, stride)
			}
			if endMask&(1<<axis) == 0 {
				end = clampIndex(ends[axis], dim, stride)
			}
		}
		var size int
		if stride > 0 {
			size = max(0, (end-begin+stride-1)/stride)
		} else {
			size = max(0, (begin-end-stride-1)/(-stride))
		}
		output.Dimensions[axis] = size
		axes.Begin[axis], axes.End[axis], axes.Strides[axis] = begin, end, stride
	}
	return
}

// defaultBounds returns the begin and end that take the whole axis in the direction of the stride.
func defaultBounds(dim, stride int) (begin, end int) {
	if stride > 0 {
		return 0, dim
	}
	return dim - 1, -1
}

// clampIndex converts negative indices to positive ones and clamps them to the valid range given the direction
// of the stride: [0, dim] for positive strides and [-1, dim-1] for negative strides.
func clampIndex(index, dim, stride int) int {
	if index < 0 {
		index += dim
	}
	if stride > 0 {
		return min(max(index, 0), dim)
	}
	return min(max(index, -1), dim-1)
}

// MirrorPadOp calculates the output shape of a mirror padding of the operand along the given axis, with left
// and right padding.
//
// With includeEdge false (reflection) the edge element is not repeated, so the padding must be smaller than the
// axis dimension. With includeEdge true (symmetric) the edge is repeated, and the padding can be as large as the
// axis dimension.
func MirrorPadOp(operand shapes.Shape, axis, left, right int, includeEdge bool) (output shapes.Shape, err error) {
	opName := "MirrorPadOp"
	if err = operand.Validate(); err != nil {
		return
	}
	if operand.IsScalar() {
		err = planerrors.Shapef("%s: cannot pad a scalar", opName)
		return
	}
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += operand.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= operand.Rank() {
		err = planerrors.Shapef("%s: axis %d out of range for operand %s", opName, axis, operand)
		return
	}
	if left < 0 || right < 0 {
		err = planerrors.Shapef("%s: negative padding (%d, %d)", opName, left, right)
		return
	}
	dim := operand.Dimensions[adjustedAxis]
	limit := dim - 1
	if includeEdge {
		limit = dim
	}
	if left > limit || right > limit {
		err = planerrors.Shapef("%s: padding (%d, %d) larger than %d for axis %d of operand %s (includeEdge=%v)",
			opName, left, right, limit, axis, operand, includeEdge)
		return
	}
	output = operand.Clone()
	output.Dimensions[adjustedAxis] = dim + left + right
	return
}

// OneHotOp calculates the output shape of a one-hot encoding of the integer indices: a new axis of dimension
// depth is inserted at the given axis (-1 means appended as the last axis).
func OneHotOp(indices shapes.Shape, depth, axis int, outputDType dtypes.DType) (output shapes.Shape, err error) {
	opName := "OneHotOp"
	if err = indices.Validate(); err != nil {
		return
	}
	if !indices.DType.IsInt() {
		err = planerrors.Shapef("%s: indices must be integers, got %s", opName, indices)
		return
	}
	if outputDType == dtypes.InvalidDType {
		err = planerrors.Shapef("%s: invalid output dtype", opName)
		return
	}
	if depth < 0 {
		err = planerrors.Shapef("%s: negative depth %d", opName, depth)
		return
	}
	rank := indices.Rank()
	if axis == -1 {
		axis = rank
	}
	if axis < 0 || axis > rank {
		err = planerrors.Shapef("%s: axis %d out of range [-1, %d]", opName, axis, rank)
		return
	}
	output = shapes.Shape{DType: outputDType, Dimensions: slices.Insert(slices.Clone(indices.Dimensions), axis, depth)}
	return
}

// LinSpaceOp calculates the output shape of a lin-space of num values.
func LinSpaceOp(num int, outputDType dtypes.DType) (output shapes.Shape, err error) {
	if num < 0 {
		err = planerrors.Shapef("LinSpaceOp: negative number of values %d", num)
		return
	}
	if outputDType == dtypes.InvalidDType {
		err = planerrors.Shapef("LinSpaceOp: invalid output dtype")
		return
	}
	return shapes.Make(outputDType, num), nil
}
