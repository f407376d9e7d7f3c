// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the rank/dimensions/DType triple of a tensor, and the normalization of a shape
// into the canonical (prefix, axis, suffix) form used to plan tilings.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a tensor.
//   - Axis: the index of a dimension. We try to refer to a dimension index as "axis" (plural axes), and its
//     size as its dimension.
//   - DType: the data type of the unit element in a tensor. Enumeration defined in github.com/gomlx/gopjrt/dtypes.
//   - Empty: a shape with at least one dimension equal to 0. Empty shapes are valid, and planners short-circuit
//     them.
//
// Example: `shapes.Make(dtypes.Float32, 2, 3)` has rank 2, axis 0 has dimension 2 and axis 1 has dimension 3.
package shapes

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/optiling/types/planerrors"
)

// MaxRank is the maximum rank accepted by any operator family.
const MaxRank = 8

// Shape of a tensor: its DType and its dimensions. A scalar has no dimensions.
//
// Use Make to create a new shape.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// Make returns a Shape structure filled with the values given.
// It panics if any dimension is negative: dimensions of 0 are valid and describe an empty tensor.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	for _, dim := range dimensions {
		if dim < 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with an axis with dimension < 0", s)
		}
	}
	return s
}

// Validate returns an ErrShape error if the shape has an invalid DType, a DType without a fixed element size,
// or a negative dimension.
func (s Shape) Validate() error {
	if s.DType == dtypes.InvalidDType {
		return planerrors.Shapef("shape %s has an invalid dtype", s)
	}
	if s.DType.Size() <= 0 {
		return planerrors.Shapef("shape %s: dtype %s has no fixed element size", s, s.DType)
	}
	for axis, dim := range s.Dimensions {
		if dim < 0 {
			return planerrors.Shapef("shape %s has negative dimension %d at axis %d", s, dim, axis)
		}
	}
	return nil
}

// Ok returns whether this is a valid Shape. A "zero" shape, that is just instantiating it with Shape{}, is invalid.
func (s Shape) Ok() bool { return s.Validate() == nil }

// Rank of the shape, that is, the number of dimensions.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape represents a scalar, that is there are no dimensions (rank==0).
func (s Shape) IsScalar() bool { return s.Rank() == 0 }

// IsEmpty returns whether any of the dimensions is 0, in which case the tensor holds no elements.
func (s Shape) IsEmpty() bool { return slices.Contains(s.Dimensions, 0) }

// Dim returns the dimension of the given axis. axis can take negative numbers, in which
// case it counts as starting from the end -- so axis=-1 refers to the last axis.
// Like with a slice indexing, it panics for an out-of-bound axis.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s)
	}
	return s.Dimensions[adjustedAxis]
}

// String implements stringer, pretty-prints the shape.
func (s Shape) String() string {
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}

// Size returns the number of elements of DType needed for this shape. It's the product of all dimensions.
func (s Shape) Size() (size int64) {
	size = 1
	for _, d := range s.Dimensions {
		size *= int64(d)
	}
	return
}

// ElemBytes returns the size in bytes of one element of the shape's DType.
func (s Shape) ElemBytes() int64 {
	return int64(s.DType.Size())
}

// Memory returns the number of bytes used to store a tensor of the given shape.
func (s Shape) Memory() int64 {
	return s.ElemBytes() * s.Size()
}

// Equal compares two shapes for equality: dtype and dimensions are compared.
func (s Shape) Equal(s2 Shape) bool {
	return s.DType == s2.DType && slices.Equal(s.Dimensions, s2.Dimensions)
}

// EqualDimensions compares two shapes for equality of dimensions. DTypes can be different.
func (s Shape) EqualDimensions(s2 Shape) bool {
	return slices.Equal(s.Dimensions, s2.Dimensions)
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Dimensions = slices.Clone(s.Dimensions)
	return
}

// SuffixProducts returns, for each axis, the product of the dimensions from that axis to the last one.
// It's the "step" (in elements) of one unit of the previous axis.
//
// Example: (7, 6, 5, 4) -> (840, 120, 20, 4).
func (s Shape) SuffixProducts() []int64 {
	prods := make([]int64, s.Rank())
	prod := int64(1)
	for axis := s.Rank() - 1; axis >= 0; axis-- {
		prod *= int64(s.Dimensions[axis])
		prods[axis] = prod
	}
	return prods
}
