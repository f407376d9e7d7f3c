// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package stridedslice

import (
	"fmt"
	"slices"

	"github.com/gomlx/optiling/shapeinference"
)

// Layout is the description of a strided slice the tiling is computed on: one entry per axis, after contiguous
// axes have been fused together.
//
// End is exclusive. For negative strides Begin is the first (highest) index read, and End can be -1.
type Layout struct {
	Input, Output        []int64
	Begin, End, Strides []int64
}

// Rank of the fused slice.
func (l Layout) Rank() int { return len(l.Output) }

// String implements fmt.Stringer.
func (l Layout) String() string {
	return fmt.Sprintf("{input=%v, output=%v, begin=%v, end=%v, strides=%v}", l.Input, l.Output, l.Begin, l.End,
		l.Strides)
}

func (l *Layout) append(in, out, begin, end, stride int64) {
	l.Input = append(l.Input, in)
	l.Output = append(l.Output, out)
	l.Begin = append(l.Begin, begin)
	l.End = append(l.End, end)
	l.Strides = append(l.Strides, stride)
}

func (l Layout) last() int { return len(l.Output) - 1 }

// newLayout converts the normalized slice axes to a Layout, without fusing anything. A scalar is sliced as a
// tensor of shape [1].
func newLayout(input, output []int, axes shapeinference.SliceAxes) Layout {
	if len(input) == 0 {
		return Layout{Input: []int64{1}, Output: []int64{1}, Begin: []int64{0}, End: []int64{1}, Strides: []int64{1}}
	}
	var l Layout
	for axis := range input {
		l.append(int64(input[axis]), int64(output[axis]), int64(axes.Begin[axis]), int64(axes.End[axis]),
			int64(axes.Strides[axis]))
	}
	return l
}

// hasNegativeStride returns whether any axis is read backwards.
func (l Layout) hasNegativeStride() bool {
	return slices.ContainsFunc(l.Strides, func(s int64) bool { return s < 0 })
}

// FuseAxes returns the equivalent slice with the fewest axes:
//
//   - A last axis read with stride s over a dimension multiple of s, starting within the first s elements, is
//     reshaped into [dim/s, s] read with stride 1 over the first axis.
//   - Strides larger than the sliced range are reduced to the range.
//   - An axis taken entirely with stride 1 is fused into the previous axis if it also has stride 1.
//   - With negative strides, an axis taken entirely with stride -1 is fused into the previous axis if it also has
//     stride -1, and axes of dimension 1 (other than the first) are dropped.
//   - Negative strides on axes with a single output element become 1.
func FuseAxes(l Layout) Layout {
	if l.Rank() == 0 {
		return l
	}
	negative := l.hasNegativeStride()
	if !negative {
		l = splitLastStride(l)
	}
	var fused Layout
	for axis := range l.Input {
		in, out, begin, end, stride := l.Input[axis], l.Output[axis], l.Begin[axis], l.End[axis], l.Strides[axis]
		if end > begin {
			stride = min(stride, end-begin)
		}
		if axis == 0 || in != out || stride != 1 || fused.Strides[fused.last()] != 1 {
			fused.append(in, out, begin, end, stride)
			continue
		}
		prev := fused.last()
		fused.Input[prev] *= in
		fused.Output[prev] *= out
		fused.Begin[prev] *= in
		fused.End[prev] *= in
		fused.Strides[prev] = 1
	}
	if negative {
		fused = fuseReversed(fused)
	}
	return fused
}

// splitLastStride reshapes a strided last axis into [dim/stride, stride], when the slice picks exactly one element
// of each group of stride elements.
func splitLastStride(l Layout) Layout {
	last := l.last()
	in, begin, stride, out := l.Input[last], l.Begin[last], l.Strides[last], l.Output[last]
	if stride <= 1 || in%stride != 0 || begin/stride != 0 || out != in/stride {
		return l
	}
	l = Layout{
		Input:   slices.Clone(l.Input),
		Output:  slices.Clone(l.Output),
		Begin:   slices.Clone(l.Begin),
		End:     slices.Clone(l.End),
		Strides: slices.Clone(l.Strides),
	}
	l.Input[last] = in / stride
	l.Begin[last] = 0
	l.Strides[last] = 1
	l.End[last] = out
	l.append(stride, 1, begin%stride, begin%stride+1, 1)
	return l
}

// fuseReversed fuses consecutive axes read entirely backwards.
func fuseReversed(l Layout) Layout {
	var fused Layout
	for axis := range l.Input {
		in, out, begin, end := l.Input[axis], l.Output[axis], l.Begin[axis], l.End[axis]
		stride := l.Strides[axis]
		if end > begin {
			stride = min(stride, end-begin)
		} else {
			stride = max(stride, end-begin)
		}
		if axis != 0 && in == 1 && out == 1 {
			continue
		}
		if axis == 0 || in != out || stride != -1 || fused.Strides[fused.last()] != -1 {
			fused.append(in, out, begin, end, stride)
			continue
		}
		prev := fused.last()
		fused.Input[prev] *= in
		fused.Output[prev] *= out
		fused.Begin[prev] = fused.Begin[prev]*in + in - 1
		fused.End[prev] = fused.End[prev]*in + in - 1
		fused.Strides[prev] = -1
	}
	for axis := range fused.Output {
		if fused.Output[axis] == 1 && fused.Strides[axis] < 0 {
			fused.Strides[axis] = 1
			fused.End[axis] = fused.Begin[axis] + 1
		}
	}
	return fused
}

// firstRead returns the lowest input index read on the axis.
func (l Layout) firstRead(axis int) int64 {
	if l.Strides[axis] > 0 {
		return l.Begin[axis]
	}
	return l.Begin[axis] + (l.Output[axis]-1)*l.Strides[axis]
}

// lastRead returns the highest input index read on the axis.
func (l Layout) lastRead(axis int) int64 {
	if l.Strides[axis] < 0 {
		return l.Begin[axis]
	}
	return l.Begin[axis] + (l.Output[axis]-1)*l.Strides[axis]
}

// lastSpan is the number of input elements spanned by one row of the last axis.
func (l Layout) lastSpan() int64 {
	last := l.last()
	return (l.Output[last]-1)*abs(l.Strides[last]) + 1
}

// ValidInCacheLine counts how many of the elements of the first cache line read from the input are part of the
// output: a measure of how well a cache-line granular transfer is used.
func (l Layout) ValidInCacheLine(elemBytes, cacheLineBytes int64) int64 {
	lineElems := max(cacheLineBytes/elemBytes, 1)
	last := l.last()
	lastStride := abs(l.Strides[last])
	if l.Input[last] >= lineElems {
		checked := min(l.lastSpan(), lineElems)
		return (checked + lastStride - 1) / lastStride
	}

	// Rows are shorter than a cache line: walk the input elements of the first line read.
	var startOffset, inputSize int64 = 0, 1
	for axis := last; axis >= 0; axis-- {
		startOffset += l.firstRead(axis) * inputSize
		inputSize *= l.Input[axis]
	}
	endOffset := min(inputSize, startOffset+lineElems)
	valid := int64(1)
	for offset := startOffset + 1; offset < endOffset; offset++ {
		if l.isRead(offset) {
			valid++
		}
	}
	return valid
}

// isRead returns whether the element at the given flat input offset is part of the output.
func (l Layout) isRead(offset int64) bool {
	for axis := l.last(); axis >= 0; axis-- {
		pos := offset % l.Input[axis]
		offset /= l.Input[axis]
		first := l.firstRead(axis)
		if pos < first || pos > l.lastRead(axis) || (pos-first)%abs(l.Strides[axis]) != 0 {
			return false
		}
	}
	return true
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func product(dims []int64) int64 {
	p := int64(1)
	for _, dim := range dims {
		p *= dim
	}
	return p
}
