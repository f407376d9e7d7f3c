// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package stridedslice

import (
	"github.com/gomlx/optiling/tiling"
)

// Facts about a fused strided slice that select its kernel family.
type Facts struct {
	ElemBytes      int64
	CacheLineBytes int64

	// LastStride is the stride of the last axis, LastOutput its output dimension and LastSpan the number of input
	// elements a row of the last axis spans.
	LastStride, LastOutput, LastSpan int64

	// ValidInCacheLine is the number of output elements in the first cache line read, see
	// Layout.ValidInCacheLine.
	ValidInCacheLine int64

	// TotalElems and TotalBytes of the output.
	TotalElems, TotalBytes int64

	// ExceedsUint32 is set if the output or an input row has more elements than a 32 bits offset can address.
	ExceedsUint32 bool
}

func newFacts(l Layout, elemBytes, cacheLineBytes int64) Facts {
	last := l.last()
	f := Facts{
		ElemBytes:        elemBytes,
		CacheLineBytes:   cacheLineBytes,
		LastStride:       l.Strides[last],
		LastOutput:       l.Output[last],
		LastSpan:         l.lastSpan(),
		ValidInCacheLine: l.ValidInCacheLine(elemBytes, cacheLineBytes),
		TotalElems:       product(l.Output),
	}
	f.TotalBytes = f.TotalElems * elemBytes
	f.ExceedsUint32 = f.TotalElems > MaxUint32 || (l.Rank() > 1 && product(l.Input[1:]) > MaxUint32)
	return f
}

// gatherable returns whether the last axis can be read in contiguous spans and gathered in scratch memory.
func (f Facts) gatherable() bool {
	return abs(f.LastStride) <= MaxGatherStride && f.LastSpan*f.ElemBytes >= f.CacheLineBytes
}

// ForwardSelector selects the kernel family of slices with only positive strides.
//
// The modes selected are the family representatives: ModeSliceMoveAlign, ModeSliceMoveAlignGather, ModeSliceNDDMA
// and ModeSliceSIMT. The final key is refined once the scratch split is known.
var ForwardSelector = tiling.Selector[Facts]{
	Name: "stridedslice",
	Rules: []tiling.Rule[Facts]{
		{
			Name: "move-align",
			When: func(f Facts) bool {
				return f.LastStride == 1 && f.LastOutput*f.ElemBytes >= MinLastRowBytes
			},
			Mode: tiling.ModeSliceMoveAlign,
		},
		{
			Name: "move-align-gather",
			When: func(f Facts) bool {
				return f.LastStride > 1 && f.gatherable() && f.TotalBytes > LaneMinBytes
			},
			Mode: tiling.ModeSliceMoveAlignGather,
		},
		{
			Name: "nddma",
			When: func(f Facts) bool {
				return f.ValidInCacheLine*f.ElemBytes >= MinLastRowBytes
			},
			Mode: tiling.ModeSliceNDDMA,
		},
		{
			Name: "nddma-small-or-big",
			When: func(f Facts) bool {
				return f.ExceedsUint32 || f.TotalElems <= SIMTMinOutputElems
			},
			Mode: tiling.ModeSliceNDDMA,
		},
	},
	Fallback: tiling.ModeSliceSIMT,
}

// ReverseSelector selects the kernel of slices with at least one negative stride. Its modes are final, except
// ModeSliceSIMT.
var ReverseSelector = tiling.Selector[Facts]{
	Name: "stridedslice-reverse",
	Rules: []tiling.Rule[Facts]{
		{
			Name: "small",
			When: func(f Facts) bool { return f.TotalBytes <= LaneMinBytes },
			Mode: tiling.ModeSliceSIMT,
		},
		{
			Name: "reversed-gather",
			When: func(f Facts) bool { return f.LastStride < 0 && f.gatherable() },
			Mode: tiling.ModeSliceMoveAlignGather,
		},
		{
			Name: "reversed-nddma-gather",
			When: func(f Facts) bool {
				return f.LastStride < 0 && f.ValidInCacheLine*f.ElemBytes >= f.CacheLineBytes/nddmaCacheLineFactor &&
					f.LastOutput*f.ElemBytes >= f.CacheLineBytes
			},
			Mode: tiling.ModeSliceNDDMAGather,
		},
		{
			Name: "contiguous-ub2ub",
			When: func(f Facts) bool {
				return f.LastStride == 1 && f.LastSpan*f.ElemBytes >= f.CacheLineBytes/moveAlignCacheLineFactor
			},
			Mode: tiling.ModeSliceMoveAlignUB2UB,
		},
		{
			Name: "strided-gather",
			When: func(f Facts) bool { return f.LastStride > 1 && f.gatherable() },
			Mode: tiling.ModeSliceMoveAlignGather,
		},
		{
			Name: "strided-nddma-ub2ub",
			When: func(f Facts) bool {
				return f.LastStride > 1 && f.ValidInCacheLine*f.ElemBytes >= f.CacheLineBytes/nddmaCacheLineFactor &&
					f.LastOutput*f.ElemBytes >= f.CacheLineBytes
			},
			Mode: tiling.ModeSliceNDDMAUB2UB,
		},
	},
	Fallback: tiling.ModeSliceSIMT,
}

// family is the kernel family of a selected mode: how many trailing axes the scratch split can cover, and how
// the input is staged.
type family struct {
	maxAxes int

	// gather reads spans of the input into scratch and gathers the strided elements there.
	gather bool

	// nddma moves data with the multi-dimensional DMA engine.
	nddma bool
}

func familyOf(mode tiling.Mode) family {
	switch mode {
	case tiling.ModeSliceMoveAlign, tiling.ModeSliceMoveAlignUB2UB:
		return family{maxAxes: moveAlignMaxAxes}
	case tiling.ModeSliceMoveAlignGather:
		return family{maxAxes: moveAlignMaxAxes, gather: true}
	case tiling.ModeSliceNDDMA:
		return family{maxAxes: nddmaMaxAxes, nddma: true}
	case tiling.ModeSliceNDDMAGather:
		return family{maxAxes: nddmaReverseMaxAxes, gather: true, nddma: true}
	case tiling.ModeSliceNDDMAUB2UB:
		return family{maxAxes: nddmaReverseMaxAxes, nddma: true}
	}
	return family{maxAxes: simtMaxAxes}
}
