// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package stridedslice

import (
	"github.com/gomlx/optiling/tiling"
)

// MoveAlign are the parameters of a move-align transfer: BlockCount bursts of BlockLen bytes, each SrcStride bytes
// apart in the input and DstStride bytes apart in scratch, repeated over two outer loops.
//
// BlockCount and the loop sizes and destination strides are 16 bits wide in hardware, the other fields 32 bits.
type MoveAlign struct {
	BlockCount, BlockLen, SrcStride, DstStride int64
	Loop1Size, Loop2Size                       int64
	Loop1SrcStride, Loop1DstStride             int64
	Loop2SrcStride, Loop2DstStride             int64
}

// NDDMALoops are the parameters of a multi-dimensional DMA transfer, one loop per axis, innermost loop last.
// Sizes are in elements, strides in elements.
type NDDMALoops struct {
	Sizes, SrcStrides, DstStrides []int64

	// TotalElems is the number of elements moved by one transfer.
	TotalElems int64
}

// setMoveAlign computes the move-align parameters for the scratch axis selected. Bursts can cover up to the last
// four axes: if any parameter overflows its hardware width, the scratch axis moves one axis to the right and the
// parameters are computed again.
func (t *tiler) setMoveAlign() {
	switch t.rank - t.scratchAxis {
	case 1:
		t.moveAlignLastOne()
	case 2:
		t.moveAlignLastTwo()
	case 3:
		t.moveAlignLastThree()
	case 4:
		t.moveAlignLastFour()
	}
}

// staged returns whether the input spans are staged in scratch memory before gathering.
func (t *tiler) staged() bool { return t.negative || t.fam.gather }

// burstBytes is the length of one input span of the last axis, in bytes.
func (t *tiler) burstBytes(outputs int64) int64 {
	s := abs(t.stride(1))
	return (outputs*s - s + 1) * t.elemBytes
}

// shrinkScratchAxis moves the scratch axis one axis to the right, taking all of it.
func (t *tiler) shrinkScratchAxis(factor int64) {
	t.scratchFactor = factor
	t.scratchTail = 0
	t.scratchTailTail = 0
	t.scratchAxis++
	t.allInScratchSet = false
}

func (t *tiler) moveAlignLastOne() {
	if t.staged() {
		t.moveAlign.BlockCount = 1
		t.moveAlign.BlockLen = t.burstBytes(t.scratchFactor)
		t.moveAlign.SrcStride = 0
		t.moveAlign.DstStride = 0
	}
	if !t.negative {
		t.mode = tiling.ModeSliceMoveAlignLastDim
		if t.fam.gather {
			t.mode = tiling.ModeSliceMoveAlignGather
		}
	}
}

func (t *tiler) moveAlignLastTwo() {
	srcStride := abs(t.stride(2) * t.in(1) * t.elemBytes)
	if srcStride > MaxUint32 || t.scratchFactor > MaxUint16 {
		t.shrinkScratchAxis(t.out(1))
		t.moveAlignLastOne()
		return
	}
	ma := &t.moveAlign
	switch {
	case t.staged():
		ma.BlockCount = t.scratchFactor
		ma.BlockLen = t.burstBytes(t.out(1))
		ma.SrcStride = srcStride
		ma.DstStride = 0
	default:
		ma.BlockCount = t.scratchFactor
		ma.BlockLen = t.out(1) * t.elemBytes
		ma.SrcStride = srcStride
		ma.DstStride = ma.BlockLen
	}
	if !t.negative {
		switch {
		case t.fam.gather:
			t.mode = tiling.ModeSliceMoveAlignGather
		case t.rank == 2:
			t.mode = tiling.ModeSliceMoveAlignTwoDim
		default:
			t.mode = tiling.ModeSliceMoveAlign
		}
	}
}

func (t *tiler) moveAlignLastThree() {
	srcStride := abs(t.stride(2) * t.in(1) * t.elemBytes)
	loop1SrcStride := abs(t.stride(3) * t.in(1) * t.in(2) * t.elemBytes)
	loop1DstStride := tiling.AlignUp(t.out(1)*t.out(2)*t.elemBytes, t.budget.BlockBytes)
	blockLen := t.out(1) * t.elemBytes
	if t.staged() {
		blockLen = t.burstBytes(t.out(1))
		loop1DstStride = t.out(2) * tiling.AlignUp(blockLen, t.budget.BlockBytes)
	}
	if loop1SrcStride > MaxUint32 || srcStride > MaxUint32 || t.out(2) > MaxUint16 ||
		loop1DstStride > MaxUint16 || t.scratchFactor > MaxUint16 {
		t.shrinkScratchAxis(t.out(2))
		t.moveAlignLastTwo()
		return
	}
	t.moveAlign = MoveAlign{
		BlockCount:     t.out(2),
		BlockLen:       blockLen,
		SrcStride:      srcStride,
		Loop1Size:      t.scratchFactor,
		Loop2Size:      1,
		Loop1SrcStride: loop1SrcStride,
		Loop1DstStride: loop1DstStride,
	}
	if !t.staged() {
		t.moveAlign.DstStride = blockLen
	}
	if !t.negative {
		t.mode = tiling.ModeSliceMoveAlign
		if t.fam.gather {
			t.mode = tiling.ModeSliceMoveAlignGather
		}
	}
}

func (t *tiler) moveAlignLastFour() {
	srcStride := abs(t.stride(2) * t.in(1) * t.elemBytes)
	loop1SrcStride := abs(t.stride(3) * t.in(1) * t.in(2) * t.elemBytes)
	loop2SrcStride := abs(t.stride(4) * t.in(1) * t.in(2) * t.in(3) * t.elemBytes)
	loop1DstStride := tiling.AlignUp(t.out(1)*t.out(2)*t.elemBytes, t.budget.BlockBytes)
	blockLen := t.out(1) * t.elemBytes
	if t.staged() {
		blockLen = t.burstBytes(t.out(1))
		loop1DstStride = t.out(2) * tiling.AlignUp(blockLen, t.budget.BlockBytes)
	}
	loop2DstStride := t.out(3) * loop1DstStride
	if loop2SrcStride > MaxUint32 || loop1SrcStride > MaxUint32 || srcStride > MaxUint32 ||
		t.out(2) > MaxUint16 || t.out(3) > MaxUint16 || t.scratchFactor > MaxUint16 ||
		loop1DstStride > MaxUint16 || loop2DstStride > MaxUint16 {
		t.shrinkScratchAxis(t.out(3))
		t.moveAlignLastThree()
		return
	}
	t.moveAlign = MoveAlign{
		BlockCount:     t.out(2),
		BlockLen:       blockLen,
		SrcStride:      srcStride,
		Loop1Size:      t.out(3),
		Loop2Size:      t.scratchFactor,
		Loop1SrcStride: loop1SrcStride,
		Loop1DstStride: loop1DstStride,
		Loop2SrcStride: loop2SrcStride,
		Loop2DstStride: loop2DstStride,
	}
	if !t.staged() {
		t.moveAlign.DstStride = blockLen
	}
	if !t.negative {
		t.mode = tiling.ModeSliceMoveAlign
		if t.fam.gather {
			t.mode = tiling.ModeSliceMoveAlignGather
		}
	}
}

// nddmaLoops computes the NDDMA loops covering the axes from the scratch axis to the last: the scratch axis loop
// moves ScratchFactor elements, the others their full output dimension.
//
// Reversed slices gather in scratch, so their innermost destination rows are block aligned.
func (t *tiler) nddmaLoops() NDDMALoops {
	numLoops := nddmaMaxAxes
	if t.negative {
		numLoops = nddmaReverseMaxAxes
	}
	loops := NDDMALoops{
		Sizes:      make([]int64, numLoops),
		SrcStrides: make([]int64, numLoops),
		DstStrides: make([]int64, numLoops),
		TotalElems: 1,
	}
	axes := t.rank - t.scratchAxis
	for j := 1; j <= axes; j++ {
		idx := numLoops - j
		if j == axes {
			loops.Sizes[idx] = t.scratchFactor
		} else {
			loops.Sizes[idx] = t.out(j)
		}
		loops.TotalElems *= loops.Sizes[idx]
		srcStride, dstStride := t.stride(j), int64(1)
		if t.negative {
			srcStride = abs(srcStride)
		}
		for k := 1; k < j; k++ {
			srcStride *= t.in(k)
			if t.negative && k == 1 {
				dstStride *= tiling.AlignUp(t.out(k), t.budget.BlockBytes/t.elemBytes)
			} else {
				dstStride *= t.out(k)
			}
		}
		loops.SrcStrides[idx] = srcStride
		loops.DstStrides[idx] = dstStride
	}
	return loops
}
