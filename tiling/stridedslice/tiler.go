// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package stridedslice

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/tiling"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/gomlx/optiling/types/shapes"
	"k8s.io/klog/v2"
)

// tiler holds the intermediary state of the planning of one strided slice. It's not shared across calls.
type tiler struct {
	layout    Layout
	rank      int
	dtype     dtypes.DType
	elemBytes int64
	budget    platform.Budget
	negative  bool
	facts     Facts
	mode      tiling.Mode
	fam       family

	simtLanes tiling.LaneDistribution

	blockAxis              int
	blockFactor, blockTail int64
	scratchAxis            int
	scratchFactor          int64
	scratchTail            int64
	scratchTailTail        int64
	scratchBytes           int64
	scratchInputBytes      int64
	allInScratchSet        bool
	moveAlign              MoveAlign
	nddma                  NDDMALoops
}

func (t *tiler) isSIMT() bool { return t.mode == tiling.ModeSliceSIMT }

// out, in and stride return the output dimension, input dimension and stride of the k-th axis counting from the
// end (k=1 is the last axis), or 0 if there are fewer than k axes.
func (t *tiler) out(k int) int64 {
	if k > t.rank {
		return 0
	}
	return t.layout.Output[t.rank-k]
}

func (t *tiler) in(k int) int64 {
	if k > t.rank {
		return 0
	}
	return t.layout.Input[t.rank-k]
}

func (t *tiler) stride(k int) int64 {
	if k > t.rank {
		return 0
	}
	return t.layout.Strides[t.rank-k]
}

// assignSIMTLanes distributes the output elements evenly: SIMT kernels address each element individually.
func (t *tiler) assignSIMTLanes() {
	t.simtLanes = tiling.EvenLanes(t.facts.TotalElems, t.budget.LaneCount)
	t.blockAxis, t.scratchAxis = -1, -1
}

// allInScratch is used for small slices: one lane does everything in a single tile.
func (t *tiler) allInScratch() {
	t.allInScratchSet = true
	t.blockAxis, t.scratchAxis = 0, 0
	t.blockFactor = t.layout.Output[0]
	t.scratchFactor = t.blockFactor
	t.scratchBytes = t.budget.ScratchBytes
}

// splitBlocks selects the block axis and factor: the first axis whose dimension can absorb the remaining lane
// budget, where the budget is one lane per LaneMinBytes of output.
func (t *tiler) splitBlocks() {
	out := t.layout.Output
	lastStride := abs(t.stride(1))
	rightDiv := min(int64(t.budget.LaneCount), tiling.CeilDiv(t.facts.TotalBytes, LaneMinBytes))
	if t.rank == 2 && t.facts.LastSpan*t.elemBytes <= TwoDimMaxSpanBytes {
		rightDiv = min(rightDiv, out[0])
	}
	t.blockAxis = -1
	for axis, dim := range out {
		if rightDiv >= 1 && rightDiv/dim <= 1 {
			t.blockAxis = axis
			t.blockFactor = tiling.CeilDiv(dim, rightDiv)
			break
		}
		rightDiv /= dim
	}
	if t.fam.maxAxes == moveAlignMaxAxes && t.blockAxis == t.rank-1 &&
		t.blockFactor*lastStride < LaneMinBytes/t.elemBytes {
		// Blocks of the last axis read at least LaneMinBytes.
		t.blockFactor = min(max(LaneMinBytes/t.elemBytes/lastStride, 1), out[t.blockAxis])
	}
	if t.blockAxis == -1 {
		t.blockAxis = t.rank - 1
		t.blockFactor = out[t.rank-1]
	}
	t.blockTail = out[t.blockAxis] % t.blockFactor
	klog.V(2).Infof("StridedSlice: block axis %d, factor %d, tail %d", t.blockAxis, t.blockFactor, t.blockTail)
}

// splitScratch selects the scratch axis and factor for the direct families, searching from the last axis up to
// the family's maximum number of axes (and never before the block axis).
func (t *tiler) splitScratch() error {
	elems := (t.budget.ScratchBytes - ScratchReserveBytes) / t.elemBytes / Buffers
	if elems <= 0 {
		return planerrors.BudgetTooSmallf("StridedSlice: scratch of %d bytes leaves no room after the %d bytes reserved",
			t.budget.ScratchBytes, ScratchReserveBytes)
	}
	t.scratchBytes = t.budget.ScratchBytes
	out := t.layout.Output
	t.scratchAxis = -1
	rightProduct := int64(1)
	maxLeft := max(t.rank-t.fam.maxAxes, t.blockAxis)
	for axis := t.rank - 1; axis >= maxLeft; axis-- {
		dim := out[axis]
		if rightProduct*dim >= elems {
			t.scratchAxis = axis
			t.scratchFactor = max(elems/rightProduct, 1)
			t.scratchTail = dim % t.scratchFactor
			break
		}
		if t.fam.maxAxes == moveAlignMaxAxes && axis == t.rank-2 {
			// Move-align bursts of the last two axes are block aligned.
			rightProduct = tiling.AlignUp(dim*rightProduct*t.elemBytes, t.budget.BlockBytes) / t.elemBytes
		} else {
			rightProduct *= dim
		}
	}
	t.finishScratchSplit(maxLeft)
	return nil
}

// splitStagedScratch selects the scratch axis and factor for the gather families, where scratch memory holds both
// the input spans and the gathered output.
func (t *tiler) splitStagedScratch() error {
	inFactor := abs(t.stride(1))
	if t.fam.nddma {
		inFactor = 1
	}
	outBase := tiling.AlignDown((t.budget.ScratchBytes-ScratchReserveBytes)/Buffers/(inFactor+1), t.budget.CacheLineBytes)
	elems := outBase / t.elemBytes
	if elems <= 0 {
		return planerrors.BudgetTooSmallf("StridedSlice: scratch of %d bytes can't stage input spans of stride %d",
			t.budget.ScratchBytes, inFactor)
	}
	t.scratchBytes = outBase
	t.scratchInputBytes = outBase * inFactor
	out := t.layout.Output
	t.scratchAxis = -1
	rightProduct := int64(1)
	maxLeft := max(t.rank-t.fam.maxAxes, t.blockAxis)
	for axis := t.rank - 1; axis >= maxLeft; axis-- {
		dim := out[axis]
		if axis == t.rank-1 {
			dim = tiling.AlignUp(dim, t.budget.BlockBytes/t.elemBytes)
		}
		if rightProduct*dim >= elems {
			t.scratchAxis = axis
			t.scratchFactor = max(elems/rightProduct, 1)
			t.scratchTail = out[axis] % t.scratchFactor
			break
		}
		rightProduct *= dim
	}
	t.finishScratchSplit(maxLeft)
	return nil
}

func (t *tiler) finishScratchSplit(maxLeft int) {
	if t.scratchAxis == -1 {
		t.scratchAxis = maxLeft
		t.scratchFactor = t.layout.Output[maxLeft]
		t.scratchTail = 0
	}
	if t.scratchAxis == t.blockAxis {
		t.scratchFactor = min(t.scratchFactor, t.blockFactor)
		t.scratchTail = t.blockFactor % t.scratchFactor
		t.scratchTailTail = t.blockTail % t.scratchFactor
	}
	klog.V(2).Infof("StridedSlice: scratch axis %d, factor %d, tail %d, tail of tail %d", t.scratchAxis,
		t.scratchFactor, t.scratchTail, t.scratchTailTail)
}

// refineMode turns the family representative selected into the final mode, and computes the mode's transfer
// parameters.
func (t *tiler) refineMode() {
	switch {
	case t.isSIMT():
		if t.facts.ExceedsUint32 {
			t.mode = tiling.ModeSliceSIMTBigShape
		}
	case t.fam.nddma:
		t.nddma = t.nddmaLoops()
		if !t.negative && t.rank-t.scratchAxis == 1 {
			t.mode = tiling.ModeSliceNDDMALastDim
		}
	default:
		t.moveAlign = MoveAlign{Loop1Size: 1, Loop2Size: 1}
		t.setMoveAlign()
	}
}

// plan assembles the final plan.
func (t *tiler) plan() (Plan, error) {
	p := Plan{
		Layout:                t.layout,
		BlockAxis:             t.blockAxis,
		BlockFactor:           t.blockFactor,
		BlockTailFactor:       t.blockTail,
		ScratchAxis:           t.scratchAxis,
		ScratchFactor:         t.scratchFactor,
		ScratchTailFactor:     t.scratchTail,
		ScratchTailTailFactor: t.scratchTailTail,
		ScratchBytes:          t.scratchBytes,
		ScratchInputBytes:     t.scratchInputBytes,
		AllInScratch:          t.allInScratchSet,
		MoveAlign:             t.moveAlign,
		NDDMA:                 t.nddma,
		ExceedsUint32:         t.facts.ExceedsUint32,
	}
	p.Mode = t.mode
	dims := make([]int, t.rank)
	for axis, dim := range t.layout.Output {
		dims[axis] = int(dim)
	}
	output := shapes.Make(t.dtype, dims...)
	var err error
	if t.isSIMT() || t.mode == tiling.ModeSliceSIMTBigShape {
		if p.Shape, err = shapes.Normalize(output, t.rank); err != nil {
			return Plan{}, err
		}
		p.Lanes = t.simtLanes
		p.Tiles = tiling.TilesOf(p.Lanes.FormerExtent, 0)
		if p.Lanes.TailCount > 0 {
			p.TailTiles = tiling.TilesOf(p.Lanes.TailExtent, 0)
		}
		t.steps(&p)
		return p, nil
	}

	if p.Shape, err = shapes.Normalize(output, t.blockAxis); err != nil {
		return Plan{}, err
	}
	out := t.layout.Output
	prefix := product(out[:t.blockAxis])
	p.Lanes = tiling.LaneDistribution{
		FormerCount:  int(prefix * (out[t.blockAxis] / t.blockFactor)),
		FormerExtent: t.blockFactor,
	}
	if t.blockTail > 0 {
		p.Lanes.TailCount = int(prefix)
		p.Lanes.TailExtent = t.blockTail
	}
	if p.Lanes.LanesUsed() > t.budget.LaneCount {
		return Plan{}, planerrors.CoreCountf("StridedSlice: %d lanes needed for %s, only %d available",
			p.Lanes.LanesUsed(), p.Lanes, t.budget.LaneCount)
	}
	if t.scratchAxis == t.blockAxis {
		p.Tiles = tiling.TilesOf(t.blockFactor, t.scratchFactor)
		if t.blockTail > 0 {
			p.TailTiles = tiling.TilesOf(t.blockTail, t.scratchFactor)
		}
	} else {
		p.Tiles = tiling.TilesOf(out[t.scratchAxis], t.scratchFactor)
		if t.blockTail > 0 {
			p.TailTiles = p.Tiles
		}
	}
	t.steps(&p)
	return p, nil
}

// steps fills the input/output steps of the plan.
func (t *tiler) steps(p *Plan) {
	r := t.rank
	in, out := t.layout.Input, t.layout.Output
	p.InputSteps = make([]int64, r)
	p.RowsOffsetSteps = make([]int64, r)
	outputSteps := make([]int64, r)
	p.RowsOffsetSteps[r-1] = 1
	p.InputSteps[r-1] = in[r-1]
	outputSteps[r-1] = out[r-1]
	for axis := r - 2; axis >= 0; axis-- {
		p.RowsOffsetSteps[axis] = out[axis] * p.RowsOffsetSteps[axis+1]
		p.InputSteps[axis] = in[axis] * p.InputSteps[axis+1]
		outputSteps[axis] = out[axis] * outputSteps[axis+1]
	}
	if t.scratchAxis < 0 {
		p.InLoopSteps, p.OutLoopSteps = 1, 1
		return
	}
	ub := t.scratchAxis
	if ub != r-1 {
		p.InLoopSteps = t.scratchFactor * t.layout.Strides[ub] * p.InputSteps[ub+1]
		p.OutLoopSteps = t.scratchFactor * outputSteps[ub+1]
	} else {
		p.InLoopSteps = t.scratchFactor * t.layout.Strides[ub]
		p.OutLoopSteps = t.scratchFactor
	}
}
