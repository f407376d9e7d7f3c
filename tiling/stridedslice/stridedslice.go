// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package stridedslice plans the tiling of strided slices, out[i] = in[begin + i*stride] on every axis, with any
// mix of positive and negative strides.
//
// Planning first fuses contiguous axes (see FuseAxes), then selects the kernel family (ForwardSelector or
// ReverseSelector), distributes the output among lanes along one "block" axis, and finally splits each lane's work
// in tiles along one "scratch" axis so that a tile fits the per-lane scratch memory.
//
// Kernel families:
//
//   - Move-align (100, 101, 150): bursts of contiguous rows, used when the last axis has stride 1 and rows are
//     long enough.
//   - Gather (300, 301, 302, 303): spans of the input are read into scratch memory and the strided or reversed
//     elements are gathered there.
//   - NDDMA (102, 103): multi-dimensional DMA for short or sparse rows.
//   - SIMT (200, 201): element-wise addressing, the catch-all.
package stridedslice

import (
	"math"

	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/shapeinference"
	"github.com/gomlx/optiling/tiling"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/gomlx/optiling/types/shapes"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// ScratchReserveBytes is the scratch memory kept for the kernel's own bookkeeping.
	ScratchReserveBytes = 8192

	// Buffers sharing the scratch memory: double buffering.
	Buffers = 2

	// LaneMinBytes is the minimum amount of output worth a lane of its own.
	LaneMinBytes = 1024

	// SIMTMinOutputElems is the output size, in elements, under which a small slice is moved with NDDMA.
	SIMTMinOutputElems = 1024

	// MinLastRowBytes is the minimum length of the output rows moved with bursts.
	MinLastRowBytes = 64

	// MaxGatherStride is the largest last-axis stride that is still read in contiguous spans.
	MaxGatherStride = 16

	// TwoDimMaxSpanBytes limits the lanes of 2D slices with short rows to the number of rows.
	TwoDimMaxSpanBytes = 4 * LaneMinBytes

	// MaxUint16 and MaxUint32 are the limits of the move-align burst parameters.
	MaxUint16 = math.MaxUint16
	MaxUint32 = math.MaxUint32

	moveAlignCacheLineFactor = 4
	nddmaCacheLineFactor     = 2
)

// Maximum number of trailing axes a scratch tile can cover, per kernel family.
const (
	moveAlignMaxAxes    = 4
	nddmaMaxAxes        = 5
	nddmaReverseMaxAxes = 4
	simtMaxAxes         = 8
)

// Params of a strided slice, see shapeinference.StridedSliceOp for their semantics.
type Params struct {
	Input               shapes.Shape
	Begin, End, Strides []int
	BeginMask, EndMask  int
}

// Plan of a strided slice.
//
// Lanes are laid out along the block axis, in the order of Lanes: the former lanes take the full blocks of
// BlockFactor indices, out[BlockAxis] / BlockFactor consecutive lanes for each index of the axes before BlockAxis.
// If BlockTailFactor is not 0, the tail lanes follow, one per index of the axes before BlockAxis, each taking the
// last BlockTailFactor indices of the block axis. See BlockOf.
//
// Tiles and TailTiles split the scratch axis: the lane's block when ScratchAxis == BlockAxis, or else the whole
// scratch axis, for every index of the axes in between.
type Plan struct {
	tiling.Plan

	// Layout is the fused slice the plan refers to.
	Layout Layout

	BlockAxis                    int
	BlockFactor, BlockTailFactor int64

	ScratchAxis                                             int
	ScratchFactor, ScratchTailFactor, ScratchTailTailFactor int64

	// ScratchBytes is the scratch memory for output buffers, and ScratchInputBytes the scratch memory for input
	// buffers in the gather families (0 otherwise).
	ScratchBytes, ScratchInputBytes int64

	// AllInScratch is set when the whole output fits one tile of one lane.
	AllInScratch bool

	// InputSteps[i] is the number of input elements of axes i and after, RowsOffsetSteps[i] the number of output
	// rows (of the last axis) of axes i+1 and after.
	InputSteps, RowsOffsetSteps []int64

	// InLoopSteps and OutLoopSteps are how many input and output elements one tile advances.
	InLoopSteps, OutLoopSteps int64

	// MoveAlign parameters, for the move-align and gather modes.
	MoveAlign MoveAlign

	// NDDMA loops, for the NDDMA modes.
	NDDMA NDDMALoops

	// ExceedsUint32 is set when offsets don't fit 32 bits.
	ExceedsUint32 bool
}

// BlockOf returns the block of the output handled by the lane: the flat index of the axes before BlockAxis, and
// the start and extent along BlockAxis. The extent is always Lanes.ExtentOf(lane), and lanes not used get an
// empty block.
func (p Plan) BlockOf(lane int) (outer, start, extent int64) {
	if p.Mode == tiling.ModeSliceSIMT || p.Mode == tiling.ModeSliceSIMTBigShape || p.Mode == tiling.ModeEmpty {
		return 0, p.Lanes.OffsetOf(lane), p.Lanes.ExtentOf(lane)
	}
	fullBlocks := p.Layout.Output[p.BlockAxis] / p.BlockFactor
	switch {
	case lane < 0 || lane >= p.Lanes.LanesUsed():
		return 0, 0, 0
	case lane < p.Lanes.FormerCount:
		outer = int64(lane) / fullBlocks
		start = (int64(lane) % fullBlocks) * p.BlockFactor
		extent = p.BlockFactor
	default:
		outer = int64(lane - p.Lanes.FormerCount)
		start = fullBlocks * p.BlockFactor
		extent = p.BlockTailFactor
	}
	return
}

// NewPlan plans the strided slice on the given budget.
//
// Errors are wrapped with the stage they happened in, and always carry one of the planerrors kinds.
func NewPlan(params Params, budget platform.Budget) (Plan, error) {
	stage := tiling.StageStart
	plan, err := newPlan(params, budget, &stage)
	if err != nil {
		return Plan{}, errors.WithMessagef(err, "StridedSlice: failed at stage %s", stage)
	}
	if klog.V(1).Enabled() {
		klog.Infof("StridedSlice: %s, layout=%s, block axis %d (factor %d, tail %d), scratch axis %d (factor %d)",
			plan.Plan, plan.Layout, plan.BlockAxis, plan.BlockFactor, plan.BlockTailFactor, plan.ScratchAxis,
			plan.ScratchFactor)
	}
	return plan, nil
}

func newPlan(params Params, budget platform.Budget, stage *tiling.Stage) (plan Plan, err error) {
	if err = budget.Validate(); err != nil {
		return
	}
	if params.Input.Rank() > shapes.MaxRank {
		err = planerrors.DimensionLimitf("rank %d of %s larger than the maximum %d", params.Input.Rank(),
			params.Input, shapes.MaxRank)
		return
	}
	*stage = tiling.StageShapeNormalized
	output, axes, err := shapeinference.StridedSliceOp(params.Input, params.Begin, params.End, params.Strides,
		params.BeginMask, params.EndMask)
	if err != nil {
		return
	}
	plan.DType = params.Input.DType
	if params.Input.IsEmpty() || output.IsEmpty() {
		plan.Shape = must.M1(shapes.Normalize(output, output.Rank()))
		plan.Plan = tiling.EmptyPlan(plan.Plan, budget)
		return
	}
	layout := FuseAxes(newLayout(params.Input.Dimensions, output.Dimensions, axes))
	klog.V(2).Infof("StridedSlice: %s fused to %s", params.Input, layout)

	t := &tiler{
		layout:    layout,
		rank:      layout.Rank(),
		dtype:     params.Input.DType,
		elemBytes: params.Input.ElemBytes(),
		budget:    budget,
		negative:  layout.hasNegativeStride(),
	}
	t.facts = newFacts(layout, t.elemBytes, budget.CacheLineBytes)

	*stage = tiling.StageModeSelected
	selector := ForwardSelector
	if t.negative {
		selector = ReverseSelector
	}
	if t.mode, err = selector.Select(t.facts); err != nil {
		return
	}
	t.fam = familyOf(t.mode)

	*stage = tiling.StageLaneAssigned
	if t.isSIMT() {
		t.assignSIMTLanes()
	} else if !t.negative && t.facts.TotalBytes <= LaneMinBytes && t.rank <= t.fam.maxAxes {
		t.allInScratch()
	} else {
		t.splitBlocks()
		*stage = tiling.StageTileSplit
		if t.fam.gather || t.negative {
			err = t.splitStagedScratch()
		} else {
			err = t.splitScratch()
		}
		if err != nil {
			return
		}
	}

	t.refineMode()

	*stage = tiling.StageTileSplit
	plan, err = t.plan()
	if err != nil {
		return
	}
	plan.DType = params.Input.DType

	*stage = tiling.StageWorkspacePlanned
	plan.Workspace, err = tiling.PlanWorkspace(nil, tiling.WorkspaceArgs{
		Mode:      plan.Mode,
		ElemBytes: t.elemBytes,
		Lanes:     plan.Lanes,
		Tiles:     plan.Tiles,
		TailTiles: plan.TailTiles,
	}, budget)
	if err != nil {
		return
	}
	*stage = tiling.StageDone
	return
}
