// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package linspace plans the tiling of lin-space: num values evenly spaced from start to stop, both included.
//
// Lanes take chunks of LaneAlignment-aligned values. To limit the accumulation of rounding errors, values of the
// first half are computed forward from start, and values of the second half backward from stop: the lane where
// the two halves meet (the half-way lane) splits its chunk in a forward and a backward part, see HalfWay.
package linspace

import (
	"math"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/shapeinference"
	"github.com/gomlx/optiling/tiling"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/gomlx/optiling/types/shapes"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"k8s.io/klog/v2"
)

const (
	// LaneAlignment is the alignment, in values, of the chunk of each lane and of the scratch tiles. Lin-spaces
	// with at most LaneAlignment values use a single lane.
	LaneAlignment = 128

	// ScratchReserveBytes is the scratch memory kept for the kernel's own bookkeeping.
	ScratchReserveBytes = 1024
)

// Params of a lin-space.
type Params struct {
	Start, Stop float64

	// InputDType is the dtype of start and stop: they are quantized to it before the step is computed.
	InputDType dtypes.DType

	// Output dtype.
	Output dtypes.DType

	// Num is the number of values.
	Num int64
}

// HalfWay describes the lane where the forward and backward halves meet.
type HalfWay struct {
	Lane int

	// Forward values of the lane computed from start, and Backward values computed from stop.
	Forward, Backward int64

	// ForwardTiles and BackwardTiles split each part in scratch tiles.
	ForwardTiles, BackwardTiles tiling.TileSpec
}

// Plan of a lin-space.
type Plan struct {
	tiling.Plan

	// Start, Stop and Step as the kernel computes them, in float32.
	Start, Stop, Step float32

	// TileElems is the maximum number of values per scratch tile.
	TileElems int64

	HalfWay HalfWay
}

var supportedDTypes = map[dtypes.DType]bool{
	dtypes.Uint8: true, dtypes.Int8: true, dtypes.Int16: true, dtypes.Int32: true, dtypes.Float32: true,
	dtypes.Float16: true, dtypes.BFloat16: true,
}

// Facts the lin-space mode selection is evaluated on.
type Facts struct {
	Num int64
}

// Selector of the lin-space modes.
var Selector = tiling.Selector[Facts]{
	Name: "linspace",
	Rules: []tiling.Rule[Facts]{
		{
			Name: "single-lane",
			When: func(f Facts) bool { return f.Num <= LaneAlignment },
			Mode: tiling.ModeLinSpaceSingleLane,
		},
	},
	Fallback: tiling.ModeLinSpaceMultiLane,
}

// scratchBuffers is how many output-sized buffers the kernel keeps in scratch memory, by output element size:
// narrower outputs need more intermediary float32 buffers.
func scratchBuffers(elemBytes int64) int64 {
	switch elemBytes {
	case 1:
		return 6
	case 2:
		return 4
	}
	return 3
}

// Quantize converts v to the given dtype and back to float32, the way the kernel reads start and stop.
// Integers are truncated towards zero, and wrap around if out of range.
func Quantize(v float64, dtype dtypes.DType) float32 {
	switch dtype {
	case dtypes.Float16:
		return float16.Fromfloat32(float32(v)).Float32()
	case dtypes.BFloat16:
		return bfloat16.FromFloat32(float32(v)).Float32()
	case dtypes.Int32:
		return float32(int32(int64(v)))
	case dtypes.Int16:
		return float32(int16(int64(v)))
	case dtypes.Int8:
		return float32(int8(int64(v)))
	case dtypes.Uint8:
		return float32(uint8(int64(v)))
	}
	return float32(v)
}

// NewPlan plans the lin-space on the given budget.
func NewPlan(params Params, budget platform.Budget) (Plan, error) {
	stage := tiling.StageStart
	plan, err := newPlan(params, budget, &stage)
	if err != nil {
		return Plan{}, errors.WithMessagef(err, "LinSpace: failed at stage %s", stage)
	}
	if klog.V(1).Enabled() {
		klog.Infof("LinSpace: %s, start=%g, stop=%g, step=%g, half-way lane %d (%d forward, %d backward)",
			plan.Plan, plan.Start, plan.Stop, plan.Step, plan.HalfWay.Lane, plan.HalfWay.Forward, plan.HalfWay.Backward)
	}
	return plan, nil
}

func newPlan(params Params, budget platform.Budget, stage *tiling.Stage) (plan Plan, err error) {
	if err = budget.Validate(); err != nil {
		return
	}
	if !supportedDTypes[params.InputDType] || !supportedDTypes[params.Output] {
		err = planerrors.Shapef("dtypes (input %s, output %s) not supported", params.InputDType, params.Output)
		return
	}
	if math.IsNaN(params.Start) || math.IsNaN(params.Stop) {
		err = planerrors.Shapef("start (%g) and stop (%g) must be numbers", params.Start, params.Stop)
		return
	}

	*stage = tiling.StageShapeNormalized
	output, err := shapeinference.LinSpaceOp(int(params.Num), params.Output)
	if err != nil {
		return
	}
	if plan.Shape, err = shapes.Normalize(output, shapes.SplitLast); err != nil {
		return
	}
	plan.DType = params.Output
	plan.Start = Quantize(params.Start, params.InputDType)
	plan.Stop = Quantize(params.Stop, params.InputDType)
	switch {
	case params.Num > 1:
		plan.Step = (plan.Stop - plan.Start) / float32(params.Num-1)
	case params.Num == 1:
		plan.Stop = plan.Start
	}
	if output.IsEmpty() {
		plan.Plan = tiling.EmptyPlan(plan.Plan, budget)
		return
	}
	num := params.Num

	*stage = tiling.StageLaneAssigned
	chunk := num
	if num > LaneAlignment {
		chunk = tiling.AlignUp(tiling.CeilDiv(num, int64(budget.LaneCount)), LaneAlignment)
	}
	if plan.Lanes, err = tiling.ChunkLanes(num, chunk, budget.LaneCount); err != nil {
		return
	}

	*stage = tiling.StageModeSelected
	if plan.Mode, err = Selector.Select(Facts{Num: num}); err != nil {
		return
	}

	*stage = tiling.StageTileSplit
	elemBytes := output.ElemBytes()
	scratchElems := max(budget.ScratchBytes-ScratchReserveBytes, 1) / elemBytes
	plan.TileElems = tiling.AlignDown(scratchElems/scratchBuffers(elemBytes), LaneAlignment)
	if plan.TileElems <= 0 {
		err = planerrors.BudgetTooSmallf("scratch of %d bytes can't hold %d buffers of %d values of %s",
			budget.ScratchBytes, scratchBuffers(elemBytes), LaneAlignment, params.Output)
		return
	}
	plan.Tiles = tiling.TilesOf(plan.Lanes.FormerExtent, plan.TileElems)
	if plan.Lanes.TailCount > 0 {
		plan.TailTiles = tiling.TilesOf(plan.Lanes.TailExtent, plan.TileElems)
	}
	plan.HalfWay = halfWay(num, plan.Lanes, plan.TileElems)

	*stage = tiling.StageWorkspacePlanned
	plan.Workspace, err = tiling.PlanWorkspace(nil, tiling.WorkspaceArgs{
		Mode:      plan.Mode,
		ElemBytes: elemBytes,
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

// halfWay finds the lane holding the last value of the forward half, the first num/2 values.
// A single value is all forward.
func halfWay(num int64, lanes tiling.LaneDistribution, tileElems int64) (h HalfWay) {
	if num <= 1 {
		h.Forward = num
		h.ForwardTiles = tiling.TilesOf(num, tileElems)
		return
	}
	half := num / 2
	chunk := lanes.FormerExtent
	h.Lane = int((half - 1) / chunk)
	h.Forward = half - int64(h.Lane)*chunk
	h.Backward = lanes.ExtentOf(h.Lane) - h.Forward
	h.ForwardTiles = tiling.TilesOf(h.Forward, tileElems)
	if h.Backward > 0 {
		h.BackwardTiles = tiling.TilesOf(h.Backward, tileElems)
	}
	return
}
