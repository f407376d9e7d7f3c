// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package onehot plans the tiling of one-hot encodings: for each index i of the input, a new axis of depth
// elements is written with the "on" value at position i and the "off" value everywhere else.
//
// Lanes take chunks of MinIndicesPerLane indices. When the output is large and deep, the plan has two phases:
// first every lane fills a chunk of the whole output with the off value, and then, after a barrier, the lanes
// scatter the on values of their indices (ModeOneHotScratchInit). Otherwise each lane writes whole depth rows
// (ModeOneHotDirect).
package onehot

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/shapeinference"
	"github.com/gomlx/optiling/tiling"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/gomlx/optiling/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// MinIndicesPerLane is the minimum number of indices worth a lane of its own.
	MinIndicesPerLane = 1024

	// FillChunkElems is the number of output elements per lane filled with the off value in one tile, and the
	// minimum amount worth a lane in the fill phase.
	FillChunkElems = 8192

	// DepthThreshold and OutputThreshold (in elements) define a large one-hot, where filling the off value first
	// is faster than writing whole depth rows.
	DepthThreshold  = 128
	OutputThreshold = 1024 * 1024

	// DataCacheBytes is the part of the scratch memory used as data cache by the kernel.
	DataCacheBytes = 58 * 1024

	// MaxIndicesRank is the maximum rank of the indices: the output has one more axis.
	MaxIndicesRank = shapes.MaxRank - 1
)

// Phase names of ModeOneHotScratchInit plans.
const (
	PhaseFill    = "fill"
	PhaseScatter = "scatter"
)

// Params of a one-hot encoding.
type Params struct {
	// Indices to encode.
	Indices shapes.Shape

	// Depth of the new axis.
	Depth int

	// Axis where the new axis is inserted. -1 means it is appended as the last axis.
	Axis int

	// Output dtype, the dtype of the on and off values.
	Output dtypes.DType
}

// Plan of a one-hot encoding. Lanes distributes the indices, and for ModeOneHotScratchInit, Fill distributes
// the output elements in the fill phase.
type Plan struct {
	tiling.Plan

	// Output shape of the one-hot.
	Output shapes.Shape

	// Indices is the total number of indices.
	Indices int64

	// Depth of the one-hot axis.
	Depth int64

	// Fill distributes the output elements filled with the off value, and FillTiles splits each lane's chunk.
	// Only set for ModeOneHotScratchInit.
	Fill      tiling.LaneDistribution
	FillTiles tiling.TileSpec

	// ScratchBytes is the scratch memory left to the kernel after the data cache.
	ScratchBytes int64
}

var (
	indicesDTypes = map[dtypes.DType]bool{dtypes.Int32: true, dtypes.Int64: true, dtypes.Uint8: true}
	outputDTypes  = map[dtypes.DType]bool{
		dtypes.Float16: true, dtypes.Float32: true, dtypes.Int32: true, dtypes.Int64: true, dtypes.Int8: true,
		dtypes.Uint8: true,
	}
)

// Facts the one-hot mode selection is evaluated on.
type Facts struct {
	Depth, Indices, OutputElems int64
}

// Selector of the one-hot modes.
var Selector = tiling.Selector[Facts]{
	Name: "onehot",
	Rules: []tiling.Rule[Facts]{
		{
			Name: "scratch-init",
			When: func(f Facts) bool {
				return f.Depth > DepthThreshold && f.OutputElems > OutputThreshold
			},
			Mode: tiling.ModeOneHotScratchInit,
		},
	},
	Fallback: tiling.ModeOneHotDirect,
}

// NewPlan plans the one-hot encoding on the given budget.
func NewPlan(params Params, budget platform.Budget) (Plan, error) {
	stage := tiling.StageStart
	plan, err := newPlan(params, budget, &stage)
	if err != nil {
		return Plan{}, errors.WithMessagef(err, "OneHot: failed at stage %s", stage)
	}
	if klog.V(1).Enabled() {
		klog.Infof("OneHot: %s, indices=%d, depth=%d, fill=%s", plan.Plan, plan.Indices, plan.Depth, plan.Fill)
	}
	return plan, nil
}

func newPlan(params Params, budget platform.Budget, stage *tiling.Stage) (plan Plan, err error) {
	if err = budget.Validate(); err != nil {
		return
	}
	indices := params.Indices
	if indices.Rank() > MaxIndicesRank {
		err = planerrors.DimensionLimitf("indices %s have rank %d, the maximum is %d", indices, indices.Rank(),
			MaxIndicesRank)
		return
	}
	if !indicesDTypes[indices.DType] {
		err = planerrors.Shapef("indices dtype %s not supported, it must be Int32, Int64 or Uint8", indices.DType)
		return
	}
	if !outputDTypes[params.Output] {
		err = planerrors.Shapef("output dtype %s not supported", params.Output)
		return
	}

	*stage = tiling.StageShapeNormalized
	if plan.Output, err = shapeinference.OneHotOp(indices, params.Depth, params.Axis, params.Output); err != nil {
		return
	}
	axis := params.Axis
	if axis == -1 {
		axis = indices.Rank()
	}
	if plan.Shape, err = shapes.Normalize(plan.Output, axis); err != nil {
		return
	}
	plan.DType = params.Output
	plan.Depth = int64(params.Depth)
	plan.Indices = indices.Size()
	if plan.Output.IsEmpty() {
		plan.Plan = tiling.EmptyPlan(plan.Plan, budget)
		return
	}
	plan.ScratchBytes = budget.ScratchBytes - DataCacheBytes
	if plan.ScratchBytes <= 0 {
		err = planerrors.BudgetTooSmallf("scratch of %d bytes is smaller than the %d bytes of data cache",
			budget.ScratchBytes, DataCacheBytes)
		return
	}

	*stage = tiling.StageLaneAssigned
	if plan.Lanes, err = tiling.ChunkLanes(plan.Indices, MinIndicesPerLane, budget.LaneCount); err != nil {
		return
	}

	*stage = tiling.StageModeSelected
	facts := Facts{Depth: plan.Depth, Indices: plan.Indices, OutputElems: plan.Indices * plan.Depth}
	if plan.Mode, err = Selector.Select(facts); err != nil {
		return
	}

	*stage = tiling.StageTileSplit
	plan.Tiles = tiling.TilesOf(plan.Lanes.FormerExtent, 0)
	if plan.Lanes.TailCount > 0 {
		plan.TailTiles = tiling.TilesOf(plan.Lanes.TailExtent, 0)
	}
	if plan.Mode == tiling.ModeOneHotScratchInit {
		if plan.Fill, err = tiling.ChunkLanes(facts.OutputElems, FillChunkElems, budget.LaneCount); err != nil {
			return
		}
		plan.FillTiles = tiling.TilesOf(plan.Fill.FormerExtent, FillChunkElems)
		plan.Phases = []tiling.Phase{
			{Name: PhaseFill, Lanes: plan.Fill, Tiles: plan.FillTiles},
			{Name: PhaseScatter, Lanes: plan.Lanes, Tiles: plan.Tiles},
		}
	}

	*stage = tiling.StageWorkspacePlanned
	plan.Workspace, err = tiling.PlanWorkspace(nil, tiling.WorkspaceArgs{
		Mode:      plan.Mode,
		ElemBytes: plan.Output.ElemBytes(),
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
