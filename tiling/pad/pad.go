// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package pad plans the tiling of mirror padding over the last axis: each row of width elements is extended with
// left and right elements reflected from its edges.
//
// Inputs have rank 1 to 3 ([W], [C, W] or [N, C, W]). Rows are distributed among lanes. Rows that fit a scratch
// partition, with small paddings, are padded in scratch memory (ModePadInScratch). Otherwise padded rows are staged
// through a per-lane workspace buffer and split in tiles of elements (ModePadStaged). Rows without any padding are
// never staged: if they don't fit a partition they are copied in tiles of elements.
package pad

import (
	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/shapeinference"
	"github.com/gomlx/optiling/tiling"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/gomlx/optiling/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Mirror selects how the edge is handled.
type Mirror int

//go:generate go tool enumer -type=Mirror -trimprefix=Mirror -output=gen_mirror_enumer.go pad.go

const (
	// MirrorReflect doesn't repeat the edge element: [1 2 3] padded by 2 on both sides is [3 2 1 2 3 2 1].
	MirrorReflect Mirror = iota

	// MirrorSymmetric repeats the edge element: [1 2 3] padded by 2 on both sides is [2 1 1 2 3 3 2].
	MirrorSymmetric
)

const (
	// ScratchReserveBytes is the scratch memory kept for the kernel's own bookkeeping.
	ScratchReserveBytes = 32 * 1024

	// ScratchParts is the number of partitions of the scratch memory.
	ScratchParts = 5

	// PartAlignBytes is the alignment of a scratch partition.
	PartAlignBytes = 256

	// MaxRank of the input.
	MaxRank = 3
)

// Params of a mirror padding.
type Params struct {
	Input       shapes.Shape
	Left, Right int
	Mirror      Mirror
}

// Plan of a mirror padding. Lanes distributes the rows (the axes before the last).
//
// For ModePadInScratch, Tiles splits the rows of each lane, except for unpadded rows that don't fit a partition.
// For those, and for ModePadStaged, Tiles splits the elements of each row, the same for every lane.
type Plan struct {
	tiling.Plan

	// Output shape of the padding.
	Output shapes.Shape

	Mirror Mirror

	// Width of the input rows, and the padding on each side.
	Width, Left, Right int64

	// PartElems is the number of elements of one scratch partition.
	PartElems int64
}

// partElems returns the number of elements of elemBytes that fit one scratch partition.
func partElems(scratchBytes, elemBytes int64) int64 {
	part := (scratchBytes - ScratchReserveBytes) / ScratchParts
	if part <= 0 {
		return 0
	}
	return tiling.AlignDown(part, PartAlignBytes) / elemBytes
}

// Strategy returns the pipeline strategy of a mirror padding with left and right elements of padding.
func Strategy(left, right int64) tiling.Strategy {
	split := tiling.SplitOptions{Buffers: ScratchParts, FixedBytes: ScratchReserveBytes}
	return tiling.Strategy{
		Name:    "Pad",
		MaxRank: MaxRank,
		Selector: tiling.Selector[tiling.Facts]{
			Name: "pad",
			Rules: []tiling.Rule[tiling.Facts]{
				{
					Name: "staged",
					When: func(f tiling.Facts) bool {
						elems := tiling.AlignDown(f.ScratchPerBuffer, PartAlignBytes) / f.ElemBytes
						return left+right > 0 && (left+right > elems/2 || f.RowElems > elems)
					},
					Mode: tiling.ModePadStaged,
				},
			},
			Fallback: tiling.ModePadInScratch,
		},
		DefaultTiles: tiling.TileRule{
			SplitOptions: split,
			InnerIf:      func(f tiling.Facts) bool { return f.AlignedRowBytes > f.ScratchPerBuffer },
		},
		Tiles: map[tiling.Mode]tiling.TileRule{
			tiling.ModePadStaged: {SplitOptions: split, Inner: true},
		},
		Workspace: tiling.WorkspaceTable{
			tiling.ModePadStaged: func(args tiling.WorkspaceArgs) (perLane, shared int64) {
				rowsBytes := args.Facts.RowBytes * args.Lanes.FormerExtent
				return tiling.AlignUp(rowsBytes, args.Facts.Budget.BlockBytes), 0
			},
		},
	}
}

// NewPlan plans the mirror padding on the given budget.
func NewPlan(params Params, budget platform.Budget) (Plan, error) {
	plan, err := newPlan(params, budget)
	if err != nil {
		return Plan{}, err
	}
	if klog.V(1).Enabled() {
		klog.Infof("Pad: %s, %s padding (%d, %d) of rows of %d", plan.Plan, plan.Mirror, plan.Left, plan.Right,
			plan.Width)
	}
	return plan, nil
}

func newPlan(params Params, budget platform.Budget) (plan Plan, err error) {
	if !params.Mirror.IsAMirror() {
		err = errors.WithMessagef(planerrors.UnsupportedModef("mirror mode %s", params.Mirror),
			"Pad: failed at stage %s", tiling.StageStart)
		return
	}
	plan.Output, err = shapeinference.MirrorPadOp(params.Input, -1, params.Left, params.Right,
		params.Mirror == MirrorSymmetric)
	if err != nil {
		err = errors.WithMessagef(err, "Pad: failed at stage %s", tiling.StageShapeNormalized)
		return
	}
	plan.Mirror = params.Mirror
	plan.Width = int64(params.Input.Dim(-1))
	plan.Left, plan.Right = int64(params.Left), int64(params.Right)
	plan.PartElems = partElems(budget.ScratchBytes, params.Input.ElemBytes())
	if plan.PartElems <= 0 && !plan.Output.IsEmpty() {
		err = errors.WithMessagef(
			planerrors.BudgetTooSmallf("scratch of %d bytes has no room for %d partitions after %d bytes reserved",
				budget.ScratchBytes, ScratchParts, ScratchReserveBytes),
			"Pad: failed at stage %s", tiling.StageStart)
		return
	}
	plan.Plan, err = tiling.NewPlan(tiling.Request{
		Input:     params.Input,
		Output:    plan.Output,
		SplitAxis: shapes.SplitLast,
	}, budget, Strategy(plan.Left, plan.Right))
	return
}
