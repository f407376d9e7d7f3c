// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/gomlx/optiling/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Stage of the planning pipeline. Planning walks the stages in order, and fails at the first error: there are no
// retries and no partial plans. Errors report the stage that failed.
type Stage int

//go:generate go tool enumer -type=Stage -trimprefix=Stage -output=gen_stage_enumer.go pipeline.go

const (
	StageStart Stage = iota
	StageShapeNormalized
	StageLaneAssigned
	StageModeSelected
	StageTileSplit
	StageWorkspacePlanned
	StageDone
)

// Traits of an operator request that the mode selection depends on, beyond its shape.
type Traits struct {
	// LastStride is the read stride of the innermost axis, in elements. 0 or 1 means contiguous.
	LastStride int64

	// Transposed is set when the innermost axis of the output is not the innermost axis of the input.
	Transposed bool
}

// Request to plan the tiling of one operator invocation.
type Request struct {
	// Input shape, and Output shape if the operator changes the split axis dimension. If Output is not set, it's
	// assumed to be the same as Input.
	Input, Output shapes.Shape

	// SplitAxis used to normalize the shapes, see shapes.Normalize.
	SplitAxis int

	// DistributeAxis distributes Prefix*AxisExtent rows of Suffix elements among lanes. Otherwise (the default)
	// Prefix rows of AxisExtent*Suffix elements are distributed.
	DistributeAxis bool

	Traits Traits
}

// Facts are what the mode selection rules of a Strategy are evaluated on.
type Facts struct {
	Shape     shapes.Normalized
	ElemBytes int64
	Budget    platform.Budget
	Traits    Traits

	// Units is the number of rows distributed among the lanes, RowElems the number of elements of each row.
	Units, RowElems int64

	// RowBytes is the size of one row, AlignedRowBytes the same rounded up to the block size.
	RowBytes, AlignedRowBytes int64

	// BlockElems is the number of elements in one transfer block.
	BlockElems int64

	// Lanes is the distribution of the rows.
	Lanes LaneDistribution

	// ScratchPerBuffer is the scratch memory available for each buffer, with the strategy's default tile rule.
	ScratchPerBuffer int64
}

// TileRule configures the TileSplitter stage for a mode.
type TileRule struct {
	SplitOptions

	// Inner splits the elements of each row, instead of the rows of a lane. Used when a row doesn't fit scratch.
	Inner bool

	// InnerIf, if set, makes the split Inner for the facts it returns true for.
	InnerIf func(facts Facts) bool

	// RowBytes, if set, returns the bytes one row takes in scratch memory. Defaults to Facts.AlignedRowBytes.
	RowBytes func(facts Facts) int64
}

// Strategy of an operator family: everything the generic pipeline needs to plan it.
type Strategy struct {
	Name string

	// MaxRank is the maximum rank supported. It can't be larger than shapes.MaxRank.
	MaxRank int

	Selector Selector[Facts]

	// Tiles maps modes to their TileRule. Modes not listed use DefaultTiles.
	Tiles        map[Mode]TileRule
	DefaultTiles TileRule

	Workspace WorkspaceTable
}

func (s Strategy) tileRule(mode Mode) TileRule {
	if rule, found := s.Tiles[mode]; found {
		return rule
	}
	return s.DefaultTiles
}

// NewPlan plans the tiling of the request on the given budget, using the operator family's strategy.
//
// Errors are wrapped with the stage they happened in, and always carry one of the planerrors kinds.
func NewPlan(req Request, budget platform.Budget, strategy Strategy) (Plan, error) {
	stage := StageStart
	plan, err := newPlan(req, budget, strategy, &stage)
	if err != nil {
		return Plan{}, errors.WithMessagef(err, "%s: failed at stage %s", strategy.Name, stage)
	}
	if klog.V(1).Enabled() {
		klog.Infof("%s: %s", strategy.Name, plan)
	}
	return plan, nil
}

func newPlan(req Request, budget platform.Budget, strategy Strategy, stage *Stage) (plan Plan, err error) {
	if err = budget.Validate(); err != nil {
		return
	}
	output := req.Output
	if output.DType == dtypes.InvalidDType && output.Dimensions == nil {
		output = req.Input
	}
	maxRank := min(strategy.MaxRank, shapes.MaxRank)
	if maxRank <= 0 {
		maxRank = shapes.MaxRank
	}
	if req.Input.Rank() > maxRank {
		err = planerrors.DimensionLimitf("rank %d of %s larger than the maximum %d", req.Input.Rank(), req.Input, maxRank)
		return
	}
	*stage = StageShapeNormalized
	normalized, err := shapes.NormalizeTransformed(req.Input, output, req.SplitAxis)
	if err != nil {
		return
	}
	elemBytes := req.Input.ElemBytes()
	plan.DType = req.Input.DType
	plan.Shape = normalized
	if normalized.IsEmpty() || output.IsEmpty() {
		return EmptyPlan(plan, budget), nil
	}

	facts := Facts{
		Shape:     normalized,
		ElemBytes: elemBytes,
		Budget:    budget,
		Traits:    req.Traits,
	}
	if req.DistributeAxis {
		facts.Units, facts.RowElems = normalized.Prefix*normalized.AxisExtent, normalized.Suffix
	} else {
		facts.Units, facts.RowElems = normalized.Prefix, normalized.AxisExtent*normalized.Suffix
	}
	if facts.BlockElems, err = BlockElementCount(elemBytes, budget.BlockBytes); err != nil {
		return
	}
	facts.RowBytes = facts.RowElems * elemBytes
	facts.AlignedRowBytes = AlignUp(facts.RowBytes, budget.BlockBytes)
	defaults := strategy.DefaultTiles
	facts.ScratchPerBuffer = (budget.ScratchBytes - defaults.FixedBytes) / max(defaults.Buffers, 1)

	*stage = StageLaneAssigned
	facts.Lanes, err = AssignLanes(facts.Units, budget.LaneCount, facts.RowElems, elemBytes, budget.BlockBytes)
	if err != nil {
		return
	}
	plan.Lanes = facts.Lanes

	*stage = StageModeSelected
	plan.Mode, err = strategy.Selector.Select(facts)
	if err != nil {
		return
	}

	*stage = StageTileSplit
	rule := strategy.tileRule(plan.Mode)
	if rule.Inner || (rule.InnerIf != nil && rule.InnerIf(facts)) {
		// Each row is split in tiles of elements, the same for every lane. Tiles start on a block boundary.
		opts := rule.SplitOptions
		if opts.AlignRows == 0 {
			opts.AlignRows = facts.BlockElems
		}
		plan.Tiles, err = SplitTiles(facts.RowElems, elemBytes, budget.ScratchBytes, opts)
		plan.TailTiles = plan.Tiles
	} else {
		rowBytes := facts.AlignedRowBytes
		if rule.RowBytes != nil {
			rowBytes = rule.RowBytes(facts)
		}
		plan.Tiles, err = SplitTiles(facts.Lanes.FormerExtent, rowBytes, budget.ScratchBytes, rule.SplitOptions)
		if err == nil && facts.Lanes.TailCount > 0 {
			plan.TailTiles, err = SplitTiles(facts.Lanes.TailExtent, rowBytes, budget.ScratchBytes, rule.SplitOptions)
		}
	}
	if err != nil {
		return
	}

	*stage = StageWorkspacePlanned
	plan.Workspace, err = PlanWorkspace(strategy.Workspace, WorkspaceArgs{
		Mode:      plan.Mode,
		ElemBytes: elemBytes,
		Lanes:     plan.Lanes,
		Tiles:     plan.Tiles,
		TailTiles: plan.TailTiles,
		Facts:     facts,
	}, budget)
	if err != nil {
		return
	}
	*stage = StageDone
	return
}

// EmptyPlan fills the plan of a tensor with no elements: ModeEmpty, a single lane that does nothing, and only the
// system workspace reservation.
func EmptyPlan(plan Plan, budget platform.Budget) Plan {
	plan.Mode = ModeEmpty
	plan.Lanes = LaneDistribution{FormerCount: 1}
	plan.Tiles = TileSpec{TileCount: 1}
	plan.Workspace = Workspace{
		TotalBytes:  budget.SystemWorkspaceBytes,
		SystemBytes: budget.SystemWorkspaceBytes,
		LanesUsed:   1,
	}
	return plan
}
