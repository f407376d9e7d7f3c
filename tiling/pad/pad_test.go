// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pad

import (
	"fmt"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/tiling"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/gomlx/optiling/types/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	F16 = dtypes.Float16
	F32 = dtypes.Float32
)

func regBase() platform.Budget {
	return must.M1(platform.Parse(platform.NPURegBase))
}

func TestMirror(t *testing.T) {
	assert.Equal(t, "Reflect", MirrorReflect.String())
	assert.Equal(t, MirrorSymmetric, must.M1(MirrorString("symmetric")))
	assert.False(t, Mirror(7).IsAMirror())
}

func TestNewPlan(t *testing.T) {
	budget := regBase()

	t.Run("in scratch", func(t *testing.T) {
		plan, err := NewPlan(Params{Input: shapes.Make(F32, 64, 100), Left: 2, Right: 3}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModePadInScratch, plan.Mode)
		assert.Equal(t, int64(4000), plan.Mode.Key())
		assert.Equal(t, []int{64, 105}, plan.Output.Dimensions)
		assert.Equal(t, shapes.Normalized{Prefix: 64, AxisExtent: 105, Suffix: 1}, plan.Shape)
		assert.Equal(t, int64(11008), plan.PartElems)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 64, FormerExtent: 1, TailExtent: 1}, plan.Lanes)
		assert.Equal(t, tiling.TileSpec{TileCount: 1, RegularTileExtent: 1, LastTileExtent: 1}, plan.Tiles)
		assert.Equal(t, budget.SystemWorkspaceBytes, plan.WorkspaceBytes())
	})

	t.Run("in scratch with many rows", func(t *testing.T) {
		plan, err := NewPlan(Params{Input: shapes.Make(F16, 10_000, 1000), Left: 10, Right: 10}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModePadInScratch, plan.Mode)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 16, FormerExtent: 157, TailCount: 48, TailExtent: 156},
			plan.Lanes)
		assert.Equal(t, tiling.TileSpec{TileCount: 8, RegularTileExtent: 20, LastTileExtent: 17}, plan.Tiles)
		assert.Equal(t, tiling.TileSpec{TileCount: 8, RegularTileExtent: 20, LastTileExtent: 16}, plan.TailTiles)
	})

	t.Run("staged wide rows", func(t *testing.T) {
		plan, err := NewPlan(Params{Input: shapes.Make(F32, 4, 20_000), Left: 6000, Right: 6000}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModePadStaged, plan.Mode)
		assert.Equal(t, []int{4, 32_000}, plan.Output.Dimensions)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 4, FormerExtent: 1, TailExtent: 1}, plan.Lanes)
		assert.Equal(t, tiling.TileSpec{TileCount: 3, RegularTileExtent: 10672, LastTileExtent: 10656}, plan.Tiles)
		assert.Equal(t, int64(128_000), plan.Workspace.PerLaneBytes)
		assert.Equal(t, budget.SystemWorkspaceBytes+4*128_000, plan.WorkspaceBytes())
		assert.Equal(t, budget.SystemWorkspaceBytes+2*128_000, plan.AuxOffset(2))
	})

	t.Run("staged large padding", func(t *testing.T) {
		plan, err := NewPlan(Params{Input: shapes.Make(F32, 2, 3000), Left: 3000, Right: 3000,
			Mirror: MirrorSymmetric}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModePadStaged, plan.Mode)
		assert.Equal(t, []int{2, 9000}, plan.Output.Dimensions)
		assert.Equal(t, tiling.TileSpec{TileCount: 1, RegularTileExtent: 9000, LastTileExtent: 9000}, plan.Tiles)
		assert.Equal(t, budget.SystemWorkspaceBytes+72_000, plan.WorkspaceBytes())
	})

	t.Run("unpadded wide rows", func(t *testing.T) {
		plan, err := NewPlan(Params{Input: shapes.Make(F32, 2, 50_000)}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModePadInScratch, plan.Mode)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 2, FormerExtent: 1, TailExtent: 1}, plan.Lanes)
		assert.Equal(t, tiling.TileSpec{TileCount: 5, RegularTileExtent: 10_000, LastTileExtent: 10_000}, plan.Tiles)
		assert.Equal(t, budget.SystemWorkspaceBytes, plan.WorkspaceBytes())
	})

	t.Run("empty", func(t *testing.T) {
		plan, err := NewPlan(Params{Input: shapes.Make(F32, 0, 5), Left: 1, Right: 1}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeEmpty, plan.Mode)
		assert.Equal(t, budget.SystemWorkspaceBytes, plan.WorkspaceBytes())
	})
}

func TestNewPlanErrors(t *testing.T) {
	budget := regBase()
	_, err := NewPlan(Params{Input: shapes.Make(F32, 4, 3), Left: 3}, budget)
	require.ErrorIs(t, err, planerrors.ErrShape)
	assert.Contains(t, err.Error(), "Pad: failed at stage ShapeNormalized")

	// Symmetric padding can repeat the whole row.
	_, err = NewPlan(Params{Input: shapes.Make(F32, 4, 3), Left: 3, Mirror: MirrorSymmetric}, budget)
	require.NoError(t, err)

	_, err = NewPlan(Params{Input: shapes.Make(F32)}, budget)
	require.ErrorIs(t, err, planerrors.ErrShape)

	_, err = NewPlan(Params{Input: shapes.Make(F32, 4, 3), Mirror: Mirror(7)}, budget)
	require.ErrorIs(t, err, planerrors.ErrUnsupportedMode)

	_, err = NewPlan(Params{Input: shapes.Make(F32, 4, 3), Left: 1}, budget.WithScratch(ScratchReserveBytes+100))
	require.ErrorIs(t, err, planerrors.ErrBudgetTooSmall)

	_, err = NewPlan(Params{Input: shapes.Make(F32, 1, 1, 1, 1, 1, 1, 1, 1, 3), Left: 1}, budget)
	require.ErrorIs(t, err, planerrors.ErrDimensionLimit)
	_, err = NewPlan(Params{Input: shapes.Make(F32, 2, 2, 2, 3), Left: 1}, budget)
	require.ErrorIs(t, err, planerrors.ErrDimensionLimit)

	_, err = NewPlan(Params{Input: shapes.Make(F32, 4, 3), Left: 1}, budget.WithLanes(0))
	require.ErrorIs(t, err, planerrors.ErrCoreCount)
}

func TestPlanInvariants(t *testing.T) {
	for _, budget := range []platform.Budget{regBase(), regBase().WithLanes(5), platform.NewWithConfig(platform.NPU)} {
		for _, dims := range [][]int{{7}, {3, 2}, {100, 33}, {8, 4096}, {2, 3, 50_000}, {1000, 17}, {64, 64, 64}} {
			for _, pad := range []int{0, 1, 5, 4000, 40_000} {
				for _, mirror := range MirrorValues() {
					width := dims[len(dims)-1]
					limit := width - 1
					if mirror == MirrorSymmetric {
						limit = width
					}
					left, right := min(pad, limit), min(pad/2, limit)
					input := shapes.Make(F32, dims...)
					name := fmt.Sprintf("%s/%s/%s/pad=(%d, %d)", budget.Name, input, mirror, left, right)
					plan, err := NewPlan(Params{Input: input, Left: left, Right: right, Mirror: mirror}, budget)
					require.NoError(t, err, name)

					rows := input.Size() / int64(width)
					outWidth := int64(width + left + right)
					assert.LessOrEqual(t, plan.LanesUsed(), budget.LaneCount, name)
					assert.Equal(t, rows, plan.Lanes.Total(), name)
					assert.Equal(t, shapes.Normalized{Prefix: rows, AxisExtent: outWidth, Suffix: 1}, plan.Shape, name)
					switch plan.Mode {
					case tiling.ModePadInScratch:
						if outWidth <= plan.PartElems {
							assert.Equal(t, plan.Lanes.FormerExtent, plan.Tiles.Total(), name)
						} else {
							// Only rows without padding are copied in tiles of elements.
							assert.Zero(t, left+right, name)
							assert.Equal(t, outWidth, plan.Tiles.Total(), name)
						}
						assert.Equal(t, budget.SystemWorkspaceBytes, plan.WorkspaceBytes(), name)
					case tiling.ModePadStaged:
						assert.Positive(t, left+right, name)
						assert.Equal(t, outWidth, plan.Tiles.Total(), name)
						if plan.Tiles.TileCount > 1 {
							assert.Zero(t, plan.Tiles.RegularTileExtent*4%budget.BlockBytes, name)
						}
						assert.GreaterOrEqual(t, plan.Workspace.PerLaneBytes, outWidth*4*plan.Lanes.FormerExtent, name)
						for lane := range plan.LanesUsed() - 1 {
							assert.Equal(t, plan.Workspace.PerLaneBytes, plan.AuxOffset(lane+1)-plan.AuxOffset(lane), name)
						}
					default:
						t.Errorf("%s: unexpected mode %s", name, plan.Mode)
					}
				}
			}
		}
	}
}
