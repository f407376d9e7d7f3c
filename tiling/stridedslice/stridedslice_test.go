// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package stridedslice

import (
	"fmt"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/tiling"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/gomlx/optiling/types/shapes"
	"github.com/google/go-cmp/cmp"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Aliases
var (
	F16 = dtypes.Float16
	F32 = dtypes.Float32
	I64 = dtypes.Int64

	MS = shapes.Make
)

// regBase is the register-based NPU budget with the given number of lanes.
func regBase(lanes int) platform.Budget {
	return must.M1(platform.Parse(fmt.Sprintf("%s:lanes=%d", platform.NPURegBase, lanes)))
}

func TestScenarioB(t *testing.T) {
	budget := must.M1(platform.Parse("npu-regbase:lanes=8,cacheline=32"))
	require.Equal(t, int64(253952), budget.ScratchBytes)
	plan, err := NewPlan(Params{Input: MS(F32, 1), Begin: []int{0}, End: []int{1}, Strides: []int{1}}, budget)
	require.NoError(t, err)
	assert.Equal(t, tiling.ModeSliceNDDMALastDim, plan.Mode)
	assert.Equal(t, int64(103), plan.Mode.Key())
	assert.Equal(t, 1, plan.LanesUsed())
	assert.Equal(t, int64(16_777_216), plan.WorkspaceBytes())
	assert.True(t, plan.AllInScratch)
	assert.Equal(t, []int64{0, 0, 0, 0, 1}, plan.NDDMA.Sizes)
	assert.Equal(t, int64(1), plan.NDDMA.TotalElems)
}

func TestNewPlan(t *testing.T) {
	budget := regBase(64)

	t.Run("move-align two dims", func(t *testing.T) {
		plan, err := NewPlan(Params{Input: MS(F32, 64, 1024), Begin: []int{0, 0}, End: []int{64, 512}}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeSliceMoveAlignTwoDim, plan.Mode)
		assert.Equal(t, []int64{64, 1024}, plan.Layout.Input)
		assert.Equal(t, []int64{64, 512}, plan.Layout.Output)
		assert.Equal(t, 0, plan.BlockAxis)
		assert.Equal(t, int64(1), plan.BlockFactor)
		assert.Equal(t, 0, plan.ScratchAxis)
		assert.Equal(t, int64(1), plan.ScratchFactor)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 64, FormerExtent: 1}, plan.Lanes)
		assert.Equal(t, MoveAlign{BlockCount: 1, BlockLen: 2048, SrcStride: 4096, DstStride: 2048, Loop1Size: 1,
			Loop2Size: 1}, plan.MoveAlign)
		assert.Equal(t, []int64{65536, 1024}, plan.InputSteps)
		assert.Equal(t, []int64{64, 1}, plan.RowsOffsetSteps)
		assert.Equal(t, int64(1024), plan.InLoopSteps)
		assert.Equal(t, int64(512), plan.OutLoopSteps)
		assert.Equal(t, budget.SystemWorkspaceBytes, plan.WorkspaceBytes())
	})

	t.Run("move-align three dims", func(t *testing.T) {
		plan, err := NewPlan(Params{
			Input:   MS(F16, 8, 16, 256),
			Begin:   []int{0, 0, 0},
			End:     []int{8, 16, 128},
			Strides: []int{2, 1, 1},
		}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeSliceMoveAlign, plan.Mode)
		assert.Equal(t, []int64{4, 16, 128}, plan.Layout.Output)
		assert.Equal(t, 1, plan.BlockAxis)
		assert.Equal(t, int64(4), plan.BlockFactor)
		assert.Equal(t, 1, plan.ScratchAxis)
		assert.Equal(t, int64(4), plan.ScratchFactor)
		assert.Equal(t, 16, plan.LanesUsed())
		assert.Equal(t, shapes.Normalized{Prefix: 4, AxisExtent: 16, Suffix: 128}, plan.Shape)
		assert.Equal(t, tiling.TileSpec{TileCount: 1, RegularTileExtent: 4, LastTileExtent: 4}, plan.Tiles)
		assert.Equal(t, int64(4), plan.MoveAlign.BlockCount)
		assert.Equal(t, int64(256), plan.MoveAlign.BlockLen)
		assert.Equal(t, int64(512), plan.MoveAlign.SrcStride)
		assert.Equal(t, int64(256), plan.MoveAlign.DstStride)
		assert.Equal(t, []int64{32768, 4096, 256}, plan.InputSteps)
		assert.Equal(t, []int64{64, 16, 1}, plan.RowsOffsetSteps)
		assert.Equal(t, int64(1024), plan.InLoopSteps)
		assert.Equal(t, int64(512), plan.OutLoopSteps)

		outer, start, extent := plan.BlockOf(5)
		assert.Equal(t, []int64{1, 4, 4}, []int64{outer, start, extent})
	})

	t.Run("block tails after full blocks", func(t *testing.T) {
		plan, err := NewPlan(Params{
			Input: MS(F32, 2, 6, 2048),
			Begin: []int{0, 0, 0},
			End:   []int{2, 5, 1024},
		}, regBase(8))
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeSliceMoveAlign, plan.Mode)
		assert.Equal(t, 1, plan.BlockAxis)
		assert.Equal(t, int64(2), plan.BlockFactor)
		assert.Equal(t, int64(1), plan.BlockTailFactor)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 4, FormerExtent: 2, TailCount: 2, TailExtent: 1},
			plan.Lanes)
		assert.Equal(t, tiling.TileSpec{TileCount: 1, RegularTileExtent: 2, LastTileExtent: 2}, plan.Tiles)
		assert.Equal(t, tiling.TileSpec{TileCount: 1, RegularTileExtent: 1, LastTileExtent: 1}, plan.TailTiles)

		want := [][3]int64{{0, 0, 2}, {0, 2, 2}, {1, 0, 2}, {1, 2, 2}, {0, 4, 1}, {1, 4, 1}}
		for lane, block := range want {
			outer, start, extent := plan.BlockOf(lane)
			assert.Equal(t, block, [3]int64{outer, start, extent}, "lane %d", lane)
			assert.Equal(t, plan.Lanes.ExtentOf(lane), extent, "lane %d", lane)
		}
		_, _, extent := plan.BlockOf(len(want))
		assert.Zero(t, extent)
	})

	t.Run("strided gather", func(t *testing.T) {
		plan, err := NewPlan(Params{
			Input:   MS(F32, 64, 4095),
			Begin:   []int{0, 0},
			End:     []int{64, 4095},
			Strides: []int{1, 4},
		}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeSliceMoveAlignGather, plan.Mode)
		assert.Equal(t, []int64{64, 1024}, plan.Layout.Output)
		assert.Equal(t, int64(24576), plan.ScratchBytes)
		assert.Equal(t, int64(98304), plan.ScratchInputBytes)
		assert.Equal(t, 64, plan.LanesUsed())
		assert.Equal(t, MoveAlign{BlockCount: 1, BlockLen: 16372, SrcStride: 16380, Loop1Size: 1, Loop2Size: 1},
			plan.MoveAlign)
		assert.Equal(t, int64(4095), plan.InLoopSteps)
		assert.Equal(t, int64(1024), plan.OutLoopSteps)
	})

	t.Run("reversed last axis", func(t *testing.T) {
		plan, err := NewPlan(Params{
			Input:     MS(F32, 32, 1024),
			Begin:     []int{0, 0},
			End:       []int{32, 0},
			Strides:   []int{1, -1},
			BeginMask: 0b10,
			EndMask:   0b10,
		}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeSliceMoveAlignGather, plan.Mode)
		assert.Equal(t, []int64{0, 1023}, plan.Layout.Begin)
		assert.Equal(t, []int64{32, -1}, plan.Layout.End)
		assert.Equal(t, 32, plan.LanesUsed())
		assert.Equal(t, int64(61440), plan.ScratchBytes)
		assert.Equal(t, int64(61440), plan.ScratchInputBytes)
		assert.Equal(t, MoveAlign{BlockCount: 1, BlockLen: 4096, SrcStride: 4096, Loop1Size: 1, Loop2Size: 1},
			plan.MoveAlign)
	})

	t.Run("small reversed slice", func(t *testing.T) {
		plan, err := NewPlan(Params{Input: MS(F32, 16), Begin: []int{-1}, End: []int{0}, Strides: []int{-1},
			EndMask: 1}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeSliceSIMT, plan.Mode)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 16, FormerExtent: 1, TailExtent: 1}, plan.Lanes)
		assert.Equal(t, budget.SystemWorkspaceBytes, plan.WorkspaceBytes())
	})

	t.Run("nddma", func(t *testing.T) {
		plan, err := NewPlan(Params{
			Input: MS(F32, 256, 64, 8),
			Begin: []int{0, 0, 0},
			End:   []int{256, 64, 4},
		}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeSliceNDDMA, plan.Mode)
		assert.Equal(t, []int64{16384, 8}, plan.Layout.Input)
		assert.Equal(t, []int64{16384, 4}, plan.Layout.Output)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 64, FormerExtent: 256}, plan.Lanes)
		assert.Equal(t, int64(256), plan.ScratchFactor)
		assert.Equal(t, NDDMALoops{
			Sizes:      []int64{0, 0, 0, 256, 4},
			SrcStrides: []int64{0, 0, 0, 8, 1},
			DstStrides: []int64{0, 0, 0, 4, 1},
			TotalElems: 1024,
		}, plan.NDDMA)
	})

	t.Run("stride split into SIMT", func(t *testing.T) {
		plan, err := NewPlan(Params{
			Input:   MS(F32, 64, 4096),
			Begin:   []int{0, 0},
			End:     []int{64, 4096},
			Strides: []int{1, 4},
		}, budget)
		require.NoError(t, err)
		assert.Equal(t, []int64{65536, 4}, plan.Layout.Input)
		assert.Equal(t, []int64{65536, 1}, plan.Layout.Output)
		assert.Equal(t, tiling.ModeSliceSIMT, plan.Mode)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 64, FormerExtent: 1024, TailExtent: 1024}, plan.Lanes)
	})

	t.Run("move-align overflow falls back to last axis", func(t *testing.T) {
		big := regBase(1).WithScratch(64 * 1024 * 1024)
		plan, err := NewPlan(Params{Input: MS(F32, 200_000, 32), Begin: []int{0, 0}, End: []int{200_000, 16}}, big)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeSliceMoveAlignLastDim, plan.Mode)
		assert.Equal(t, 1, plan.ScratchAxis)
		assert.Equal(t, int64(16), plan.ScratchFactor)
		assert.Equal(t, tiling.LaneDistribution{FormerCount: 1, FormerExtent: 200_000}, plan.Lanes)
		assert.Equal(t, tiling.TileSpec{TileCount: 1, RegularTileExtent: 16, LastTileExtent: 16}, plan.Tiles)
		assert.Equal(t, int64(16), plan.InLoopSteps)
	})

	t.Run("empty", func(t *testing.T) {
		plan, err := NewPlan(Params{Input: MS(I64, 10), Begin: []int{5}, End: []int{2}}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeEmpty, plan.Mode)
		assert.Equal(t, 1, plan.LanesUsed())
		assert.Equal(t, budget.SystemWorkspaceBytes, plan.WorkspaceBytes())

		plan, err = NewPlan(Params{Input: MS(I64, 0, 10)}, budget)
		require.NoError(t, err)
		assert.Equal(t, tiling.ModeEmpty, plan.Mode)
	})
}

func TestNewPlanErrors(t *testing.T) {
	budget := regBase(64)
	_, err := NewPlan(Params{Input: MS(F32, 4), Begin: []int{0}, End: []int{4}, Strides: []int{0}}, budget)
	require.ErrorIs(t, err, planerrors.ErrShape)
	assert.Contains(t, err.Error(), "StridedSlice: failed at stage ShapeNormalized")

	_, err = NewPlan(Params{Input: MS(F32, 1, 1, 1, 1, 1, 1, 1, 1, 1)}, budget)
	require.ErrorIs(t, err, planerrors.ErrDimensionLimit)

	_, err = NewPlan(Params{Input: MS(F32, 4)}, budget.WithLanes(0))
	require.ErrorIs(t, err, planerrors.ErrCoreCount)

	_, err = NewPlan(Params{Input: MS(F32, 64, 1024), Begin: []int{0, 0}, End: []int{64, 512}},
		budget.WithScratch(ScratchReserveBytes))
	require.ErrorIs(t, err, planerrors.ErrBudgetTooSmall)
	assert.Contains(t, err.Error(), "failed at stage TileSplit")
}

func TestFuseAxes(t *testing.T) {
	t.Run("full reverse", func(t *testing.T) {
		l := Layout{
			Input:   []int64{4, 8, 16},
			Output:  []int64{4, 8, 16},
			Begin:   []int64{3, 7, 15},
			End:     []int64{-1, -1, -1},
			Strides: []int64{-1, -1, -1},
		}
		want := Layout{
			Input:   []int64{512},
			Output:  []int64{512},
			Begin:   []int64{511},
			End:     []int64{-1},
			Strides: []int64{-1},
		}
		if diff := cmp.Diff(want, FuseAxes(l)); diff != "" {
			t.Errorf("FuseAxes() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("single reversed element", func(t *testing.T) {
		l := Layout{
			Input:   []int64{4, 8},
			Output:  []int64{4, 1},
			Begin:   []int64{0, 5},
			End:     []int64{4, 4},
			Strides: []int64{1, -1},
		}
		want := Layout{
			Input:   []int64{4, 8},
			Output:  []int64{4, 1},
			Begin:   []int64{0, 5},
			End:     []int64{4, 6},
			Strides: []int64{1, 1},
		}
		if diff := cmp.Diff(want, FuseAxes(l)); diff != "" {
			t.Errorf("FuseAxes() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("contiguous axes", func(t *testing.T) {
		l := Layout{
			Input:   []int64{10, 3, 4, 6},
			Output:  []int64{5, 3, 4, 2},
			Begin:   []int64{2, 0, 0, 1},
			End:     []int64{7, 3, 4, 6},
			Strides: []int64{1, 1, 1, 3},
		}
		want := Layout{
			Input:   []int64{120, 6},
			Output:  []int64{60, 2},
			Begin:   []int64{24, 1},
			End:     []int64{84, 6},
			Strides: []int64{1, 3},
		}
		if diff := cmp.Diff(want, FuseAxes(l)); diff != "" {
			t.Errorf("FuseAxes() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stride larger than range", func(t *testing.T) {
		l := Layout{Input: []int64{10}, Output: []int64{1}, Begin: []int64{2}, End: []int64{3}, Strides: []int64{5}}
		assert.Equal(t, []int64{1}, FuseAxes(l).Strides)
	})
}

func TestValidInCacheLine(t *testing.T) {
	// Long rows: counted over the first cache line of the last axis.
	l := Layout{Input: []int64{4095}, Output: []int64{1024}, Begin: []int64{0}, End: []int64{4095},
		Strides: []int64{4}}
	assert.Equal(t, int64(8), l.ValidInCacheLine(4, 128))

	// Short rows: walks the elements of the first cache line.
	l = Layout{Input: []int64{16384, 8}, Output: []int64{16384, 4}, Begin: []int64{0, 0}, End: []int64{16384, 4},
		Strides: []int64{1, 1}}
	assert.Equal(t, int64(16), l.ValidInCacheLine(4, 128))
}

func TestSelectors(t *testing.T) {
	for _, name := range []string{"move-align", "move-align-gather", "nddma", "nddma-small-or-big"} {
		assert.GreaterOrEqual(t, ForwardSelector.RuleNamed(name), 0, name)
	}
	assert.Equal(t, 0, ReverseSelector.RuleNamed("small"))

	f := Facts{ElemBytes: 4, CacheLineBytes: 128, LastStride: -2, LastOutput: 100, LastSpan: 199,
		ValidInCacheLine: 16, TotalElems: 10000, TotalBytes: 40000}
	assert.Equal(t, tiling.ModeSliceMoveAlignGather, must.M1(ReverseSelector.Select(f)))
	f.LastStride, f.LastSpan = -20, 1981
	assert.Equal(t, tiling.ModeSliceNDDMAGather, must.M1(ReverseSelector.Select(f)))
	f.LastStride, f.LastSpan = 1, 100
	assert.Equal(t, tiling.ModeSliceMoveAlignUB2UB, must.M1(ReverseSelector.Select(f)))
	f.LastStride, f.LastSpan = 20, 1981
	assert.Equal(t, tiling.ModeSliceNDDMAUB2UB, must.M1(ReverseSelector.Select(f)))
	f.LastOutput = 8
	assert.Equal(t, tiling.ModeSliceSIMT, must.M1(ReverseSelector.Select(f)))
}

// sliceGrid lists slices over a variety of ranks, strides and sizes.
func sliceGrid() []Params {
	var grid []Params
	for _, input := range []shapes.Shape{
		MS(F32, 7), MS(F16, 1000), MS(F32, 3, 300), MS(I64, 64, 33), MS(F32, 2, 3, 4, 5),
		MS(F16, 5, 1, 700), MS(F32, 2, 3, 2, 3, 2, 3), MS(dtypes.Int8, 17, 4096), MS(F32, 2, 6, 2048),
		MS(F16, 3, 7, 5, 512),
	} {
		rank := input.Rank()
		full := func() (begin, end, strides []int) {
			begin, end, strides = make([]int, rank), cloneInts(input.Dimensions), make([]int, rank)
			for i := range strides {
				strides[i] = 1
			}
			return
		}
		begin, end, strides := full()
		grid = append(grid, Params{Input: input, Begin: begin, End: end, Strides: strides})

		// Strided last axis.
		for _, stride := range []int{2, 3, 17} {
			begin, end, strides = full()
			strides[rank-1] = stride
			grid = append(grid, Params{Input: input, Begin: begin, End: end, Strides: strides})
		}

		// Reversed last axis and reversed first axis.
		for _, axis := range []int{0, rank - 1} {
			for _, stride := range []int{-1, -2} {
				begin, end, strides = full()
				strides[axis] = stride
				grid = append(grid, Params{Input: input, Begin: begin, End: end, Strides: strides,
					BeginMask: 1 << axis, EndMask: 1 << axis})
			}
		}

		// Cropped first axis.
		if input.Dimensions[0] > 2 {
			begin, end, strides = full()
			begin[0], end[0] = 1, input.Dimensions[0]-1
			grid = append(grid, Params{Input: input, Begin: begin, End: end, Strides: strides})
		}

		// Cropped inner axes, which leaves a block tail for every index of the outer axes.
		if rank >= 3 && input.Dimensions[rank-2] > 1 {
			begin, end, strides = full()
			end[rank-2], end[rank-1] = input.Dimensions[rank-2]-1, max(input.Dimensions[rank-1]/2, 1)
			grid = append(grid, Params{Input: input, Begin: begin, End: end, Strides: strides})
		}
	}
	return grid
}

func cloneInts(dims []int) []int {
	return append([]int(nil), dims...)
}

func TestPlanInvariants(t *testing.T) {
	validModes := map[tiling.Mode]bool{
		tiling.ModeEmpty: true, tiling.ModeSliceMoveAlign: true, tiling.ModeSliceMoveAlignLastDim: true,
		tiling.ModeSliceNDDMA: true, tiling.ModeSliceNDDMALastDim: true, tiling.ModeSliceMoveAlignTwoDim: true,
		tiling.ModeSliceSIMT: true, tiling.ModeSliceSIMTBigShape: true, tiling.ModeSliceMoveAlignGather: true,
		tiling.ModeSliceMoveAlignUB2UB: true, tiling.ModeSliceNDDMAGather: true, tiling.ModeSliceNDDMAUB2UB: true,
	}
	for _, budget := range []platform.Budget{regBase(64), regBase(8), regBase(1), platform.NewWithConfig(platform.NPU)} {
		for _, params := range sliceGrid() {
			name := fmt.Sprintf("%s/%s/begin=%v/end=%v/strides=%v", budget.Name, params.Input, params.Begin, params.End,
				params.Strides)
			plan, err := NewPlan(params, budget)
			require.NoError(t, err, name)
			assert.True(t, validModes[plan.Mode], "%s: mode %s", name, plan.Mode)
			assert.LessOrEqual(t, plan.LanesUsed(), budget.LaneCount, name)
			assert.GreaterOrEqual(t, plan.LanesUsed(), 1, name)
			assert.Equal(t, budget.SystemWorkspaceBytes, plan.WorkspaceBytes(), name)
			assert.Equal(t, plan.Shape.Prefix*plan.Shape.AxisExtent, plan.Lanes.Total(), name)
			assert.GreaterOrEqual(t, plan.Lanes.FormerExtent, plan.Lanes.TailExtent, name)

			switch {
			case plan.Mode == tiling.ModeSliceSIMT || plan.Mode == tiling.ModeSliceSIMTBigShape:
				assert.Equal(t, plan.Lanes.FormerExtent, plan.Tiles.Total(), name)
			case plan.ScratchAxis == plan.BlockAxis:
				assert.Equal(t, plan.BlockFactor, plan.Tiles.Total(), name)
				if plan.Lanes.TailCount > 0 {
					assert.Equal(t, plan.BlockTailFactor, plan.TailTiles.Total(), name)
				}
			default:
				assert.Greater(t, plan.ScratchAxis, plan.BlockAxis, name)
				assert.Equal(t, plan.Layout.Output[plan.ScratchAxis], plan.Tiles.Total(), name)
			}

			// Each lane's block agrees with its lane distribution, and the blocks cover the block axis exactly once.
			if plan.Mode != tiling.ModeSliceSIMT && plan.Mode != tiling.ModeSliceSIMTBigShape {
				var covered int64
				seen := make(map[[2]int64]bool)
				for lane := range plan.LanesUsed() {
					outer, start, extent := plan.BlockOf(lane)
					require.Equal(t, plan.Lanes.ExtentOf(lane), extent, "%s: lane %d", name, lane)
					key := [2]int64{outer, start}
					assert.False(t, seen[key], "%s: lane %d repeats block %v", name, lane, key)
					seen[key] = true
					covered += extent
				}
				assert.Equal(t, plan.Lanes.Total(), covered, name)
			}
		}
	}
}

func TestPlanDeterminism(t *testing.T) {
	budget := regBase(64)
	for _, params := range sliceGrid() {
		first := must.M1(NewPlan(params, budget))
		second := must.M1(NewPlan(params, budget))
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("NewPlan(%v) not deterministic (-first +second):\n%s", params, diff)
		}
	}
}
