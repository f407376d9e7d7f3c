// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

import (
	"fmt"
	"testing"

	"github.com/gomlx/optiling/types/planerrors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	assert.Equal(t, 4, CeilDiv(10, 3))
	assert.Equal(t, int64(0), CeilDiv[int64](0, 7))
	assert.Equal(t, 0, CeilDiv(10, 0))
	assert.Equal(t, int64(64), AlignUp[int64](33, 32))
	assert.Equal(t, int64(32), AlignUp[int64](32, 32))
	assert.Equal(t, uint32(32), AlignDown[uint32](63, 32))
	assert.Equal(t, 17, AlignDown(17, 0))

	blockElems, err := BlockElementCount(8, 32)
	require.NoError(t, err)
	assert.Equal(t, int64(4), blockElems)
	blockElems, err = BlockElementCount(64, 32)
	require.NoError(t, err)
	assert.Equal(t, int64(1), blockElems)
	_, err = BlockElementCount(0, 32)
	require.True(t, errors.Is(err, planerrors.ErrDivisionByZero))

	minUseful, err := MinUsefulPartition(6, 32)
	require.NoError(t, err)
	assert.Equal(t, int64(6), minUseful)
}

func checkDistribution(t *testing.T, d LaneDistribution, total int64, laneCount int) {
	msg := fmt.Sprintf("total=%d, laneCount=%d -> %+v", total, laneCount, d)
	require.Equal(t, total, d.Total(), msg)
	require.GreaterOrEqual(t, d.FormerExtent, d.TailExtent, msg)
	require.LessOrEqual(t, d.LanesUsed(), laneCount, msg)
	require.GreaterOrEqual(t, d.FormerCount, 1, msg)
	if d.TailCount > 0 {
		require.Equal(t, d.FormerExtent-1, d.TailExtent, msg)
	}
	// Lane offsets are contiguous and cover everything.
	var offset int64
	for lane := range d.LanesUsed() {
		require.Equal(t, offset, d.OffsetOf(lane), msg)
		offset += d.ExtentOf(lane)
	}
	require.Equal(t, total, offset, msg)
	require.Equal(t, total, d.OffsetOf(d.LanesUsed()), msg)
}

func TestAssignLanesReconstruction(t *testing.T) {
	for _, elemBytes := range []int64{1, 2, 4, 8} {
		for total := int64(0); total <= 300; total++ {
			for laneCount := 1; laneCount <= 48; laneCount++ {
				d, err := AssignLanes(total, laneCount, 3, elemBytes, 32)
				require.NoError(t, err)
				checkDistribution(t, d, total, laneCount)
			}
		}
	}
	for _, total := range []int64{1 << 20, 1<<31 + 7, 999_999_937} {
		for _, laneCount := range []int{1, 7, 40, 48, 64} {
			d, err := AssignLanes(total, laneCount, 1, 4, 32)
			require.NoError(t, err)
			require.Equal(t, total, d.Total())
			require.GreaterOrEqual(t, d.FormerExtent, d.TailExtent)
		}
	}
}

func TestAssignLanes(t *testing.T) {
	// 24 rows of 5 int64 on 40 lanes: one row per lane.
	d, err := AssignLanes(24, 40, 5, 8, 32)
	require.NoError(t, err)
	assert.Equal(t, 24, d.FormerCount)
	assert.Equal(t, int64(1), d.FormerExtent)
	assert.Equal(t, 0, d.TailCount)

	// 10000 units on 40 lanes divide evenly.
	d, err = AssignLanes(10000, 40, 1, 4, 32)
	require.NoError(t, err)
	assert.Equal(t, 40, d.FormerCount)
	assert.Equal(t, int64(250), d.FormerExtent)
	assert.Equal(t, 0, d.TailCount)

	// Rows of 1 float32: at least 8 per lane to fill a 32 bytes block.
	d, err = AssignLanes(20, 40, 1, 4, 32)
	require.NoError(t, err)
	assert.Equal(t, LaneDistribution{FormerCount: 2, FormerExtent: 10, TailCount: 0, TailExtent: 10}, d)
	assert.Equal(t, "2x10", d.String())

	d, err = AssignLanes(10, 4, 100, 4, 32)
	require.NoError(t, err)
	assert.Equal(t, LaneDistribution{FormerCount: 2, FormerExtent: 3, TailCount: 2, TailExtent: 2}, d)
	assert.Equal(t, "2x3+2x2", d.String())

	// A single lane.
	for _, total := range []int64{0, 1, 17, 1 << 40} {
		d, err = AssignLanes(total, 1, 1, 2, 32)
		require.NoError(t, err)
		assert.Equal(t, 1, d.FormerCount)
		assert.Equal(t, 0, d.TailCount)
		assert.Equal(t, total, d.FormerExtent)
	}

	_, err = AssignLanes(10, 0, 1, 4, 32)
	require.True(t, errors.Is(err, planerrors.ErrCoreCount))
	_, err = AssignLanes(10, -3, 1, 4, 32)
	require.True(t, errors.Is(err, planerrors.ErrCoreCount))
	_, err = AssignLanes(10, 4, 1, 0, 32)
	require.True(t, errors.Is(err, planerrors.ErrDivisionByZero))
	_, err = AssignLanes(-1, 4, 1, 4, 32)
	require.True(t, errors.Is(err, planerrors.ErrShape))
}

func TestChunkLanes(t *testing.T) {
	d, err := ChunkLanes(3000, 1024, 8)
	require.NoError(t, err)
	assert.Equal(t, LaneDistribution{FormerCount: 2, FormerExtent: 1024, TailCount: 1, TailExtent: 952}, d)

	d, err = ChunkLanes(100, 1024, 8)
	require.NoError(t, err)
	assert.Equal(t, LaneDistribution{FormerCount: 1, FormerExtent: 100}, d)

	// Not enough lanes for 1024 per lane: the chunk grows.
	d, err = ChunkLanes(10000, 1024, 4)
	require.NoError(t, err)
	assert.Equal(t, LaneDistribution{FormerCount: 4, FormerExtent: 2500}, d)

	for total := int64(0); total < 5000; total += 37 {
		for _, laneCount := range []int{1, 2, 3, 8, 40} {
			d, err = ChunkLanes(total, 128, laneCount)
			require.NoError(t, err)
			require.Equal(t, total, d.Total())
			require.LessOrEqual(t, d.LanesUsed(), laneCount)
			require.GreaterOrEqual(t, d.FormerExtent, d.TailExtent)
		}
	}

	_, err = ChunkLanes(10, 0, 4)
	require.True(t, errors.Is(err, planerrors.ErrDivisionByZero))
	_, err = ChunkLanes(10, 4, 0)
	require.True(t, errors.Is(err, planerrors.ErrCoreCount))
}
