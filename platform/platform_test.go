// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package platform

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	budget, err := Parse("")
	require.NoError(t, err)
	require.Equal(t, NPU, budget.Name, "the first registered preset is the default")

	budget, err = Parse("npu-regbase:lanes=8, cacheline=32")
	require.NoError(t, err)
	assert.Equal(t, 8, budget.LaneCount)
	assert.Equal(t, int64(253952), budget.ScratchBytes)
	assert.Equal(t, int64(32), budget.CacheLineBytes)
	assert.Equal(t, int64(16777216), budget.SystemWorkspaceBytes)

	budget, err = Parse("npu:scratch=64KiB,workspace=1MiB,block=64,vector=128")
	require.NoError(t, err)
	assert.Equal(t, int64(65536), budget.ScratchBytes)
	assert.Equal(t, int64(1<<20), budget.SystemWorkspaceBytes)
	assert.Equal(t, int64(64), budget.BlockBytes)
	assert.Equal(t, int64(128), budget.VectorBytes)

	_, err = Parse("unknown")
	require.ErrorContains(t, err, "can't find platform")
	require.Equal(t, planerrors.KindCoreCount, planerrors.KindOf(err))
	_, err = Parse("npu:lanes")
	require.True(t, errors.Is(err, planerrors.ErrCoreCount))
	_, err = Parse("npu:colour=blue")
	require.ErrorContains(t, err, "unknown option")
	require.True(t, errors.Is(err, planerrors.ErrCoreCount))
	_, err = Parse("npu:lanes=many")
	require.ErrorContains(t, err, "invalid lanes")
	require.Equal(t, planerrors.KindCoreCount, planerrors.KindOf(err))
	_, err = Parse("npu:scratch=lots")
	require.True(t, errors.Is(err, planerrors.ErrCoreCount))
	_, err = Parse("npu:lanes=0")
	require.True(t, errors.Is(err, planerrors.ErrCoreCount))
	_, err = Parse("npu:block=0")
	require.True(t, errors.Is(err, planerrors.ErrDivisionByZero))
}

func TestNew(t *testing.T) {
	t.Setenv(OPTILING_PLATFORM, "npu:lanes=4")
	require.Equal(t, 4, New().LaneCount)

	err := exceptions.TryCatch[error](func() { NewWithConfig("npu:lanes=-1") })
	require.Error(t, err)
}

func TestHost(t *testing.T) {
	budget := Host()
	require.NoError(t, budget.Validate())
	require.Positive(t, budget.LaneCount)
	require.GreaterOrEqual(t, budget.CacheLineBytes, int64(32))
	require.Equal(t, budget.VectorBytes, budget.BlockBytes)
	require.Contains(t, List(), HostName)
}

func TestBudgetString(t *testing.T) {
	budget := NewWithConfig("npu-regbase")
	require.Equal(t,
		"npu-regbase: 64 lanes x 248 KiB scratch, block=32B, cache line=128B, vector=256B, system workspace=16 MiB",
		budget.String())
	require.Equal(t, 3, budget.WithLanes(3).LaneCount)
	require.Equal(t, 64, budget.LaneCount, "WithLanes must not modify the receiver")
	require.Equal(t, int64(100), budget.WithScratch(100).ScratchBytes)
}
