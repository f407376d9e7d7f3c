// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package platform describes the hardware budget a tiling is planned against: how many parallel lanes (cores)
// there are, how much fast scratch memory each lane has, and the alignment quanta of its memory transfers.
//
// Budgets are plain values. They can be built directly, or created from a named preset and an optional
// configuration string, the same way backends are selected elsewhere:
//
//	budget := platform.New()                                          // $OPTILING_PLATFORM, or the default.
//	budget := platform.NewWithConfig("npu-regbase:lanes=8,cacheline=32")
//	budget, err := platform.Parse("npu:scratch=192KiB")
//
// The planner never queries hardware itself: whatever produced the Budget is the platform query boundary.
package platform

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/optiling/types/planerrors"
)

// Budget is the hardware budget used to plan a tiling.
type Budget struct {
	// Name of the preset the budget was created from, if any. Informative only.
	Name string

	// LaneCount is the number of parallel lanes (cores) available.
	LaneCount int

	// ScratchBytes is the size of the fast scratch memory of each lane.
	ScratchBytes int64

	// BlockBytes is the memory-transfer alignment quantum.
	BlockBytes int64

	// CacheLineBytes is the size of a cache line, used to judge the efficiency of strided reads.
	CacheLineBytes int64

	// VectorBytes is the width of one vector instruction.
	VectorBytes int64

	// SystemWorkspaceBytes is the fixed reservation every workspace includes.
	SystemWorkspaceBytes int64
}

// Validate returns an error if the budget can't be used for planning.
func (b Budget) Validate() error {
	if b.LaneCount <= 0 {
		return planerrors.CoreCountf("platform %q has %d lanes", b.Name, b.LaneCount)
	}
	if b.ScratchBytes <= 0 {
		return planerrors.BudgetTooSmallf("platform %q has %d bytes of scratch memory", b.Name, b.ScratchBytes)
	}
	if b.BlockBytes <= 0 || b.CacheLineBytes <= 0 || b.VectorBytes <= 0 {
		return planerrors.DivisionByZerof("platform %q has a non-positive alignment quantum (block=%d, cache line=%d, vector=%d)",
			b.Name, b.BlockBytes, b.CacheLineBytes, b.VectorBytes)
	}
	if b.SystemWorkspaceBytes < 0 {
		return planerrors.BudgetTooSmallf("platform %q has a negative system workspace (%d)", b.Name, b.SystemWorkspaceBytes)
	}
	return nil
}

// WithLanes returns a copy of the budget with a different lane count.
func (b Budget) WithLanes(laneCount int) Budget {
	b.LaneCount = laneCount
	return b
}

// WithScratch returns a copy of the budget with a different scratch size.
func (b Budget) WithScratch(scratchBytes int64) Budget {
	b.ScratchBytes = scratchBytes
	return b
}

// String implements fmt.Stringer.
func (b Budget) String() string {
	name := b.Name
	if name == "" {
		name = "custom"
	}
	return fmt.Sprintf("%s: %d lanes x %s scratch, block=%dB, cache line=%dB, vector=%dB, system workspace=%s",
		name, b.LaneCount, humanize.IBytes(uint64(max(b.ScratchBytes, 0))), b.BlockBytes, b.CacheLineBytes,
		b.VectorBytes, humanize.IBytes(uint64(max(b.SystemWorkspaceBytes, 0))))
}
