// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

import (
	"fmt"

	"github.com/gomlx/optiling/types/planerrors"
)

// TileSpec describes how a lane's extent is split into sequential tiles that fit scratch memory: TileCount tiles,
// all of RegularTileExtent units except the last one, of LastTileExtent units.
//
// TileCount >= 1 and 0 < LastTileExtent <= RegularTileExtent, except for a zero extent, which is described by a
// single tile of 0 units.
type TileSpec struct {
	TileCount         int64
	RegularTileExtent int64
	LastTileExtent    int64
}

// Total number of units covered by the tiles.
func (t TileSpec) Total() int64 {
	if t.TileCount <= 0 {
		return 0
	}
	return (t.TileCount-1)*t.RegularTileExtent + t.LastTileExtent
}

// ExtentOf returns the extent of the given tile.
func (t TileSpec) ExtentOf(tile int64) int64 {
	switch {
	case tile < 0 || tile >= t.TileCount:
		return 0
	case tile == t.TileCount-1:
		return t.LastTileExtent
	}
	return t.RegularTileExtent
}

// String implements fmt.Stringer.
func (t TileSpec) String() string {
	if t.TileCount <= 1 || t.LastTileExtent == t.RegularTileExtent {
		return fmt.Sprintf("%dx%d", t.TileCount, t.RegularTileExtent)
	}
	return fmt.Sprintf("%dx%d+%d", t.TileCount-1, t.RegularTileExtent, t.LastTileExtent)
}

// TilesOf splits extent into tiles of factor units: the last tile takes the remainder.
// A non-positive factor (or a factor larger than extent) yields a single tile.
func TilesOf(extent, factor int64) TileSpec {
	if extent <= 0 {
		return TileSpec{TileCount: 1}
	}
	if factor <= 0 || factor >= extent {
		return TileSpec{TileCount: 1, RegularTileExtent: extent, LastTileExtent: extent}
	}
	count := CeilDiv(extent, factor)
	return TileSpec{TileCount: count, RegularTileExtent: factor, LastTileExtent: extent - (count-1)*factor}
}

// SplitOptions configures SplitTiles.
type SplitOptions struct {
	// Buffers is the number of buffers sharing the scratch memory (e.g. 2 for double buffering). Defaults to 1.
	Buffers int64

	// FixedBytes is reserved from scratch memory before dividing it among the buffers.
	FixedBytes int64

	// AlignRows, if > 1, makes the regular tile extent a multiple of AlignRows whenever it's at least AlignRows.
	// Inner splits (TileRule.Inner) default it to the number of elements in one transfer block.
	AlignRows int64
}

// SplitTiles splits a lane's extent of rows of rowBytes each into sequential tiles, such that each tile fits
// one buffer of the scratch memory.
//
// It returns ErrBudgetTooSmall if not even one row fits a buffer.
func SplitTiles(laneExtent, rowBytes, scratchBytes int64, opts SplitOptions) (TileSpec, error) {
	if rowBytes <= 0 {
		return TileSpec{}, planerrors.DivisionByZerof("SplitTiles: rowBytes=%d", rowBytes)
	}
	if laneExtent < 0 {
		return TileSpec{}, planerrors.Shapef("SplitTiles: negative lane extent %d", laneExtent)
	}
	buffers := max(opts.Buffers, 1)
	budget := (scratchBytes - opts.FixedBytes) / buffers
	if budget < rowBytes {
		return TileSpec{}, planerrors.BudgetTooSmallf(
			"SplitTiles: a row of %d bytes doesn't fit %d bytes of scratch (%d reserved, %d buffers)",
			rowBytes, scratchBytes, opts.FixedBytes, buffers)
	}
	if laneExtent == 0 {
		return TileSpec{TileCount: 1}, nil
	}

	maxRows := budget / rowBytes
	if opts.AlignRows > 1 && maxRows >= opts.AlignRows {
		maxRows = AlignDown(maxRows, opts.AlignRows)
	}
	if maxRows >= laneExtent {
		return TileSpec{TileCount: 1, RegularTileExtent: laneExtent, LastTileExtent: laneExtent}, nil
	}

	// Balance the tiles: the same number of tiles, but with the remainder spread.
	tileCount := CeilDiv(laneExtent, maxRows)
	regular := CeilDiv(laneExtent, tileCount)
	if opts.AlignRows > 1 && regular >= opts.AlignRows {
		regular = min(AlignUp(regular, opts.AlignRows), maxRows)
	}
	tileCount = CeilDiv(laneExtent, regular)
	last := laneExtent - (tileCount-1)*regular
	for last <= 0 && tileCount > 1 {
		tileCount--
		last = laneExtent - (tileCount-1)*regular
	}
	return TileSpec{TileCount: tileCount, RegularTileExtent: regular, LastTileExtent: last}, nil
}
