// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

import (
	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/types/shapes"
)

// CopyDoubleBuffers is the number of scratch buffers of the copy family: input and output, double-buffered.
const CopyDoubleBuffers = 2

// indexBytes is the size of the int64 gather index kept per row.
const indexBytes = 8

// CopyStrategy returns the Strategy of the data-movement (copy) family of operators: elementwise copies, casts,
// strided reads and transpositions of the innermost axis.
//
// Modes, in order of preference:
//
//   - ModeTransposeStaged: a transposed innermost axis, staged through scratch one block of rows at a time.
//   - ModeStridedGather: a strided innermost axis whose source row still fits scratch.
//   - ModeSmallInnerAligned: rows that are a whole number of blocks.
//   - ModeSmallInnerUnaligned: rows padded to the block size in scratch.
//   - ModeLargeInner: the catch-all, where each row is itself split in tiles.
func CopyStrategy() Strategy {
	defaults := TileRule{SplitOptions: SplitOptions{Buffers: CopyDoubleBuffers}}
	return Strategy{
		Name:    "copy",
		MaxRank: shapes.MaxRank,
		Selector: Selector[Facts]{
			Name: "copy",
			Rules: []Rule[Facts]{
				{
					Name: "transpose-staged",
					When: func(f Facts) bool {
						return f.Traits.Transposed && f.AlignedRowBytes*f.BlockElems <= f.ScratchPerBuffer
					},
					Mode: ModeTransposeStaged,
				},
				{
					Name: "strided-gather",
					When: func(f Facts) bool {
						return f.Traits.LastStride > 1 && gatherRowBytes(f) <= f.ScratchPerBuffer
					},
					Mode: ModeStridedGather,
				},
				{
					Name: "small-inner-aligned",
					When: func(f Facts) bool {
						return f.Traits.LastStride <= 1 && !f.Traits.Transposed &&
							f.RowBytes%f.Budget.BlockBytes == 0 && f.RowBytes <= f.ScratchPerBuffer
					},
					Mode: ModeSmallInnerAligned,
				},
				{
					Name: "small-inner-unaligned",
					When: func(f Facts) bool {
						return f.Traits.LastStride <= 1 && !f.Traits.Transposed && f.AlignedRowBytes <= f.ScratchPerBuffer
					},
					Mode: ModeSmallInnerUnaligned,
				},
			},
			Fallback: ModeLargeInner,
		},
		DefaultTiles: defaults,
		Tiles: map[Mode]TileRule{
			ModeTransposeStaged: {
				SplitOptions: defaults.SplitOptions,
				RowBytes:     func(f Facts) int64 { return f.AlignedRowBytes },
			},
			ModeStridedGather: {
				SplitOptions: defaults.SplitOptions,
				RowBytes:     gatherRowBytes,
			},
			ModeLargeInner: {
				SplitOptions: defaults.SplitOptions,
				Inner:        true,
			},
		},
		Workspace: WorkspaceTable{
			ModeTransposeStaged: func(args WorkspaceArgs) (perLane, shared int64) {
				return args.Facts.AlignedRowBytes * args.Facts.BlockElems, 0
			},
			ModeStridedGather: func(args WorkspaceArgs) (perLane, shared int64) {
				return args.MaxTileExtent() * indexBytes, 0
			},
		},
	}
}

// gatherRowBytes is the scratch needed to read one strided row: the source span, block aligned.
func gatherRowBytes(f Facts) int64 {
	return AlignUp(f.RowBytes*max(f.Traits.LastStride, 1), f.Budget.BlockBytes)
}

// PlanCopy plans a copy-family operator on the given shape, split axis and traits.
func PlanCopy(shape shapes.Shape, splitAxis int, traits Traits, budget platform.Budget) (Plan, error) {
	return NewPlan(Request{Input: shape, SplitAxis: splitAxis, Traits: traits}, budget, CopyStrategy())
}
