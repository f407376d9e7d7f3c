// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

import (
	"github.com/gomlx/optiling/platform"
	"github.com/gomlx/optiling/types/planerrors"
)

// WorkspaceArgs are the inputs of a WorkspaceRule.
type WorkspaceArgs struct {
	Mode      Mode
	ElemBytes int64
	Lanes     LaneDistribution
	Tiles     TileSpec
	TailTiles TileSpec
	Facts     Facts
}

// MaxTileExtent is the largest tile any lane processes.
func (a WorkspaceArgs) MaxTileExtent() int64 {
	return max(a.Tiles.RegularTileExtent, a.Tiles.LastTileExtent, a.TailTiles.RegularTileExtent, a.TailTiles.LastTileExtent)
}

// WorkspaceRule returns the auxiliary workspace a mode needs: perLane bytes for each lane used, plus shared bytes
// used by all lanes.
type WorkspaceRule func(args WorkspaceArgs) (perLane, shared int64)

// WorkspaceTable maps modes to their WorkspaceRule. Modes not in the table need no auxiliary workspace.
type WorkspaceTable map[Mode]WorkspaceRule

// Workspace is the planned global workspace.
type Workspace struct {
	// TotalBytes = SystemBytes + SharedBytes + PerLaneBytes * LanesUsed.
	TotalBytes   int64
	SystemBytes  int64
	SharedBytes  int64
	PerLaneBytes int64
	LanesUsed    int
}

// AuxOffset returns the offset, in bytes, of the given lane's auxiliary buffer in the workspace. The per-lane
// regions come after the system reservation and the shared region, and never overlap.
func (w Workspace) AuxOffset(lane int) int64 {
	return w.SystemBytes + w.SharedBytes + int64(lane)*w.PerLaneBytes
}

// PlanWorkspace computes the workspace for the given mode: the fixed system reservation of the budget, plus
// whatever auxiliary buffers the mode's rule asks for.
func PlanWorkspace(table WorkspaceTable, args WorkspaceArgs, budget platform.Budget) (Workspace, error) {
	w := Workspace{
		SystemBytes: budget.SystemWorkspaceBytes,
		LanesUsed:   args.Lanes.LanesUsed(),
	}
	if rule, found := table[args.Mode]; found && args.Mode != ModeEmpty {
		w.PerLaneBytes, w.SharedBytes = rule(args)
	}
	if w.PerLaneBytes < 0 || w.SharedBytes < 0 {
		return Workspace{}, planerrors.BudgetTooSmallf("workspace rule of mode %s returned negative sizes (%d per lane, %d shared)",
			args.Mode, w.PerLaneBytes, w.SharedBytes)
	}
	w.TotalBytes = w.SystemBytes + w.SharedBytes + w.PerLaneBytes*int64(w.LanesUsed)
	return w, nil
}
