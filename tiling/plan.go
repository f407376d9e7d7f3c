// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/optiling/types/shapes"
)

// Phase is one stage of execution of a plan. Phases run in order, separated by a barrier across all lanes: no lane
// starts phase i+1 before every lane finished phase i.
type Phase struct {
	Name  string
	Lanes LaneDistribution
	Tiles TileSpec
}

// Plan is the output of planning: everything a kernel launch needs to know about how the work is divided.
//
// Plans are immutable values, and planning is deterministic: the same request and budget always produce
// identical plans.
type Plan struct {
	Mode  Mode
	DType dtypes.DType

	// Shape is the normalized view of the work.
	Shape shapes.Normalized

	// Lanes distributes the work units among the lanes.
	Lanes LaneDistribution

	// Tiles is how each former lane splits its extent, and TailTiles how each tail lane does.
	Tiles, TailTiles TileSpec

	// Workspace is the planned global workspace.
	Workspace Workspace

	// Phases, if not empty, lists barrier-separated phases of execution, each with its own lane distribution.
	// Plans with a single phase leave it empty.
	Phases []Phase
}

// LanesUsed is the number of lanes the kernel must be launched with (its block dimension).
// For multi-phase plans it's the maximum over all phases.
func (p Plan) LanesUsed() int {
	used := p.Lanes.LanesUsed()
	for _, phase := range p.Phases {
		used = max(used, phase.Lanes.LanesUsed())
	}
	return used
}

// WorkspaceBytes is the total global workspace size.
func (p Plan) WorkspaceBytes() int64 { return p.Workspace.TotalBytes }

// AuxOffset returns the offset of the lane's auxiliary buffer in the workspace.
func (p Plan) AuxOffset(lane int) int64 { return p.Workspace.AuxOffset(lane) }

// String implements fmt.Stringer.
func (p Plan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Plan{mode=%s(%d), dtype=%s, shape=%s, lanes=%s, tiles=%s", p.Mode, p.Mode.Key(), p.DType,
		p.Shape, p.Lanes, p.Tiles)
	if p.Lanes.TailCount > 0 {
		fmt.Fprintf(&sb, ", tailTiles=%s", p.TailTiles)
	}
	fmt.Fprintf(&sb, ", workspace=%s", humanize.IBytes(uint64(p.Workspace.TotalBytes)))
	for _, phase := range p.Phases {
		fmt.Fprintf(&sb, ", phase %q: lanes=%s, tiles=%s", phase.Name, phase.Lanes, phase.Tiles)
	}
	sb.WriteString("}")
	return sb.String()
}
