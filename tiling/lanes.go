// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

import (
	"fmt"

	"github.com/gomlx/optiling/types/planerrors"
	"k8s.io/klog/v2"
)

// LaneDistribution describes how a number of work units is distributed among lanes: the first FormerCount lanes
// ("former" lanes) take FormerExtent units each, and the following TailCount lanes ("tail" lanes) take TailExtent
// units each.
//
// FormerExtent >= TailExtent always, and LanesUsed() never exceeds the lane count it was planned for.
type LaneDistribution struct {
	FormerCount  int
	FormerExtent int64
	TailCount    int
	TailExtent   int64
}

// LanesUsed is the number of lanes with assigned work.
func (d LaneDistribution) LanesUsed() int { return d.FormerCount + d.TailCount }

// Total number of units distributed.
func (d LaneDistribution) Total() int64 {
	return int64(d.FormerCount)*d.FormerExtent + int64(d.TailCount)*d.TailExtent
}

// ExtentOf returns the number of units assigned to the given lane, 0 if the lane is not used.
func (d LaneDistribution) ExtentOf(lane int) int64 {
	switch {
	case lane < 0:
		return 0
	case lane < d.FormerCount:
		return d.FormerExtent
	case lane < d.LanesUsed():
		return d.TailExtent
	}
	return 0
}

// OffsetOf returns the index of the first unit assigned to the given lane.
// Lanes past LanesUsed() get Total().
func (d LaneDistribution) OffsetOf(lane int) int64 {
	if lane <= d.FormerCount {
		return int64(max(lane, 0)) * d.FormerExtent
	}
	tailLanes := min(lane, d.LanesUsed()) - d.FormerCount
	return int64(d.FormerCount)*d.FormerExtent + int64(tailLanes)*d.TailExtent
}

// String implements fmt.Stringer.
func (d LaneDistribution) String() string {
	if d.TailCount == 0 {
		return fmt.Sprintf("%dx%d", d.FormerCount, d.FormerExtent)
	}
	return fmt.Sprintf("%dx%d+%dx%d", d.FormerCount, d.FormerExtent, d.TailCount, d.TailExtent)
}

// AssignLanes distributes total units (rows) of rowElems elements each, with elements of elemBytes bytes, among at
// most laneCount lanes.
//
// It starts with one lane per unit (up to laneCount), and then reduces the number of lanes used while the
// per-lane data would be smaller than one transfer block (see MinUsefulPartition). The units are split as evenly as
// possible: former lanes take one more unit than tail lanes. If total is 0 it returns one former lane with 0 units.
func AssignLanes(total int64, laneCount int, rowElems, elemBytes, blockBytes int64) (LaneDistribution, error) {
	if laneCount <= 0 {
		return LaneDistribution{}, planerrors.CoreCountf("AssignLanes: laneCount=%d", laneCount)
	}
	if total < 0 {
		return LaneDistribution{}, planerrors.Shapef("AssignLanes: negative number of units %d", total)
	}
	if rowElems <= 0 {
		return LaneDistribution{}, planerrors.Shapef("AssignLanes: rowElems=%d must be positive", rowElems)
	}
	minUseful, err := MinUsefulPartition(elemBytes, blockBytes)
	if err != nil {
		return LaneDistribution{}, err
	}
	if total == 0 {
		return LaneDistribution{FormerCount: 1}, nil
	}

	used := min(int64(laneCount), total)
	for used > 1 && CeilDiv(total, used)*rowElems < minUseful {
		used--
	}
	d := EvenLanes(total, int(used))
	if klog.V(2).Enabled() {
		klog.Infof("AssignLanes(total=%d, lanes=%d, rowElems=%d, minUseful=%d) -> %s",
			total, laneCount, rowElems, minUseful, d)
	}
	return d, nil
}

// EvenLanes splits total units as evenly as possible over min(laneCount, total) lanes, without any minimum
// per-lane size. laneCount must be positive.
func EvenLanes(total int64, laneCount int) LaneDistribution {
	if total <= 0 || laneCount <= 0 {
		return LaneDistribution{FormerCount: 1}
	}
	used := min(int64(laneCount), total)
	d := LaneDistribution{
		FormerExtent: CeilDiv(total, used),
		TailExtent:   total / used,
	}
	remainder := total % used
	if remainder == 0 {
		d.FormerCount = int(used)
	} else {
		d.FormerCount = int(remainder)
		d.TailCount = int(used - remainder)
	}
	return d
}

// ChunkLanes distributes total units in fixed-size chunks: every lane takes chunk units, except the last lane,
// which takes the remainder. If laneCount lanes are not enough, the chunk grows to ceil(total/laneCount).
//
// This is the distribution used by kernels that want a minimum amount of work per lane rather than balance.
func ChunkLanes(total, chunk int64, laneCount int) (LaneDistribution, error) {
	if laneCount <= 0 {
		return LaneDistribution{}, planerrors.CoreCountf("ChunkLanes: laneCount=%d", laneCount)
	}
	if chunk <= 0 {
		return LaneDistribution{}, planerrors.DivisionByZerof("ChunkLanes: chunk=%d", chunk)
	}
	if total <= 0 {
		return LaneDistribution{FormerCount: 1}, nil
	}
	chunk = max(chunk, CeilDiv(total, int64(laneCount)))
	d := LaneDistribution{
		FormerCount:  int(total / chunk),
		FormerExtent: chunk,
	}
	if remainder := total % chunk; remainder != 0 {
		d.TailCount = 1
		d.TailExtent = remainder
	}
	if d.FormerCount == 0 {
		// A single lane with less than a chunk.
		d = LaneDistribution{FormerCount: 1, FormerExtent: total}
	}
	return d, nil
}
