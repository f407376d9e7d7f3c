// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

// Mode is the tiling mode (kernel variant) selected by a plan. The numeric value of each mode is the tiling key
// the kernel dispatches on, so the values must not change.
type Mode int

//go:generate go tool enumer -type=Mode -trimprefix=Mode -output=gen_mode_enumer.go mode.go

const (
	ModeInvalid Mode = 0

	// ModeEmpty is selected for tensors with no elements: no lanes do any work.
	ModeEmpty Mode = 1

	// Copy family, see CopyStrategy.
	ModeSmallInnerAligned   Mode = 10
	ModeSmallInnerUnaligned Mode = 11
	ModeStridedGather       Mode = 12
	ModeTransposeStaged     Mode = 13
	ModeLargeInner          Mode = 19

	// Strided slice.
	ModeSliceMoveAlign        Mode = 100
	ModeSliceMoveAlignLastDim Mode = 101
	ModeSliceNDDMA            Mode = 102
	ModeSliceNDDMALastDim     Mode = 103
	ModeSliceMoveAlignTwoDim  Mode = 150
	ModeSliceSIMT             Mode = 200
	ModeSliceSIMTBigShape     Mode = 201
	ModeSliceMoveAlignGather  Mode = 300
	ModeSliceMoveAlignUB2UB   Mode = 301
	ModeSliceNDDMAGather      Mode = 302
	ModeSliceNDDMAUB2UB       Mode = 303

	// One-hot.
	ModeOneHotDirect      Mode = 1000
	ModeOneHotScratchInit Mode = 1001

	// Lin-space.
	ModeLinSpaceSingleLane Mode = 2000
	ModeLinSpaceMultiLane  Mode = 2001

	// Pad.
	ModePadInScratch Mode = 4000
	ModePadStaged    Mode = 4001
)

// Key returns the tiling key of the mode, the value kernels dispatch on.
func (m Mode) Key() int64 { return int64(m) }
