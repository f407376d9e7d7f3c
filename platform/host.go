// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package platform

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// hostScratchBytes approximates the per-core L2 cache a host tile should fit in.
const hostScratchBytes = 256 * 1024

// Host returns a Budget to plan kernels that run on the host CPU: one lane per logical CPU, the cache line size
// of the architecture and the widest vector unit detected.
func Host() Budget {
	cacheLine := int64(unsafe.Sizeof(cpu.CacheLinePad{}))
	vector := hostVectorBytes()
	return Budget{
		Name:                 HostName,
		LaneCount:            runtime.NumCPU(),
		ScratchBytes:         hostScratchBytes,
		BlockBytes:           vector,
		CacheLineBytes:       cacheLine,
		VectorBytes:          vector,
		SystemWorkspaceBytes: 0,
	}
}

func hostVectorBytes() int64 {
	switch {
	case cpu.X86.HasAVX512F:
		return 64
	case cpu.X86.HasAVX2:
		return 32
	case cpu.ARM64.HasASIMD, cpu.X86.HasSSE2:
		return 16
	default:
		return 8
	}
}
