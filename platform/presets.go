// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package platform

// SystemWorkspaceBytes is the system workspace reservation of the accelerator presets: 16MiB.
const SystemWorkspaceBytes = 16 * 1024 * 1024

// Preset names.
const (
	NPU        = "npu"
	NPURegBase = "npu-regbase"
	HostName   = "host"
)

func init() {
	// The first registered preset is the default.
	RegisterPreset(Budget{
		Name:                 NPU,
		LaneCount:            48,
		ScratchBytes:         192 * 1024,
		BlockBytes:           32,
		CacheLineBytes:       32,
		VectorBytes:          256,
		SystemWorkspaceBytes: SystemWorkspaceBytes,
	})
	RegisterPreset(Budget{
		Name:                 NPURegBase,
		LaneCount:            64,
		ScratchBytes:         248 * 1024,
		BlockBytes:           32,
		CacheLineBytes:       128,
		VectorBytes:          256,
		SystemWorkspaceBytes: SystemWorkspaceBytes,
	})
	Register(HostName, Host)
}
