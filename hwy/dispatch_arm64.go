//go:build arm64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	// Check for HWY_NO_SIMD environment variable first
	if NoSimdEnv() {
		currentFeatures = Features{}
		return
	}

	// ARM64 (AArch64) always has NEON (ASIMD) available.
	// It's part of the ARMv8-A base architecture.
	// Note: cpu.ARM64.HasASIMD is always true for ARMv8+, we check it for
	// consistency with the x86 detection.
	currentFeatures = Features{HasNEON: cpu.ARM64.HasASIMD}
}
