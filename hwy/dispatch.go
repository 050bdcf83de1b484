// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hwy detects the SIMD instruction sets available at runtime and
// reports the dispatch level kernels should be selected for.
//
// Detection runs once in init() and is cached for the lifetime of the
// process; CPU feature sets never change while a program runs.
//
// Set HWY_NO_SIMD to any truthy value to force scalar kernels everywhere.
// On x86, HWY_NO_AVX caps the level at SSE4.1 and HWY_NO_SSE41 at SSE2.
package hwy

import (
	"os"
	"strconv"
)

// DispatchLevel represents the SIMD instruction set being used.
type DispatchLevel int

const (
	// DispatchScalar indicates no SIMD, pure Go implementation.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 indicates SSE2 instructions (x86-64 baseline).
	DispatchSSE2

	// DispatchSSE41 indicates SSE4.1 instructions, which also brings the
	// SSSE3 absolute value and the byte blend used by Paeth.
	DispatchSSE41

	// DispatchAVX indicates AVX, the VEX encoding that simd/archsimd's
	// 128-bit operations are compiled to. Only binaries built with
	// GOEXPERIMENT=simd can reach it.
	DispatchAVX

	// DispatchNEON indicates ARM NEON instructions (AArch64 Advanced SIMD).
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchSSE41:
		return "sse4.1"
	case DispatchAVX:
		return "avx"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Features is a snapshot of the CPU features kernels may depend on.
type Features struct {
	HasSSE2  bool
	HasSSE41 bool

	// HasAVX is only set when the CPU has AVX and the binary carries
	// archsimd kernels.
	HasAVX bool

	HasNEON bool
}

// Level returns the highest dispatch level the features allow.
func (f Features) Level() DispatchLevel {
	switch {
	case f.HasNEON:
		return DispatchNEON
	case f.HasAVX:
		return DispatchAVX
	case f.HasSSE41:
		return DispatchSSE41
	case f.HasSSE2:
		return DispatchSSE2
	default:
		return DispatchScalar
	}
}

// currentFeatures is the detected feature set for this runtime.
// Set by init() in dispatch_*.go files.
var currentFeatures Features

// CurrentFeatures returns the CPU features detected at startup, after the
// HWY_NO_SIMD, HWY_NO_AVX and HWY_NO_SSE41 overrides have been applied.
func CurrentFeatures() Features {
	return currentFeatures
}

// CurrentLevel returns the SIMD instruction set being used.
func CurrentLevel() DispatchLevel {
	return currentFeatures.Level()
}

// CurrentName returns a human-readable name for the current SIMD target.
// For example: "avx", "sse4.1", "neon", "scalar".
func CurrentName() string {
	return CurrentLevel().String()
}

// NoSimdEnv checks if the HWY_NO_SIMD environment variable is set.
// When set, every kernel falls back to scalar code regardless of CPU
// capabilities. This is useful for testing and debugging.
func NoSimdEnv() bool {
	return envFlag("HWY_NO_SIMD")
}

// envFlag reports whether the named variable is set to a truthy value.
// Any non-empty value that does not parse as a bool counts as true.
func envFlag(name string) bool {
	val := os.Getenv(name)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
