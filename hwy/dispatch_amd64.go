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

//go:build amd64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	// Check if SIMD is disabled via environment variable
	if NoSimdEnv() {
		currentFeatures = Features{}
		return
	}

	currentFeatures = detectCPUFeatures(envFlag("HWY_NO_SSE41"), envFlag("HWY_NO_AVX"))
}

func detectCPUFeatures(noSSE41, noAVX bool) Features {
	// SSE2 is part of the amd64 baseline, but ask anyway so a broken
	// CPUID (some emulators) still lands on the scalar path.
	f := Features{HasSSE2: cpu.X86.HasSSE2}

	// Paeth needs PABSW (SSSE3) next to PBLENDVB (SSE4.1). Every shipping
	// SSE4.1 part has SSSE3, but both bits are checked.
	if f.HasSSE2 && !noSSE41 {
		f.HasSSE41 = cpu.X86.HasSSE41 && cpu.X86.HasSSSE3
	}

	// HWY_NO_SSE41 caps below AVX as well.
	if f.HasSSE2 && !noSSE41 && !noAVX {
		f.HasAVX = archsimdAVX()
	}
	return f
}
