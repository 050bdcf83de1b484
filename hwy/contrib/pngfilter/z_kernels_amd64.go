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

package pngfilter

import "github.com/ajroetker/go-pngfilter/hwy"

// x86 families, oldest first. avxFamilies is empty unless the binary is
// built with GOEXPERIMENT=simd.
var vectorFamilies = append(sseFamilies, avxFamilies...)

// sseFamilies keep SSE register contents in pairs of uint64, so they run
// no vector instructions. BenchmarkKernels on amd64 shows them ahead of
// the byte loop only for Up at every bpp and for Sub and Paeth at bpp 8.
// Average loses at every bpp and is never selected. They are what a
// binary built without the simd experiment uses.
var sseFamilies = []family{
	{
		level: hwy.DispatchSSE2,
		kernels: Kernels{
			Sub:        reconSubSSE2,
			Up:         reconUpSSE2,
			Average:    reconAverageSSE2,
			AverageTop: reconAverageTopSSE2,
			Paeth:      reconPaethSSE2,
		},
		minBPP: [numOps]int{
			OpSub:   8,
			OpUp:    1,
			OpPaeth: 8,
		},
	},
	{
		level: hwy.DispatchSSE41,
		kernels: Kernels{
			Sub:        reconSubSSE2,
			Up:         reconUpSSE2,
			Average:    reconAverageSSE2,
			AverageTop: reconAverageTopSSE2,
			Paeth:      reconPaethSSE41,
		},
		minBPP: [numOps]int{
			OpPaeth: 8,
		},
	},
}
