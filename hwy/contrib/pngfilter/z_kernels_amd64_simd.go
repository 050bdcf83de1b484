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

//go:build amd64 && goexperiment.simd

package pngfilter

import "github.com/ajroetker/go-pngfilter/hwy"

// TODO: these thresholds are not measured yet. Run BenchmarkKernels with
// GOEXPERIMENT=simd on an AVX machine and raise any op that loses to the
// scalar or sse entry at small bpp.
var avxFamilies = []family{
	{
		level: hwy.DispatchAVX,
		kernels: Kernels{
			Sub:        reconSubAVX,
			Up:         reconUpAVX,
			Average:    reconAverageAVX,
			AverageTop: reconAverageTopAVX,
			Paeth:      reconPaethAVX,
		},
		minBPP: [numOps]int{
			OpSub:        4,
			OpUp:         1,
			OpAverage:    3,
			OpAverageTop: 3,
			OpPaeth:      1,
		},
	},
}
