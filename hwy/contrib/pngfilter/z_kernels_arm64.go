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

//go:build arm64

package pngfilter

import "github.com/ajroetker/go-pngfilter/hwy"

// The neon family keeps D registers in uint64 words like the sse families
// on amd64, and is held to the thresholds they measured there: Up at every
// bpp, Sub and Paeth only at bpp 8, Average never.
//
// TODO: run BenchmarkKernels on an arm64 machine and replace these with
// the thresholds it shows.
var vectorFamilies = []family{
	{
		level: hwy.DispatchNEON,
		kernels: Kernels{
			Sub:        reconSubNEON,
			Up:         reconUpNEON,
			Average:    reconAverageNEON,
			AverageTop: reconAverageTopNEON,
			Paeth:      reconPaethNEON,
		},
		minBPP: [numOps]int{
			OpSub:   8,
			OpUp:    1,
			OpPaeth: 8,
		},
	},
}
