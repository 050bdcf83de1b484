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

package pngfilter

import "fmt"

// checkBPP panics unless bpp is in [1, MaxBytesPerPixel]. It runs in every
// build: the kernels index fixed 8-byte windows and bpp bounds them.
func checkBPP(bpp int) {
	if bpp < 1 || bpp > MaxBytesPerPixel {
		panic(fmt.Sprintf("pngfilter: bytes per pixel %d out of range [1, %d]", bpp, MaxBytesPerPixel))
	}
}

// debugCheckRow validates the row shape in pngfilter_debug builds only.
// prev may be nil for kernels that do not read the row above.
func debugCheckRow(row, prev []byte, bpp int) {
	if !debugChecks {
		return
	}
	if len(row)%bpp != 0 {
		panic(fmt.Sprintf("pngfilter: row length %d is not a multiple of bpp %d", len(row), bpp))
	}
	if prev != nil && len(prev) != len(row) {
		panic(fmt.Sprintf("pngfilter: row length %d differs from previous row length %d", len(row), len(prev)))
	}
}
