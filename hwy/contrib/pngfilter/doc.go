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

// Package pngfilter reconstructs PNG filter-method-0 scanlines in place.
//
// A PNG stores every row of pixel data behind a one byte filter type. The
// row's bytes are expressed relative to already reconstructed neighbours:
//
//	c b
//	a x
//
//   - a is the byte one pixel to the left,
//   - b is the byte in the row above,
//   - c is the byte above the left pixel,
//   - anything outside the image reads as 0.
//
// Reconstruction happens after zlib decompression and before the bytes are
// interpreted as colour samples. All arithmetic wraps modulo 256.
//
// # Kernels
//
// The Base* functions are the portable scalar kernels. Other kernel
// families reproduce them bit for bit while handling a whole pixel group
// (1 to 8 bytes) per step:
//
//   - avx (amd64, GOEXPERIMENT=simd) runs simd/archsimd vector code.
//   - sse2 and sse4.1 (amd64) and neon (arm64) are those instruction
//     sequences written in Go over 64-bit words. They need no experiment
//     and win only where the byte loop is slowest.
//
// Families are never called directly: SelectKernels picks one
// implementation per operation from the detected CPU features and the
// bytes-per-pixel value. Per-pixel setup only pays off once a pixel is wide
// enough.
//
// # Usage
//
//	// rows holds height rows of 1+width*bpp bytes each, straight out of
//	// the zlib stream.
//	pngfilter.UnfilterLines(rows, 1+width*bpp, bpp)
//	// Every filter type byte is now 0 and the payloads are raw pixels.
//
// Streaming decoders that see one row at a time use a Reconstructor:
//
//	r := pngfilter.NewReconstructor(bpp)
//	for each row {
//	    r.Row(row) // row must stay intact until the next call
//	}
//
// # Errors
//
// Calling with bpp outside [1, 8] panics. Builds tagged pngfilter_debug also
// panic on rows whose payload is not a multiple of bpp or whose length
// differs from the previous row. Filter types above 4 are treated as None;
// callers that want to reject them run ValidateFilterTypes first.
package pngfilter
