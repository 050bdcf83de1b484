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

// NEON register model. uint8x8 is a 64-bit D register of byte lanes and
// uint16x8 a 128-bit Q register of halfword lanes, mirroring the ACLE
// vector types the kernels are written against. Function names follow the
// intrinsics (vadd_u8 -> vaddU8, vabdq_u16 -> vabdqU16, ...).

type uint8x8 uint64

type uint16x8 struct {
	lo, hi uint64
}

// vld1U8 loads up to 8 bytes; lanes past len(p) are zero.
func vld1U8(p []byte) uint8x8 {
	return uint8x8(loadGroup(p))
}

// vst1U8 stores the low min(len(p), 8) lanes.
func vst1U8(p []byte, v uint8x8) {
	storeGroup(p, uint64(v))
}

func vaddU8(x, y uint8x8) uint8x8 {
	return uint8x8(add8(uint64(x), uint64(y)))
}

// vhaddU8 is the unsigned halving add (x + y) >> 1; the hardware keeps the
// ninth bit of the sum, so it matches the widened scalar average.
func vhaddU8(x, y uint8x8) uint8x8 {
	return uint8x8(hadd8(uint64(x), uint64(y)))
}

// vshrNU8 is vshr_n_u8(x, 1).
func vshrNU8(x uint8x8) uint8x8 {
	return uint8x8(halve8(uint64(x)))
}

// vbslU8 takes x where mask bits are set and y elsewhere.
func vbslU8(mask, x, y uint8x8) uint8x8 {
	return mask&x | ^mask&y
}

// vmovlU8 zero-extends eight bytes to eight halfwords.
func vmovlU8(x uint8x8) uint16x8 {
	return uint16x8{widen4(uint64(x)), widen4(uint64(x) >> 32)}
}

// vmovnU16 keeps the low byte of every halfword.
func vmovnU16(x uint16x8) uint8x8 {
	return uint8x8(narrow4(x.lo&bytes16) | narrow4(x.hi&bytes16)<<32)
}

func vaddqU16(x, y uint16x8) uint16x8 {
	return uint16x8{add16(x.lo, y.lo), add16(x.hi, y.hi)}
}

func vandqU16(x, y uint16x8) uint16x8 {
	return uint16x8{x.lo & y.lo, x.hi & y.hi}
}

// vabdqU16 is |x - y| on unsigned halfwords.
func vabdqU16(x, y uint16x8) uint16x8 {
	return uint16x8{abd16(x.lo, y.lo), abd16(x.hi, y.hi)}
}

func abd16(x, y uint64) uint64 {
	lt := spread16(ltU16(x, y))
	return (sub16(x, y) &^ lt) | (sub16(y, x) & lt)
}

// vcleqU16 is all ones where x <= y (unsigned).
func vcleqU16(x, y uint16x8) uint16x8 {
	return uint16x8{^spread16(ltU16(y.lo, x.lo)), ^spread16(ltU16(y.hi, x.hi))}
}
