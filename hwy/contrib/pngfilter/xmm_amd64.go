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

// xmm is a 128-bit SSE register held as two 64-bit halves. Depending on the
// instruction it is read as sixteen 8-bit lanes or eight 16-bit lanes.
//
// The methods below are named after the instructions the SSE kernels are
// written in, so the kernels read like their intrinsic counterparts
// (_mm_add_epi8 -> paddb, _mm_srai_epi16 -> psraw, ...).
type xmm struct {
	lo, hi uint64
}

// movq loads up to 8 bytes into the low half and clears the rest.
func movq(p []byte) xmm {
	return xmm{lo: loadGroup(p)}
}

// movq stores the low len(p) bytes of the register, at most 8.
func (x xmm) movq(p []byte) {
	storeGroup(p, x.lo)
}

// paddb: 8-bit lanes, x + y with wraparound.
func paddb(x, y xmm) xmm {
	return xmm{add8(x.lo, y.lo), add8(x.hi, y.hi)}
}

// paddw: 16-bit lanes, x + y with wraparound.
func paddw(x, y xmm) xmm {
	return xmm{add16(x.lo, y.lo), add16(x.hi, y.hi)}
}

// psubw: 16-bit lanes, x - y with wraparound.
func psubw(x, y xmm) xmm {
	return xmm{sub16(x.lo, y.lo), sub16(x.hi, y.hi)}
}

// psraw: 16-bit lanes, arithmetic shift right by n (0 <= n <= 15).
func psraw(x xmm, n uint) xmm {
	return xmm{sra16(x.lo, n), sra16(x.hi, n)}
}

func sra16(x uint64, n uint) uint64 {
	keep := uint64(0xffff>>n) * ones16
	return ((x >> n) & keep) | (spread16(x&high16) &^ keep)
}

// pcmpgtw: 16-bit lanes, all ones where x > y (signed).
func pcmpgtw(x, y xmm) xmm {
	return xmm{spread16(ltS16(y.lo, x.lo)), spread16(ltS16(y.hi, x.hi))}
}

// pcmpeqw: 16-bit lanes, all ones where x == y.
func pcmpeqw(x, y xmm) xmm {
	return xmm{spread16(eq16(x.lo, y.lo)), spread16(eq16(x.hi, y.hi))}
}

func pand(x, y xmm) xmm {
	return xmm{x.lo & y.lo, x.hi & y.hi}
}

// pandn is (^x) & y, operand order as in the instruction.
func pandn(x, y xmm) xmm {
	return xmm{^x.lo & y.lo, ^x.hi & y.hi}
}

func por(x, y xmm) xmm {
	return xmm{x.lo | y.lo, x.hi | y.hi}
}

func pxor(x, y xmm) xmm {
	return xmm{x.lo ^ y.lo, x.hi ^ y.hi}
}

// punpcklbw interleaves the low eight bytes of x and y, giving eight 16-bit
// lanes x[i] | y[i]<<8. With y zero this zero-extends bytes to words.
func punpcklbw(x, y xmm) xmm {
	return xmm{
		lo: widen4(x.lo) | widen4(y.lo)<<8,
		hi: widen4(x.lo>>32) | widen4(y.lo>>32)<<8,
	}
}

// packuswb narrows the signed 16-bit lanes of x (low half of the result)
// and y (high half) to bytes with unsigned saturation.
func packuswb(x, y xmm) xmm {
	return xmm{
		lo: narrow4(satU8(x.lo)) | narrow4(satU8(x.hi))<<32,
		hi: narrow4(satU8(y.lo)) | narrow4(satU8(y.hi))<<32,
	}
}

// satU8 clamps four signed 16-bit lanes to [0, 255].
func satU8(x uint64) uint64 {
	x &^= spread16(x & high16)
	// Any of bits 8..14 set means the lane is above 255.
	over := spread16(((x & 0x7f007f007f007f00) + 0x7f007f007f007f00) & high16)
	return (x | over) & bytes16
}

// pabsw: 16-bit lanes, absolute value (SSSE3).
func pabsw(x xmm) xmm {
	return xmm{abs16x4(x.lo), abs16x4(x.hi)}
}

func abs16x4(x uint64) uint64 {
	neg := spread16(x & high16)
	return add16(x^neg, neg&ones16)
}

// pblendvb picks y where the top bit of the mask byte is set and x
// elsewhere (SSE4.1, _mm_blendv_epi8(x, y, mask)).
func pblendvb(x, y, mask xmm) xmm {
	mlo, mhi := spread8(mask.lo), spread8(mask.hi)
	return xmm{
		lo: (x.lo &^ mlo) | (y.lo & mlo),
		hi: (x.hi &^ mhi) | (y.hi & mhi),
	}
}
