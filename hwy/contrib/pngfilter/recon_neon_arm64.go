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

// NEON kernels. They require hwy.Features.HasNEON and are only reached
// through SelectKernels. One pixel group lives in the low lanes of a D
// register.

// reconSubNEON is BaseReconSub on NEON.
func reconSubNEON(row []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, nil, bpp)

	var a uint8x8
	n := wholeGroups(len(row), bpp)
	for i := 0; i < n; i += bpp {
		group := row[i : i+bpp]
		x := vaddU8(vld1U8(group), a)
		vst1U8(group, x)
		a = x
	}
}

// reconUpNEON is BaseReconUp on NEON, 8 bytes per vadd.
func reconUpNEON(row, prev []byte) {
	debugCheckRow(row, prev, 1)

	n := min(len(row), len(prev))
	for i := 0; i < n; i += 8 {
		end := min(i+8, n)
		vst1U8(row[i:end], vaddU8(vld1U8(row[i:end]), vld1U8(prev[i:end])))
	}
}

// reconAverageNEON is BaseReconAverage on NEON. vhadd_u8 computes the
// floor of the 9-bit sum directly, so no explicit widening is needed.
func reconAverageNEON(row, prev []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, prev, bpp)

	var a uint8x8
	n := wholeGroups(min(len(row), len(prev)), bpp)
	for i := 0; i < n; i += bpp {
		group := row[i : i+bpp]
		b := vld1U8(prev[i : i+bpp])
		x := vaddU8(vld1U8(group), vhaddU8(a, b))
		vst1U8(group, x)
		a = x
	}
}

// reconAverageTopNEON is BaseReconAverageTop on NEON.
func reconAverageTopNEON(row []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, nil, bpp)

	var a uint8x8
	n := wholeGroups(len(row), bpp)
	for i := 0; i < n; i += bpp {
		group := row[i : i+bpp]
		x := vaddU8(vld1U8(group), vshrNU8(a))
		vst1U8(group, x)
		a = x
	}
}

// reconPaethNEON is BaseReconPaeth on NEON. The distances use the
// rearranged form that avoids computing p:
//
//	|p - a| = |b - c|
//	|p - b| = |a - c|
//	|p - c| = |a + b - 2c|
//
// in widened halfword lanes, then the masks are narrowed back and the
// predictor is picked with two bit selects.
func reconPaethNEON(row, prev []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, prev, bpp)

	var a, c uint8x8
	n := wholeGroups(min(len(row), len(prev)), bpp)
	for i := 0; i < n; i += bpp {
		group := row[i : i+bpp]
		b := vld1U8(prev[i : i+bpp])

		a16, b16, c16 := vmovlU8(a), vmovlU8(b), vmovlU8(c)
		pa := vabdqU16(b16, c16)
		pb := vabdqU16(a16, c16)
		pc := vabdqU16(vaddqU16(a16, b16), vaddqU16(c16, c16))

		pickA := vmovnU16(vandqU16(vcleqU16(pa, pb), vcleqU16(pa, pc)))
		pickB := vmovnU16(vcleqU16(pb, pc))
		pred := vbslU8(pickA, a, vbslU8(pickB, b, c))

		x := vaddU8(vld1U8(group), pred)
		vst1U8(group, x)
		a = x
		c = b
	}
}
