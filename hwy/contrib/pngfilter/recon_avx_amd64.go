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

import "simd/archsimd"

// AVX kernels on simd/archsimd. They require hwy.Features.HasAVX and are
// only reached through SelectKernels. Constants are loaded inside the
// kernels, never at package init, so a binary built with the experiment
// still starts on CPUs without AVX.
//
// Sub, Average and Paeth step one pixel at a time but load a full 16-byte
// register at each step. The left, above and upper-left operands are
// masked to the pixel's bpp lanes, so every lane past the pixel adds a zero
// prediction and is stored back unchanged. Near the end of the row the
// load goes through a zero-padded buffer instead.

var (
	avxZeroBytes [16]uint8
	avxOneBytes  = [16]uint8{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	avxLowBytes  = [16]uint8{0xff, 0, 0xff, 0, 0xff, 0, 0xff, 0, 0xff, 0, 0xff, 0, 0xff, 0, 0xff, 0}
)

// avxPixelMask returns a register with 0xff in the first bpp lanes.
func avxPixelMask(bpp int) archsimd.Uint8x16 {
	var m [16]uint8
	for i := range bpp {
		m[i] = 0xff
	}
	return archsimd.LoadUint8x16(&m)
}

// loadAVX loads the 16 bytes at s[i:], zero-padded past the end of s.
func loadAVX(s []byte, i int) archsimd.Uint8x16 {
	if i+16 <= len(s) {
		return archsimd.LoadUint8x16Slice(s[i:])
	}
	var buf [16]uint8
	copy(buf[:], s[i:])
	return archsimd.LoadUint8x16(&buf)
}

// storeAVX stores v at s[i:], dropping the lanes past the end of s.
func storeAVX(s []byte, i int, v archsimd.Uint8x16) {
	if i+16 <= len(s) {
		v.StoreSlice(s[i:])
		return
	}
	var buf [16]uint8
	v.Store(&buf)
	copy(s[i:], buf[:])
}

// reconSubAVX is BaseReconSub on AVX.
func reconSubAVX(row []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, nil, bpp)

	row = row[:wholeGroups(len(row), bpp)]
	mask := avxPixelMask(bpp)
	a := archsimd.LoadUint8x16(&avxZeroBytes)
	for i := 0; i < len(row); i += bpp {
		x := loadAVX(row, i).Add(a)
		storeAVX(row, i, x)
		a = x.And(mask)
	}
}

// reconUpAVX is BaseReconUp on AVX, 16 bytes per add.
func reconUpAVX(row, prev []byte) {
	debugCheckRow(row, prev, 1)

	n := min(len(row), len(prev))
	row, prev = row[:n], prev[:n]
	i := 0
	for ; i+16 <= n; i += 16 {
		x := archsimd.LoadUint8x16Slice(row[i:])
		b := archsimd.LoadUint8x16Slice(prev[i:])
		x.Add(b).StoreSlice(row[i:])
	}
	for ; i < n; i++ {
		row[i] += prev[i]
	}
}

// avgFloorAVX is floor((a + b) / 2) per byte. VPAVGB rounds up, so the
// low bit of a ^ b is taken back off.
func avgFloorAVX(a, b, one archsimd.Uint8x16) archsimd.Uint8x16 {
	return a.Average(b).Sub(a.Xor(b).And(one))
}

// reconAverageAVX is BaseReconAverage on AVX.
func reconAverageAVX(row, prev []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, prev, bpp)

	n := wholeGroups(min(len(row), len(prev)), bpp)
	row, prev = row[:n], prev[:n]
	mask := avxPixelMask(bpp)
	one := archsimd.LoadUint8x16(&avxOneBytes)
	a := archsimd.LoadUint8x16(&avxZeroBytes)
	for i := 0; i < n; i += bpp {
		b := loadAVX(prev, i).And(mask)
		x := loadAVX(row, i).Add(avgFloorAVX(a, b, one))
		storeAVX(row, i, x)
		a = x.And(mask)
	}
}

// reconAverageTopAVX is BaseReconAverageTop on AVX.
func reconAverageTopAVX(row []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, nil, bpp)

	row = row[:wholeGroups(len(row), bpp)]
	mask := avxPixelMask(bpp)
	one := archsimd.LoadUint8x16(&avxOneBytes)
	zero := archsimd.LoadUint8x16(&avxZeroBytes)
	a := zero
	for i := 0; i < len(row); i += bpp {
		x := loadAVX(row, i).Add(avgFloorAVX(a, zero, one))
		storeAVX(row, i, x)
		a = x.And(mask)
	}
}

// reconPaethAVX is BaseReconPaeth on AVX. The distances need nine bits
// plus sign, so the bytes are split into even and odd 16-bit lanes, picked
// there and packed back.
func reconPaethAVX(row, prev []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, prev, bpp)

	n := wholeGroups(min(len(row), len(prev)), bpp)
	row, prev = row[:n], prev[:n]
	mask := avxPixelMask(bpp)
	low := archsimd.LoadUint8x16(&avxLowBytes).AsUint16x8()
	a := archsimd.LoadUint8x16(&avxZeroBytes)
	c := a
	for i := 0; i < n; i += bpp {
		b := loadAVX(prev, i).And(mask)
		x := loadAVX(row, i).Add(paethAVX(a, b, c, low))
		storeAVX(row, i, x)
		a = x.And(mask)
		c = b
	}
}

// paethAVX runs the predictor on all 16 byte lanes.
func paethAVX(a, b, c archsimd.Uint8x16, low archsimd.Uint16x8) archsimd.Uint8x16 {
	a16, b16, c16 := a.AsUint16x8(), b.AsUint16x8(), c.AsUint16x8()
	even := paethLanesAVX(a16.And(low), b16.And(low), c16.And(low))
	odd := paethLanesAVX(a16.ShiftAllRight(8), b16.ShiftAllRight(8), c16.ShiftAllRight(8))
	return even.Or(odd.ShiftAllLeft(8)).AsUint8x16()
}

// paethLanesAVX is paethPredictor on eight 16-bit lanes holding bytes.
// It uses the forms that avoid computing p:
//
//	|p - a| = |b - c|
//	|p - b| = |a - c|
//	|p - c| = |a + b - 2c|
func paethLanesAVX(a, b, c archsimd.Uint16x8) archsimd.Uint16x8 {
	ai, bi, ci := a.AsInt16x8(), b.AsInt16x8(), c.AsInt16x8()
	pa := bi.Sub(ci).Abs()
	pb := ai.Sub(ci).Abs()
	pc := ai.Add(bi).Sub(ci).Sub(ci).Abs()

	// x.Merge(y, m) keeps x where m is set. Ties go to a, then b.
	pred := ci.Merge(bi, pb.Greater(pc))
	pred = pred.Merge(ai, pa.Greater(pb).Or(pa.Greater(pc)))
	return pred.AsUint16x8()
}
