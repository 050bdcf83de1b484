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

// SSE2 kernels. They require hwy.Features.HasSSE2 and are only reached
// through SelectKernels.
//
// One pixel group is loaded into the low bytes of an xmm register. Average
// and Paeth widen it to eight signed 16-bit lanes (punpcklbw against zero),
// do their math there, and narrow back with packuswb before the wrapping
// byte add.

// reconSubSSE2 is BaseReconSub on SSE2.
func reconSubSSE2(row []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, nil, bpp)

	var a xmm
	n := wholeGroups(len(row), bpp)
	for i := 0; i < n; i += bpp {
		group := row[i : i+bpp]
		x := paddb(movq(group), a)
		x.movq(group)
		a = x
	}
}

// reconUpSSE2 is BaseReconUp on SSE2, 16 bytes per paddb.
func reconUpSSE2(row, prev []byte) {
	debugCheckRow(row, prev, 1)

	n := min(len(row), len(prev))
	i := 0
	for ; i+16 <= n; i += 16 {
		x := xmm{loadGroup(row[i:]), loadGroup(row[i+8:])}
		b := xmm{loadGroup(prev[i:]), loadGroup(prev[i+8:])}
		x = paddb(x, b)
		storeGroup(row[i:], x.lo)
		storeGroup(row[i+8:], x.hi)
	}
	for ; i < n; i += 8 {
		end := min(i+8, n)
		x := paddb(movq(row[i:end]), movq(prev[i:end]))
		x.movq(row[i:end])
	}
}

// reconAverageSSE2 is BaseReconAverage on SSE2.
func reconAverageSSE2(row, prev []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, prev, bpp)

	var zero, a xmm // a holds the left pixel as 16-bit lanes
	n := wholeGroups(min(len(row), len(prev)), bpp)
	for i := 0; i < n; i += bpp {
		group := row[i : i+bpp]
		x := movq(group)
		b := punpcklbw(movq(prev[i:i+bpp]), zero)
		avg := psraw(paddw(a, b), 1)
		x = paddb(x, packuswb(avg, zero))
		x.movq(group)
		a = punpcklbw(x, zero)
	}
}

// reconAverageTopSSE2 is BaseReconAverageTop on SSE2.
func reconAverageTopSSE2(row []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, nil, bpp)

	var zero, a xmm
	n := wholeGroups(len(row), bpp)
	for i := 0; i < n; i += bpp {
		group := row[i : i+bpp]
		x := movq(group)
		half := psraw(a, 1)
		x = paddb(x, packuswb(half, zero))
		x.movq(group)
		a = punpcklbw(x, zero)
	}
}

// reconPaethSSE2 is BaseReconPaeth on SSE2. Without pabsw and pblendvb the
// absolute values come from (v ^ s) - s with s the sign mask, <= is built
// as (x < y) | (x == y), and selection is and/andnot/or.
func reconPaethSSE2(row, prev []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, prev, bpp)

	var zero, a, c xmm
	n := wholeGroups(min(len(row), len(prev)), bpp)
	for i := 0; i < n; i += bpp {
		group := row[i : i+bpp]
		x := movq(group)
		b := punpcklbw(movq(prev[i:i+bpp]), zero)

		p := psubw(paddw(a, b), c)
		pa := absSSE2(psubw(p, a))
		pb := absSSE2(psubw(p, b))
		pc := absSSE2(psubw(p, c))

		pickA := pand(leSSE2(pa, pb), leSSE2(pa, pc))
		pickB := leSSE2(pb, pc)
		bOrC := por(pand(pickB, b), pandn(pickB, c))
		pred := por(pand(pickA, a), pandn(pickA, bOrC))

		x = paddb(x, packuswb(pred, zero))
		x.movq(group)
		a = punpcklbw(x, zero)
		c = b
	}
}

// absSSE2 is pabsw spelled in SSE2.
func absSSE2(v xmm) xmm {
	sign := psraw(v, 15)
	return psubw(pxor(v, sign), sign)
}

// leSSE2 is a signed 16-bit x <= y; SSE has no such compare.
func leSSE2(x, y xmm) xmm {
	return por(pcmpgtw(y, x), pcmpeqw(x, y))
}
