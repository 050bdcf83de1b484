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

// The Base* kernels work one byte at a time and are always available. Every
// vector family is tested against them.
//
// Rows are the payload only, without the filter type byte. A trailing
// fragment shorter than bpp is left untouched, as is any part of row that
// extends past prev.

// wholeGroups returns n rounded down to a multiple of bpp.
func wholeGroups(n, bpp int) int {
	return n - n%bpp
}

// BaseReconSub reverses the Sub filter:
//
//	Recon(x) = Filt(x) + Recon(a)
//
// It only reads the current row.
func BaseReconSub(row []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, nil, bpp)

	row = row[:wholeGroups(len(row), bpp)]
	for i := bpp; i < len(row); i++ {
		row[i] += row[i-bpp]
	}
}

// BaseReconUp reverses the Up filter:
//
//	Recon(x) = Filt(x) + Recon(b)
//
// It has no left-to-right dependency, so it ignores pixel boundaries and
// has no bpp parameter. There is no first-row variant: adding a row of
// zeroes changes nothing.
func BaseReconUp(row, prev []byte) {
	debugCheckRow(row, prev, 1)

	n := min(len(row), len(prev))
	row, prev = row[:n], prev[:n]
	for i := range row {
		row[i] += prev[i]
	}
}

// BaseReconAverage reverses the Average filter:
//
//	Recon(x) = Filt(x) + floor((Recon(a) + Recon(b)) / 2)
//
// The sum is formed in 16 bits so that it cannot overflow before halving.
func BaseReconAverage(row, prev []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, prev, bpp)

	n := wholeGroups(min(len(row), len(prev)), bpp)
	row, prev = row[:n], prev[:n]
	for i := 0; i < bpp && i < n; i++ {
		row[i] += prev[i] >> 1
	}
	for i := bpp; i < n; i++ {
		row[i] += byte((uint16(row[i-bpp]) + uint16(prev[i])) >> 1)
	}
}

// BaseReconAverageTop is BaseReconAverage for the first row of an image,
// where b is always 0:
//
//	Recon(x) = Filt(x) + floor(Recon(a) / 2)
func BaseReconAverageTop(row []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, nil, bpp)

	row = row[:wholeGroups(len(row), bpp)]
	for i := bpp; i < len(row); i++ {
		row[i] += row[i-bpp] >> 1
	}
}

// BaseReconPaeth reverses the Paeth filter:
//
//	Recon(x) = Filt(x) + PaethPredictor(Recon(a), Recon(b), Recon(c))
//
// There is no first-row variant. With b and c both 0 the predictor always
// picks a, so the first row is reconstructed exactly like Sub and the
// dispatcher uses the Sub kernel there.
func BaseReconPaeth(row, prev []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, prev, bpp)

	n := wholeGroups(min(len(row), len(prev)), bpp)
	row, prev = row[:n], prev[:n]
	for i := 0; i < bpp && i < n; i++ {
		// a = c = 0, so the predictor is b.
		row[i] += paethPredictor(0, int16(prev[i]), 0)
	}
	for i := bpp; i < n; i++ {
		row[i] += paethPredictor(int16(row[i-bpp]), int16(prev[i]), int16(prev[i-bpp]))
	}
}

// paethPredictor returns whichever of a, b, c is closest to a + b - c,
// preferring a, then b, then c on ties.
func paethPredictor(a, b, c int16) byte {
	p := a + b - c
	pa := abs16(p - a)
	pb := abs16(p - b)
	pc := abs16(p - c)
	switch {
	case pa <= pb && pa <= pc:
		return byte(a)
	case pb <= pc:
		return byte(b)
	default:
		return byte(c)
	}
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
