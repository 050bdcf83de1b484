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

import (
	"math/rand/v2"
	"testing"
)

func (x uint16x8) lanes() [8]uint16 {
	var w [8]uint16
	for i := range 4 {
		w[i] = lane16(x.lo, i)
		w[4+i] = lane16(x.hi, i)
	}
	return w
}

func TestNEONHalfwordOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(30, 31))
	for range 5000 {
		// Paeth only ever sees values up to 510.
		x := vaddqU16(vmovlU8(uint8x8(rng.Uint64())), vmovlU8(uint8x8(rng.Uint64())))
		y := vaddqU16(vmovlU8(uint8x8(rng.Uint64())), vmovlU8(uint8x8(rng.Uint64())))
		xw, yw := x.lanes(), y.lanes()

		abd, le := vabdqU16(x, y).lanes(), vcleqU16(x, y).lanes()
		for i := range 8 {
			want := xw[i] - yw[i]
			if yw[i] > xw[i] {
				want = yw[i] - xw[i]
			}
			if abd[i] != want {
				t.Fatalf("vabdq lane %d: |%d - %d| = %d", i, xw[i], yw[i], abd[i])
			}
			if want := mask16(xw[i] <= yw[i]); le[i] != want {
				t.Fatalf("vcleq lane %d: %d <= %d = %#x", i, xw[i], yw[i], le[i])
			}
		}
	}
}

// mask16 is the all-ones lane of a true comparison.
func mask16(b bool) uint16 {
	if b {
		return 0xffff
	}
	return 0
}

func TestNEONByteOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(32, 33))
	for range 5000 {
		x, y, m := uint8x8(rng.Uint64()), uint8x8(rng.Uint64()), uint8x8(rng.Uint64())
		h, sel := vhaddU8(x, y), vbslU8(m, x, y)
		for i := range 8 {
			a, b := lane8(uint64(x), i), lane8(uint64(y), i)
			if want := uint8((uint16(a) + uint16(b)) >> 1); lane8(uint64(h), i) != want {
				t.Fatalf("vhadd lane %d: (%d + %d) >> 1 = %d", i, a, b, lane8(uint64(h), i))
			}
		}
		if want := (m & x) | (^m & y); sel != want {
			t.Fatalf("vbsl(%#x, %#x, %#x) = %#x", m, x, y, sel)
		}
		if got := vmovnU16(vmovlU8(x)); got != x {
			t.Fatalf("vmovn(vmovl(%#x)) = %#x", x, got)
		}
	}
}
