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

//go:build amd64 || arm64

package pngfilter

import "encoding/binary"

// Lane primitives shared by the register models in xmm_amd64.go and
// neon_arm64.go. A uint64 holds either eight 8-bit lanes or four 16-bit
// lanes, little-endian: lane 0 is the least significant. Carries and
// borrows never cross a lane boundary.

const (
	high8  = 0x8080808080808080
	low7x8 = 0x7f7f7f7f7f7f7f7f

	high16  = 0x8000800080008000
	low15   = 0x7fff7fff7fff7fff
	ones16  = 0x0001000100010001
	bytes16 = 0x00ff00ff00ff00ff
)

// loadGroup reads up to 8 bytes into the low lanes; missing lanes are zero.
func loadGroup(p []byte) uint64 {
	if len(p) >= 8 {
		return binary.LittleEndian.Uint64(p)
	}
	var v uint64
	for i := len(p) - 1; i >= 0; i-- {
		v = v<<8 | uint64(p[i])
	}
	return v
}

// storeGroup writes the low min(len(p), 8) lanes of v and nothing else.
func storeGroup(p []byte, v uint64) {
	if len(p) >= 8 {
		binary.LittleEndian.PutUint64(p, v)
		return
	}
	for i := range p {
		p[i] = byte(v)
		v >>= 8
	}
}

// add8 adds eight 8-bit lanes with wraparound.
func add8(x, y uint64) uint64 {
	return ((x &^ high8) + (y &^ high8)) ^ ((x ^ y) & high8)
}

// halve8 is floor(x/2) on eight unsigned 8-bit lanes.
func halve8(x uint64) uint64 {
	return (x >> 1) & low7x8
}

// hadd8 is floor((x+y)/2) on eight unsigned 8-bit lanes. It relies on
// x+y == 2*(x&y) + (x^y), so no lane needs a ninth bit.
func hadd8(x, y uint64) uint64 {
	return (x & y) + halve8(x^y)
}

// add16 adds four 16-bit lanes with wraparound.
func add16(x, y uint64) uint64 {
	return ((x &^ high16) + (y &^ high16)) ^ ((x ^ y) & high16)
}

// sub16 subtracts four 16-bit lanes with wraparound.
func sub16(x, y uint64) uint64 {
	return ((x | high16) - (y &^ high16)) ^ ((x ^ ^y) & high16)
}

// ltU16 sets the top bit of every lane where x < y, as unsigned 16-bit
// values. The result is the borrow out of each lane of x - y.
func ltU16(x, y uint64) uint64 {
	d := sub16(x, y)
	return ((^x & y) | (^(x ^ y) & d)) & high16
}

// ltS16 is ltU16 for signed 16-bit lanes.
func ltS16(x, y uint64) uint64 {
	return ltU16(x^high16, y^high16)
}

// eq16 sets the top bit of every lane where x == y.
func eq16(x, y uint64) uint64 {
	z := x ^ y
	nonZero := ((z & low15) + low15) | z
	return ^nonZero & high16
}

// spread16 widens per-lane top bits into full 0xffff lane masks.
func spread16(topBits uint64) uint64 {
	return (topBits >> 15) * 0xffff
}

// spread8 widens per-lane top bits into full 0xff lane masks.
func spread8(topBits uint64) uint64 {
	return ((topBits & high8) >> 7) * 0xff
}

// widen4 zero-extends the four low bytes of x into four 16-bit lanes.
func widen4(x uint64) uint64 {
	x &= 0xffffffff
	x = (x | x<<16) & 0x0000ffff0000ffff
	return (x | x<<8) & bytes16
}

// narrow4 packs four 16-bit lanes holding values <= 0xff into four bytes.
func narrow4(x uint64) uint64 {
	x = (x | x>>8) & 0x0000ffff0000ffff
	return (x | x>>16) & 0xffffffff
}
