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

import (
	"strings"

	"github.com/ajroetker/go-pngfilter/hwy"
)

// Op identifies one reconstruction operation.
type Op int

const (
	OpSub Op = iota
	OpUp
	OpAverage
	OpAverageTop
	OpPaeth

	numOps
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpSub:
		return "sub"
	case OpUp:
		return "up"
	case OpAverage:
		return "average"
	case OpAverageTop:
		return "average-top"
	case OpPaeth:
		return "paeth"
	default:
		return "unknown"
	}
}

// Kernels holds one implementation of every reconstruction operation.
// The zero value is not usable; get one from SelectKernels.
type Kernels struct {
	Sub        func(row []byte, bpp int)
	Up         func(row, prev []byte)
	Average    func(row, prev []byte, bpp int)
	AverageTop func(row []byte, bpp int)
	Paeth      func(row, prev []byte, bpp int)

	families [numOps]string
}

// Family returns the name of the kernel family op was taken from:
// "scalar", "sse2", "sse4.1", "avx" or "neon".
func (k Kernels) Family(op Op) string {
	if op < 0 || op >= numOps {
		return ""
	}
	return k.families[op]
}

// String lists the family chosen for each operation.
func (k Kernels) String() string {
	var sb strings.Builder
	for op := Op(0); op < numOps; op++ {
		if op > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(op.String())
		sb.WriteByte('=')
		sb.WriteString(k.families[op])
	}
	return sb.String()
}

// family is a complete kernel set for one instruction set, plus the
// smallest bpp at which each of its kernels beats the scalar one.
type family struct {
	level   hwy.DispatchLevel
	kernels Kernels

	// minBPP is indexed by Op; 0 means never select.
	minBPP [numOps]int
}

// available reports whether the CPU can run the family.
func (f *family) available(feat hwy.Features) bool {
	switch f.level {
	case hwy.DispatchSSE2:
		return feat.HasSSE2
	case hwy.DispatchSSE41:
		return feat.HasSSE41
	case hwy.DispatchAVX:
		return feat.HasAVX
	case hwy.DispatchNEON:
		return feat.HasNEON
	default:
		return true
	}
}

// use replaces the kernel for op with the family's.
func (k *Kernels) use(f *family, op Op) {
	switch op {
	case OpSub:
		k.Sub = f.kernels.Sub
	case OpUp:
		k.Up = f.kernels.Up
	case OpAverage:
		k.Average = f.kernels.Average
	case OpAverageTop:
		k.AverageTop = f.kernels.AverageTop
	case OpPaeth:
		k.Paeth = f.kernels.Paeth
	}
	k.families[op] = f.level.String()
}

// baseKernels is the scalar set every selection starts from.
var baseKernels = Kernels{
	Sub:        BaseReconSub,
	Up:         BaseReconUp,
	Average:    BaseReconAverage,
	AverageTop: BaseReconAverageTop,
	Paeth:      BaseReconPaeth,
	families:   [numOps]string{"scalar", "scalar", "scalar", "scalar", "scalar"},
}

// SelectKernels returns the fastest kernel for every operation at this bpp
// on the running CPU. It panics if bpp is outside [1, 8].
func SelectKernels(bpp int) Kernels {
	return selectKernels(bpp, hwy.CurrentFeatures(), vectorFamilies)
}

// selectKernels overrides the scalar kernels with each available family in
// order, for the operations whose threshold bpp reaches. Later families
// win, so families are listed from oldest to newest instruction set.
func selectKernels(bpp int, feat hwy.Features, families []family) Kernels {
	checkBPP(bpp)

	k := baseKernels
	for i := range families {
		f := &families[i]
		if !f.available(feat) {
			continue
		}
		for op := Op(0); op < numOps; op++ {
			if t := f.minBPP[op]; t > 0 && bpp >= t {
				k.use(f, op)
			}
		}
	}
	return k
}
