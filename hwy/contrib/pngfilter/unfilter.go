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

import "fmt"

// UnfilterLines reconstructs every row of data in place.
//
// data holds consecutive rows of rowLen bytes: a filter type byte followed
// by rowLen-1 payload bytes, normally 1 + width*bpp. A trailing fragment
// shorter than rowLen is not a row and is left alone. Rows are processed
// top to bottom; afterwards every filter type byte is 0.
//
// Filter types above 4 leave the payload unchanged. Kernels are selected
// once per call with SelectKernels. Nothing is allocated.
//
// UnfilterLines panics if bpp is outside [1, 8] or rowLen < 1. Builds with
// the pngfilter_debug tag also panic if rowLen-1 is not a multiple of bpp.
//
// Calls on disjoint buffers may run concurrently.
func UnfilterLines(data []byte, rowLen, bpp int) {
	checkBPP(bpp)
	checkRowLen(rowLen, bpp)

	k := SelectKernels(bpp)
	k.unfilterLines(data, rowLen, bpp)
}

func (k *Kernels) unfilterLines(data []byte, rowLen, bpp int) {
	var prev []byte
	for ; len(data) >= rowLen; data = data[rowLen:] {
		prev = k.reconstructRow(data[:rowLen:rowLen], prev, bpp)
	}
}

func checkRowLen(rowLen, bpp int) {
	if rowLen < 1 {
		panic(fmt.Sprintf("pngfilter: row length %d has no room for the filter type", rowLen))
	}
	if debugChecks && (rowLen-1)%bpp != 0 {
		panic(fmt.Sprintf("pngfilter: row payload %d is not a multiple of bpp %d", rowLen-1, bpp))
	}
}

// reconstructRow reconstructs row (filter type byte included) against the
// payload of the row above, nil for the first row of an image. It clears
// the filter type and returns row's payload, which is the next call's prev.
func (k *Kernels) reconstructRow(row, prev []byte, bpp int) []byte {
	payload := row[1:]
	ft := FilterType(row[0])
	if prev == nil {
		// First row: b and c are zero. Up adds nothing, Average halves the
		// left neighbour and Paeth always predicts a, which is Sub.
		switch ft {
		case FilterSub, FilterPaeth:
			k.Sub(payload, bpp)
		case FilterAverage:
			k.AverageTop(payload, bpp)
		}
	} else {
		switch ft {
		case FilterSub:
			k.Sub(payload, bpp)
		case FilterUp:
			k.Up(payload, prev)
		case FilterAverage:
			k.Average(payload, prev, bpp)
		case FilterPaeth:
			k.Paeth(payload, prev, bpp)
		}
	}
	row[0] = byte(FilterNone)
	return payload
}

// Reconstructor unfilters an image one row at a time, for decoders that
// read rows from a stream instead of holding the whole image.
//
// It keeps a reference to the previous row's payload: the caller must not
// modify or reuse a row's buffer until the following row has been passed
// to Row. Two alternating row buffers are enough.
//
// A Reconstructor is not safe for concurrent use.
type Reconstructor struct {
	bpp     int
	kernels Kernels
	prev    []byte
}

// NewReconstructor returns a Reconstructor for images with bpp bytes per
// pixel, with kernels selected for the running CPU. It panics if bpp is
// outside [1, 8].
func NewReconstructor(bpp int) *Reconstructor {
	return &Reconstructor{bpp: bpp, kernels: SelectKernels(bpp)}
}

// Row reconstructs the next row in place, filter type byte included, and
// sets the filter type to 0. All rows of an image must have the same length.
func (r *Reconstructor) Row(row []byte) {
	if len(row) == 0 {
		panic("pngfilter: empty row has no filter type")
	}
	if debugChecks {
		checkRowLen(len(row), r.bpp)
	}
	r.prev = r.kernels.reconstructRow(row, r.prev, r.bpp)
}

// Reset forgets the previous row so the next Row call is treated as the
// first row of a new image, such as the next Adam7 pass.
func (r *Reconstructor) Reset() {
	r.prev = nil
}

// Kernels returns the kernels the Reconstructor dispatches to.
func (r *Reconstructor) Kernels() Kernels {
	return r.kernels
}
