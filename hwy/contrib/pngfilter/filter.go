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
	"fmt"
	"strconv"
)

// FilterType is the tag byte at the start of every filtered row.
type FilterType uint8

// Filter types of PNG filter method 0.
const (
	FilterNone    FilterType = 0
	FilterSub     FilterType = 1
	FilterUp      FilterType = 2
	FilterAverage FilterType = 3
	FilterPaeth   FilterType = 4
)

// MaxBytesPerPixel is the widest pixel a PNG can describe (16-bit RGBA).
const MaxBytesPerPixel = 8

// String returns the lower-case filter name.
func (f FilterType) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterSub:
		return "sub"
	case FilterUp:
		return "up"
	case FilterAverage:
		return "average"
	case FilterPaeth:
		return "paeth"
	default:
		return "unknown(" + strconv.Itoa(int(f)) + ")"
	}
}

// Valid reports whether f is one of the five defined filter types.
func (f FilterType) Valid() bool {
	return f <= FilterPaeth
}

// FilterTypeError reports a row whose tag byte is not a defined filter type.
type FilterTypeError struct {
	Row  int
	Type FilterType
}

func (e *FilterTypeError) Error() string {
	return fmt.Sprintf("pngfilter: row %d: invalid filter type %d", e.Row, uint8(e.Type))
}

// ValidateFilterTypes checks the tag byte of every complete row of data
// without modifying anything. It returns a *FilterTypeError for the first
// tag above FilterPaeth.
//
// UnfilterLines deliberately accepts such rows and leaves their payload
// as-is; decoders that must reject malformed images call this first.
func ValidateFilterTypes(data []byte, rowLen int) error {
	if rowLen < 1 {
		return fmt.Errorf("pngfilter: invalid row length %d", rowLen)
	}
	for y := 0; (y+1)*rowLen <= len(data); y++ {
		if ft := FilterType(data[y*rowLen]); !ft.Valid() {
			return &FilterTypeError{Row: y, Type: ft}
		}
	}
	return nil
}

// Histogram counts the filter types of every complete row of data.
// Index 5 collects all undefined tags.
func Histogram(data []byte, rowLen int) [6]int {
	var h [6]int
	if rowLen < 1 {
		return h
	}
	for y := 0; (y+1)*rowLen <= len(data); y++ {
		h[min(int(data[y*rowLen]), 5)]++
	}
	return h
}
