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

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajroetker/go-pngfilter/hwy/contrib/pngfilter"
	"github.com/ajroetker/go-pngfilter/hwy/contrib/workerpool"
)

// adam7 holds the origin and step of the seven interlace passes.
var adam7 = [7]struct{ xOff, yOff, xStep, yStep int }{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// pass is one independently filtered sub-image of the IDAT stream.
type pass struct {
	width, height int
	offset        int // into the inflated data
	rowLen        int
}

func (p pass) size() int { return p.height * p.rowLen }

// passes splits the inflated stream into its reduced images: one for a
// plain image, up to seven for Adam7. Empty passes carry no bytes at all,
// not even filter types, and are left out.
func (h header) passes() []pass {
	if !h.interlaced {
		return []pass{{width: h.width, height: h.height, rowLen: h.rowLen(h.width)}}
	}
	var out []pass
	offset := 0
	for _, p := range adam7 {
		w := (h.width - p.xOff + p.xStep - 1) / p.xStep
		ht := (h.height - p.yOff + p.yStep - 1) / p.yStep
		if w <= 0 || ht <= 0 {
			continue
		}
		ps := pass{width: w, height: ht, offset: offset, rowLen: h.rowLen(w)}
		out = append(out, ps)
		offset += ps.size()
	}
	return out
}

// dataSize is the length of the filtered stream the header calls for.
func (h header) dataSize() int {
	n := 0
	for _, p := range h.passes() {
		n += p.size()
	}
	return n
}

// options are the command-line switches that affect a single file.
type options struct {
	outDir string
	strict bool
	stats  bool
}

// result describes one processed file.
type result struct {
	path      string
	hdr       header
	passes    int
	kernels   pngfilter.Kernels
	histogram [6]int
	written   string
}

func (r *result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s bpp=%d passes=%d kernels[%s]",
		r.path, r.hdr, r.hdr.bytesPerPixel(), r.passes, r.kernels)
	if r.written != "" {
		fmt.Fprintf(&sb, " -> %s", r.written)
	}
	return sb.String()
}

// filterOps maps each filter type to the operation that reverses it on
// rows after the first.
var filterOps = map[pngfilter.FilterType]pngfilter.Op{
	pngfilter.FilterSub:     pngfilter.OpSub,
	pngfilter.FilterUp:      pngfilter.OpUp,
	pngfilter.FilterAverage: pngfilter.OpAverage,
	pngfilter.FilterPaeth:   pngfilter.OpPaeth,
}

// statsString formats the per filter type row counts, with the kernel
// family that reconstructed them.
func (r *result) statsString() string {
	var sb strings.Builder
	sb.WriteString("  rows:")
	for ft := range pngfilter.FilterType(5) {
		fmt.Fprintf(&sb, " %s=%d", ft, r.histogram[ft])
		if op, ok := filterOps[ft]; ok && r.histogram[ft] > 0 {
			fmt.Fprintf(&sb, "(%s)", r.kernels.Family(op))
		}
	}
	fmt.Fprintf(&sb, " invalid=%d", r.histogram[5])
	return sb.String()
}

// processFile reads, unfilters and optionally writes one PNG file.
func processFile(path string, opts options, pool *workerpool.Pool) (*result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	hdr, data, err := readPNG(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	res, err := unfilterImage(hdr, data, opts.strict, pool)
	if err != nil {
		return nil, err
	}
	res.path = path

	if opts.outDir != "" {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".raw"
		out := filepath.Join(opts.outDir, name)
		if err := os.WriteFile(out, stripFilterTypes(hdr, data), 0o644); err != nil {
			return nil, fmt.Errorf("writing pixels: %w", err)
		}
		res.written = out
	}
	return res, nil
}

// unfilterImage reconstructs every pass of data in place.
func unfilterImage(hdr header, data []byte, strict bool, pool *workerpool.Pool) (*result, error) {
	bpp := hdr.bytesPerPixel()
	passes := hdr.passes()

	res := &result{hdr: hdr, passes: len(passes), kernels: pngfilter.SelectKernels(bpp)}
	images := make([]pngfilter.Image, len(passes))
	for i, p := range passes {
		if p.offset+p.size() > len(data) {
			return nil, FormatError("not enough pixel data")
		}
		buf := data[p.offset : p.offset+p.size()]
		if strict {
			if err := pngfilter.ValidateFilterTypes(buf, p.rowLen); err != nil {
				return nil, fmt.Errorf("pass %d: %w", i, err)
			}
		}
		h := pngfilter.Histogram(buf, p.rowLen)
		for ft, n := range h {
			res.histogram[ft] += n
		}
		images[i] = pngfilter.Image{Data: buf, RowLen: p.rowLen, BPP: bpp}
	}

	pngfilter.UnfilterBatch(pool, images)
	return res, nil
}

// stripFilterTypes returns the reconstructed pixel rows of every pass,
// concatenated without their filter type bytes.
func stripFilterTypes(hdr header, data []byte) []byte {
	var out []byte
	for _, p := range hdr.passes() {
		for y := range p.height {
			row := data[p.offset+y*p.rowLen : p.offset+(y+1)*p.rowLen]
			out = append(out, row[1:]...)
		}
	}
	return out
}
