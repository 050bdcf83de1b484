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
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// maxChunkLength is the largest chunk length PNG allows (2^31 - 1).
const maxChunkLength = 0x7fffffff

// A FormatError reports that the input is not a valid PNG.
type FormatError string

func (e FormatError) Error() string { return "png: invalid format: " + string(e) }

// An UnsupportedError reports that the input uses a valid but unimplemented
// PNG feature.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "png: unsupported feature: " + string(e) }

// Color types.
const (
	ctGrayscale      = 0
	ctTrueColor      = 2
	ctPaletted       = 3
	ctGrayscaleAlpha = 4
	ctTrueColorAlpha = 6
)

// header is the decoded IHDR chunk.
type header struct {
	width, height int
	depth         int
	colorType     int
	interlaced    bool
}

// channels returns the samples per pixel, or 0 for an invalid color type.
func (h header) channels() int {
	switch h.colorType {
	case ctGrayscale, ctPaletted:
		return 1
	case ctGrayscaleAlpha:
		return 2
	case ctTrueColor:
		return 3
	case ctTrueColorAlpha:
		return 4
	}
	return 0
}

func (h header) bitsPerPixel() int {
	return h.channels() * h.depth
}

// bytesPerPixel is the filter distance: whole bytes per pixel, rounded up
// to 1 for sub-byte depths.
func (h header) bytesPerPixel() int {
	return max(1, h.bitsPerPixel()/8)
}

// rowLen returns the filtered row length, type byte included, for a row of
// width pixels.
func (h header) rowLen(width int) int {
	return 1 + (h.bitsPerPixel()*width+7)/8
}

// validDepth reports whether the bit depth is allowed for the color type.
func (h header) validDepth() bool {
	switch h.colorType {
	case ctGrayscale:
		return h.depth == 1 || h.depth == 2 || h.depth == 4 || h.depth == 8 || h.depth == 16
	case ctPaletted:
		return h.depth == 1 || h.depth == 2 || h.depth == 4 || h.depth == 8
	case ctTrueColor, ctGrayscaleAlpha, ctTrueColorAlpha:
		return h.depth == 8 || h.depth == 16
	}
	return false
}

func (h header) String() string {
	interlace := ""
	if h.interlaced {
		interlace = " adam7"
	}
	return fmt.Sprintf("%dx%d depth=%d color=%d%s", h.width, h.height, h.depth, h.colorType, interlace)
}

// chunkReader walks the chunks of a PNG stream, verifying each CRC.
type chunkReader struct {
	r   io.Reader
	tmp [8]byte
}

// next returns the type and payload of the next chunk.
func (cr *chunkReader) next() (string, []byte, error) {
	if _, err := io.ReadFull(cr.r, cr.tmp[:8]); err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil, FormatError("missing IEND")
		}
		return "", nil, err
	}
	length := binary.BigEndian.Uint32(cr.tmp[:4])
	if length > maxChunkLength {
		return "", nil, FormatError(fmt.Sprintf("bad chunk length: %d", length))
	}
	typ := string(cr.tmp[4:8])

	crc := crc32.NewIEEE()
	crc.Write(cr.tmp[4:8])
	var payload bytes.Buffer
	if _, err := io.CopyN(io.MultiWriter(&payload, crc), cr.r, int64(length)); err != nil {
		return "", nil, unexpectedEOF(err)
	}
	if _, err := io.ReadFull(cr.r, cr.tmp[:4]); err != nil {
		return "", nil, unexpectedEOF(err)
	}
	if binary.BigEndian.Uint32(cr.tmp[:4]) != crc.Sum32() {
		return "", nil, FormatError("invalid checksum in " + typ)
	}
	return typ, payload.Bytes(), nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func parseIHDR(b []byte) (header, error) {
	if len(b) != 13 {
		return header{}, FormatError("bad IHDR length")
	}
	if b[10] != 0 {
		return header{}, UnsupportedError("compression method")
	}
	if b[11] != 0 {
		return header{}, UnsupportedError("filter method")
	}
	if b[12] > 1 {
		return header{}, FormatError("bad interlace method")
	}
	w := int32(binary.BigEndian.Uint32(b[0:4]))
	h := int32(binary.BigEndian.Uint32(b[4:8]))
	if w <= 0 || h <= 0 {
		return header{}, FormatError("non-positive dimension")
	}
	hdr := header{
		width:      int(w),
		height:     int(h),
		depth:      int(b[8]),
		colorType:  int(b[9]),
		interlaced: b[12] == 1,
	}
	if !hdr.validDepth() {
		return header{}, UnsupportedError(fmt.Sprintf("bit depth %d, color type %d", hdr.depth, hdr.colorType))
	}
	// Up to 8 bytes per pixel; keep the filtered size within an int.
	if int64(hdr.height)*int64(hdr.rowLen(hdr.width)) > int64(maxInt/2) {
		return header{}, UnsupportedError("dimension overflow")
	}
	return hdr, nil
}

const maxInt = int(^uint(0) >> 1)

// readPNG parses a PNG stream up to IEND and returns its header and the
// inflated, still filtered image data.
func readPNG(r io.Reader) (header, []byte, error) {
	var sig [len(pngSignature)]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return header{}, nil, unexpectedEOF(err)
	}
	if string(sig[:]) != pngSignature {
		return header{}, nil, FormatError("not a PNG file")
	}

	cr := &chunkReader{r: r}
	var (
		hdr     header
		seenHdr bool
		idat    bytes.Buffer
		idatEnd bool
	)
	for {
		typ, payload, err := cr.next()
		if err != nil {
			return header{}, nil, err
		}
		switch typ {
		case "IHDR":
			if seenHdr {
				return header{}, nil, FormatError("chunk out of order")
			}
			if hdr, err = parseIHDR(payload); err != nil {
				return header{}, nil, err
			}
			seenHdr = true
		case "IDAT":
			if !seenHdr || idatEnd {
				return header{}, nil, FormatError("chunk out of order")
			}
			idat.Write(payload)
		case "IEND":
			if idat.Len() == 0 {
				return header{}, nil, FormatError("no IDAT")
			}
			data, err := inflate(idat.Bytes(), hdr.dataSize())
			if err != nil {
				return header{}, nil, err
			}
			return hdr, data, nil
		default:
			if !seenHdr {
				return header{}, nil, FormatError("chunk out of order")
			}
			// IDAT chunks must be consecutive.
			if idat.Len() > 0 {
				idatEnd = true
			}
		}
	}
}

// inflate decompresses the IDAT stream, reading at most one byte more than
// the want bytes the header calls for so that a small stream cannot expand
// without bound.
func inflate(compressed []byte, want int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("inflating IDAT: %w", err)
	}
	defer zr.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(io.LimitReader(zr, int64(want)+1)); err != nil {
		return nil, fmt.Errorf("inflating IDAT: %w", err)
	}
	if out.Len() > want {
		return nil, FormatError("too much pixel data")
	}
	return out.Bytes(), nil
}
