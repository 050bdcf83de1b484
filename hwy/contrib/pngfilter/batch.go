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

import "github.com/ajroetker/go-pngfilter/hwy/contrib/workerpool"

// Image is one filtered image (or one Adam7 pass) awaiting reconstruction,
// in the layout UnfilterLines takes.
type Image struct {
	Data   []byte
	RowLen int
	BPP    int
}

// smallImageBytes is the amount of data below which images are handed to
// a worker several at a time.
const smallImageBytes = 16 << 10

// UnfilterBatch reconstructs every image in place, spreading images across
// the workers of pool. Rows within an image are still processed in order by
// a single worker. A nil pool processes the images one after another on the
// calling goroutine.
//
// Tiny images, such as the first Adam7 passes, are claimed in batches of
// up to about smallImageBytes, but never so many that a worker goes idle.
//
// The Data buffers must not overlap. Parameters are checked for every image
// before any work starts, so a bad BPP or RowLen panics on the calling
// goroutine with no image modified.
func UnfilterBatch(pool *workerpool.Pool, images []Image) {
	var kernels [MaxBytesPerPixel + 1]*Kernels
	for i := range images {
		img := &images[i]
		checkBPP(img.BPP)
		checkRowLen(img.RowLen, img.BPP)
		if kernels[img.BPP] == nil {
			k := SelectKernels(img.BPP)
			kernels[img.BPP] = &k
		}
	}

	pool.ForEachBatch(len(images), batchSize(pool, images), func(start, end int) {
		for i := start; i < end; i++ {
			img := &images[i]
			kernels[img.BPP].unfilterLines(img.Data, img.RowLen, img.BPP)
		}
	})
}

// batchSize returns how many images a worker claims at a time.
func batchSize(pool *workerpool.Pool, images []Image) int {
	if len(images) == 0 {
		return 1
	}
	total := 0
	for i := range images {
		total += len(images[i].Data)
	}
	avg := max(total/len(images), 1)
	if avg >= smallImageBytes {
		return 1
	}
	perWorker := (len(images) + pool.NumWorkers() - 1) / pool.NumWorkers()
	return max(min(smallImageBytes/avg, perWorker), 1)
}
