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

import (
	"testing"

	"github.com/ajroetker/go-pngfilter/hwy"
	"github.com/google/go-cmp/cmp"
)

// The sse families only replace the byte loop where BenchmarkKernels shows
// them ahead of it.
func TestSSEFamiliesThresholds(t *testing.T) {
	feat := hwy.Features{HasSSE2: true, HasSSE41: true}
	tests := []struct {
		bpp  int
		want [numOps]string
	}{
		{1, [numOps]string{"scalar", "sse2", "scalar", "scalar", "scalar"}},
		{3, [numOps]string{"scalar", "sse2", "scalar", "scalar", "scalar"}},
		{4, [numOps]string{"scalar", "sse2", "scalar", "scalar", "scalar"}},
		{6, [numOps]string{"scalar", "sse2", "scalar", "scalar", "scalar"}},
		{8, [numOps]string{"sse2", "sse2", "scalar", "scalar", "sse4.1"}},
	}
	for _, tt := range tests {
		k := selectKernels(tt.bpp, feat, sseFamilies)
		var got [numOps]string
		for op := Op(0); op < numOps; op++ {
			got[op] = k.Family(op)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("bpp=%d families (-want +got):\n%s", tt.bpp, diff)
		}
	}
}

func TestVectorFamiliesOrder(t *testing.T) {
	var levels []hwy.DispatchLevel
	for _, f := range vectorFamilies {
		levels = append(levels, f.level)
	}
	want := []hwy.DispatchLevel{hwy.DispatchSSE2, hwy.DispatchSSE41}
	for _, f := range avxFamilies {
		want = append(want, f.level)
	}
	if diff := cmp.Diff(want, levels); diff != "" {
		t.Errorf("family order (-want +got):\n%s", diff)
	}
}
