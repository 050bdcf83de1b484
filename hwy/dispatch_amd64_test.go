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

package hwy

import (
	"testing"

	"golang.org/x/sys/cpu"
)

func TestDetectCPUFeatures(t *testing.T) {
	f := detectCPUFeatures(false, false)
	if f.HasSSE2 != cpu.X86.HasSSE2 {
		t.Errorf("HasSSE2 = %v, cpu reports %v", f.HasSSE2, cpu.X86.HasSSE2)
	}
	if want := cpu.X86.HasSSE2 && cpu.X86.HasSSE41 && cpu.X86.HasSSSE3; f.HasSSE41 != want {
		t.Errorf("HasSSE41 = %v, want %v", f.HasSSE41, want)
	}
	if want := cpu.X86.HasSSE2 && archsimdAVX(); f.HasAVX != want {
		t.Errorf("HasAVX = %v, want %v", f.HasAVX, want)
	}
	if f.HasAVX && !cpu.X86.HasAVX {
		t.Error("HasAVX set but cpu reports no AVX")
	}
	if f.HasNEON {
		t.Error("HasNEON set on amd64")
	}
}

func TestDetectCPUFeaturesCaps(t *testing.T) {
	f := detectCPUFeatures(false, false)

	noAVX := detectCPUFeatures(false, true)
	if noAVX.HasAVX {
		t.Error("noAVX did not cap the level below AVX")
	}
	if noAVX.HasSSE41 != f.HasSSE41 || noAVX.HasSSE2 != f.HasSSE2 {
		t.Error("noAVX changed the SSE features")
	}

	noSSE41 := detectCPUFeatures(true, false)
	if noSSE41.HasSSE41 || noSSE41.HasAVX {
		t.Error("noSSE41 did not cap the level at SSE2")
	}
	if noSSE41.HasSSE2 != f.HasSSE2 {
		t.Error("noSSE41 changed HasSSE2")
	}
}
