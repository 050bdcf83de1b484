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
	"math/rand/v2"
	"testing"

	"github.com/ajroetker/go-pngfilter/hwy"
	"github.com/google/go-cmp/cmp"
)

// runOp applies one operation of k to row.
func runOp(k *Kernels, op Op, row, prev []byte, bpp int) {
	switch op {
	case OpSub:
		k.Sub(row, bpp)
	case OpUp:
		k.Up(row, prev)
	case OpAverage:
		k.Average(row, prev, bpp)
	case OpAverageTop:
		k.AverageTop(row, bpp)
	case OpPaeth:
		k.Paeth(row, prev, bpp)
	}
}

// randomBytes fills b, favouring the values where wraparound and
// saturation bugs show up.
func randomBytes(rng *rand.Rand, b []byte) {
	edges := [...]byte{0, 1, 2, 127, 128, 129, 254, 255}
	for i := range b {
		if rng.IntN(3) == 0 {
			b[i] = edges[rng.IntN(len(edges))]
		} else {
			b[i] = byte(rng.Uint32())
		}
	}
}

// availableFamilies returns the vector families the running CPU supports.
func availableFamilies(t *testing.T) []*family {
	t.Helper()
	feat := hwy.CurrentFeatures()
	var out []*family
	for i := range vectorFamilies {
		f := &vectorFamilies[i]
		if f.available(feat) {
			out = append(out, f)
		} else {
			t.Logf("skipping %s: not supported by this CPU", f.level)
		}
	}
	if len(out) == 0 {
		t.Skip("no vector kernel family available")
	}
	return out
}

// ============================================================================
// Family equivalence
// ============================================================================

func TestFamiliesMatchBaseRandom(t *testing.T) {
	for _, f := range availableFamilies(t) {
		t.Run(f.level.String(), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(uint64(f.level), 99))
			for bpp := 1; bpp <= MaxBytesPerPixel; bpp++ {
				for op := Op(0); op < numOps; op++ {
					for trial := range 300 {
						n := bpp * rng.IntN(40)
						if !debugChecks && op != OpUp {
							n += rng.IntN(bpp)
						}
						row := make([]byte, n)
						prev := make([]byte, n)
						randomBytes(rng, row)
						randomBytes(rng, prev)

						want, got := clone(row), clone(row)
						runOp(&baseKernels, op, want, prev, bpp)
						runOp(&f.kernels, op, got, prev, bpp)
						if diff := cmp.Diff(want, got); diff != "" {
							t.Fatalf("%s bpp=%d trial=%d len=%d\nrow=%v\nprev=%v\n(-base +%s):\n%s",
								op, bpp, trial, n, row, prev, f.level, diff)
						}
					}
				}
			}
		})
	}
}

// TestFamiliesPaethExhaustive covers every (a, b, c) triple. Each call
// tests eight triples: the first pixel reconstructs to a in every lane and
// the second pixel then sees a, b and c = prev of the first pixel.
func TestFamiliesPaethExhaustive(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive test skipped in short mode")
	}
	const bpp = 8
	for _, f := range availableFamilies(t) {
		t.Run(f.level.String(), func(t *testing.T) {
			row := make([]byte, 2*bpp)
			prev := make([]byte, 2*bpp)
			for a := range 256 {
				for b := range 256 {
					for c0 := 0; c0 < 256; c0 += bpp {
						for i := range bpp {
							c := byte(c0 + i)
							prev[i], prev[bpp+i] = c, byte(b)
							// First pixel: Paeth predicts b = c, so this
							// reconstructs to a.
							row[i], row[bpp+i] = byte(a)-c, 0
						}
						f.kernels.Paeth(row, prev, bpp)
						for i := range bpp {
							c := c0 + i
							if row[i] != byte(a) {
								t.Fatalf("first pixel lane %d = %d, want %d", i, row[i], a)
							}
							if want := refPaeth(a, b, c); row[bpp+i] != want {
								t.Fatalf("Paeth(a=%d, b=%d, c=%d) = %d, want %d", a, b, c, row[bpp+i], want)
							}
						}
					}
				}
			}
		})
	}
}

// TestFamiliesAverageExhaustive covers every (a, b) pair.
func TestFamiliesAverageExhaustive(t *testing.T) {
	const bpp = 8
	for _, f := range availableFamilies(t) {
		t.Run(f.level.String(), func(t *testing.T) {
			row := make([]byte, 2*bpp)
			prev := make([]byte, 2*bpp)
			top := make([]byte, 2*bpp)
			for a := range 256 {
				for b0 := 0; b0 < 256; b0 += bpp {
					for i := range bpp {
						prev[i], prev[bpp+i] = 0, byte(b0+i)
						row[i], row[bpp+i] = byte(a), 0
						top[i], top[bpp+i] = byte(a), 0
					}
					f.kernels.Average(row, prev, bpp)
					f.kernels.AverageTop(top, bpp)
					for i := range bpp {
						b := b0 + i
						if want := byte((a + b) / 2); row[bpp+i] != want {
							t.Fatalf("Average(a=%d, b=%d) = %d, want %d", a, b, row[bpp+i], want)
						}
						if want := byte(a / 2); top[bpp+i] != want {
							t.Fatalf("AverageTop(a=%d) = %d, want %d", a, top[bpp+i], want)
						}
					}
				}
			}
		})
	}
}

// TestFamiliesSubUpExhaustive covers every byte pair for the additive filters.
func TestFamiliesSubUpExhaustive(t *testing.T) {
	const bpp = 8
	for _, f := range availableFamilies(t) {
		t.Run(f.level.String(), func(t *testing.T) {
			sub := make([]byte, 2*bpp)
			up := make([]byte, 2*bpp)
			prev := make([]byte, 2*bpp)
			for x := range 256 {
				for y0 := 0; y0 < 256; y0 += bpp {
					for i := range bpp {
						sub[i], sub[bpp+i] = byte(y0+i), byte(x)
						up[i], up[bpp+i] = byte(x), byte(x)
						prev[i], prev[bpp+i] = byte(y0+i), byte(y0+i)
					}
					f.kernels.Sub(sub, bpp)
					f.kernels.Up(up, prev)
					for i := range bpp {
						want := byte(x + y0 + i)
						if sub[bpp+i] != want {
							t.Fatalf("Sub(%d, a=%d) = %d, want %d", x, y0+i, sub[bpp+i], want)
						}
						if up[i] != want || up[bpp+i] != want {
							t.Fatalf("Up(%d, b=%d) = %d/%d, want %d", x, y0+i, up[i], up[bpp+i], want)
						}
					}
				}
			}
		})
	}
}

func TestFamiliesFirstRowPaethIsSub(t *testing.T) {
	for _, f := range availableFamilies(t) {
		rng := rand.New(rand.NewPCG(7, uint64(f.level)))
		for bpp := 1; bpp <= MaxBytesPerPixel; bpp++ {
			row := make([]byte, bpp*17)
			randomBytes(rng, row)
			paeth, sub := clone(row), clone(row)
			f.kernels.Paeth(paeth, make([]byte, len(row)), bpp)
			f.kernels.Sub(sub, bpp)
			if diff := cmp.Diff(sub, paeth); diff != "" {
				t.Errorf("%s bpp=%d: Paeth on zero row differs from Sub (-sub +paeth):\n%s", f.level, bpp, diff)
			}
		}
	}
}

// ============================================================================
// Selection
// ============================================================================

func fakeFamilies() []family {
	return []family{
		{
			level:   hwy.DispatchSSE2,
			kernels: baseKernels,
			minBPP:  [numOps]int{OpSub: 4, OpUp: 1, OpAverage: 3, OpAverageTop: 3, OpPaeth: 6},
		},
		{
			level:   hwy.DispatchSSE41,
			kernels: baseKernels,
			minBPP:  [numOps]int{OpPaeth: 3},
		},
		{
			level:   hwy.DispatchAVX,
			kernels: baseKernels,
			minBPP:  [numOps]int{OpSub: 4, OpUp: 1, OpPaeth: 1},
		},
	}
}

func TestSelectKernels(t *testing.T) {
	tests := []struct {
		name string
		feat hwy.Features
		bpp  int
		want [numOps]string
	}{
		{
			name: "no features",
			feat: hwy.Features{},
			bpp:  8,
			want: [numOps]string{"scalar", "scalar", "scalar", "scalar", "scalar"},
		},
		{
			name: "sse2 below thresholds",
			feat: hwy.Features{HasSSE2: true},
			bpp:  1,
			want: [numOps]string{"scalar", "sse2", "scalar", "scalar", "scalar"},
		},
		{
			name: "sse2 rgb",
			feat: hwy.Features{HasSSE2: true},
			bpp:  3,
			want: [numOps]string{"scalar", "sse2", "sse2", "sse2", "scalar"},
		},
		{
			name: "sse2 rgba16",
			feat: hwy.Features{HasSSE2: true},
			bpp:  8,
			want: [numOps]string{"sse2", "sse2", "sse2", "sse2", "sse2"},
		},
		{
			name: "sse41 overrides paeth only",
			feat: hwy.Features{HasSSE2: true, HasSSE41: true},
			bpp:  3,
			want: [numOps]string{"scalar", "sse2", "sse2", "sse2", "sse4.1"},
		},
		{
			name: "sse41 wins over sse2",
			feat: hwy.Features{HasSSE2: true, HasSSE41: true},
			bpp:  8,
			want: [numOps]string{"sse2", "sse2", "sse2", "sse2", "sse4.1"},
		},
		{
			name: "avx overrides where its threshold allows",
			feat: hwy.Features{HasSSE2: true, HasSSE41: true, HasAVX: true},
			bpp:  3,
			want: [numOps]string{"scalar", "avx", "sse2", "sse2", "avx"},
		},
		{
			name: "avx needs its own feature bit",
			feat: hwy.Features{HasSSE2: true, HasSSE41: true},
			bpp:  1,
			want: [numOps]string{"scalar", "sse2", "scalar", "scalar", "scalar"},
		},
		{
			name: "neon feature does not enable x86 families",
			feat: hwy.Features{HasNEON: true},
			bpp:  8,
			want: [numOps]string{"scalar", "scalar", "scalar", "scalar", "scalar"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := selectKernels(tt.bpp, tt.feat, fakeFamilies())
			var got [numOps]string
			for op := Op(0); op < numOps; op++ {
				got[op] = k.Family(op)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("families mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectKernelsUsesRunningCPU(t *testing.T) {
	for bpp := 1; bpp <= MaxBytesPerPixel; bpp++ {
		k := SelectKernels(bpp)
		for op := Op(0); op < numOps; op++ {
			name := k.Family(op)
			if name == "" {
				t.Fatalf("bpp=%d: no family for %s", bpp, op)
			}
			if hwy.NoSimdEnv() && name != "scalar" {
				t.Errorf("bpp=%d: HWY_NO_SIMD set but %s uses %s", bpp, op, name)
			}
		}
	}
	t.Logf("level %s, bpp 4: %s", hwy.CurrentName(), SelectKernels(4))
}

func TestKernelsString(t *testing.T) {
	want := "sub=scalar up=scalar average=scalar average-top=scalar paeth=scalar"
	if got := baseKernels.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := baseKernels.Family(numOps); got != "" {
		t.Errorf("Family(out of range) = %q, want empty", got)
	}
}

func TestSelectKernelsPanicsOnBadBPP(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("SelectKernels(0) did not panic")
		}
	}()
	SelectKernels(0)
}
