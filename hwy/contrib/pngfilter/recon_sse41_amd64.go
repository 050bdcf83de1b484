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

// SSE4.1 kernels. They require hwy.Features.HasSSE41 and are only reached
// through SelectKernels.
//
// SSE4.1 adds nothing that Sub, Up or Average can use, so those entries of
// the family are the SSE2 kernels. Paeth gets pabsw and pblendvb.

// reconPaethSSE41 is BaseReconPaeth on SSE4.1.
func reconPaethSSE41(row, prev []byte, bpp int) {
	checkBPP(bpp)
	debugCheckRow(row, prev, bpp)

	var zero, a, c xmm
	n := wholeGroups(min(len(row), len(prev)), bpp)
	for i := 0; i < n; i += bpp {
		group := row[i : i+bpp]
		x := movq(group)
		b := punpcklbw(movq(prev[i:i+bpp]), zero)

		p := psubw(paddw(a, b), c)
		pa := pabsw(psubw(p, a))
		pb := pabsw(psubw(p, b))
		pc := pabsw(psubw(p, c))

		// x <= y is (y > x) | (x == y); pcmpgtw is the only ordered compare.
		paLePb := por(pcmpgtw(pb, pa), pcmpeqw(pa, pb))
		paLePc := por(pcmpgtw(pc, pa), pcmpeqw(pa, pc))
		pbLePc := por(pcmpgtw(pc, pb), pcmpeqw(pb, pc))

		bOrC := pblendvb(c, b, pbLePc)
		pred := pblendvb(bOrC, a, pand(paLePb, paLePc))

		x = paddb(x, packuswb(pred, zero))
		x.movq(group)
		a = punpcklbw(x, zero)
		c = b
	}
}
