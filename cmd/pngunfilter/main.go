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

// Command pngunfilter inflates the image data of PNG files and reverses the
// per-row filters, reporting the kernels used and optionally writing the raw
// pixel rows.
//
// Usage:
//
//	pngunfilter [flags] file.png...
//	pngunfilter -o out -stats a.png b.png   # writes out/a.raw and out/b.raw
//	HWY_NO_SIMD=1 pngunfilter a.png         # scalar kernels only
//
// The .raw output holds every reconstructed row without its filter type
// byte, pass after pass for interlaced images. Colour interpretation is
// left to the consumer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-pngfilter/hwy"
	"github.com/ajroetker/go-pngfilter/hwy/contrib/workerpool"
)

var (
	outDir  = flag.String("o", "", "Directory to write <name>.raw pixel rows to (default: don't write)")
	quiet   = flag.Bool("q", false, "Only report errors")
	strict  = flag.Bool("strict", false, "Reject rows with a filter type above 4 instead of leaving them unchanged")
	stats   = flag.Bool("stats", false, "Print the number of rows per filter type")
	workers = flag.Int("j", runtime.GOMAXPROCS(0), "Number of files and passes processed concurrently")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] file.png...\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: no input files\n\n")
		flag.Usage()
		os.Exit(1)
	}
	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	opts := options{outDir: *outDir, strict: *strict, stats: *stats}
	results, err := run(context.Background(), flag.Args(), opts, *workers)
	if !*quiet {
		fmt.Printf("dispatch level: %s\n", hwy.CurrentName())
		for _, r := range results {
			if r == nil {
				continue
			}
			fmt.Println(r)
			if opts.stats {
				fmt.Println(r.statsString())
			}
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run processes paths with at most jobs files in flight. Results are in
// the order of paths; files not processed because of an earlier failure
// are nil.
func run(ctx context.Context, paths []string, opts options, jobs int) ([]*result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	pool := workerpool.New(jobs)
	defer pool.Close()

	results := make([]*result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := processFile(path, opts, pool)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	return results, g.Wait()
}
