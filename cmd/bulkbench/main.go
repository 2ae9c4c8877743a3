// Copyright 2026 go-bulk Authors
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

// Package main provides bulkbench, a benchmark tool comparing the
// group-cooperative scan against the sequential reference.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-bulk/bulk"
)

func main() {
	var (
		n         = pflag.IntP("elements", "n", 1<<20, "number of input elements")
		groupSize = pflag.IntP("workers", "w", bulk.DefaultPar().GroupSize, "workers per group (power of two)")
		grain     = pflag.IntP("grain", "g", bulk.DefaultGrain, "elements per worker per tile")
		runs      = pflag.IntP("runs", "r", 10, "timed repetitions per variant")
		exclusive = pflag.Bool("exclusive", false, "benchmark the exclusive scan instead of the inclusive")
	)
	pflag.Parse()

	if err := run(*n, *groupSize, *grain, *runs, *exclusive); err != nil {
		fmt.Fprintln(os.Stderr, "bulkbench:", err)
		os.Exit(1)
	}
}

func run(n, groupSize, grain, runs int, exclusive bool) error {
	src := make([]int64, n)
	for i := range src {
		src[i] = int64(i%97 - 48)
	}
	dst := make([]int64, n)
	ref := make([]int64, n)
	add := func(a, b int64) int64 { return a + b }

	mode := "inclusive"
	if exclusive {
		mode = "exclusive"
	}

	p := message.NewPrinter(language.English)
	p.Printf("scan: %s, %d elements, %d workers × grain %d (tile %d)\n",
		mode, n, groupSize, grain, groupSize*grain)

	seq := time.Duration(1<<63 - 1)
	for i := 0; i < runs; i++ {
		start := time.Now()
		acc := int64(0)
		for j, v := range src {
			if exclusive {
				ref[j] = acc
				acc += v
			} else {
				acc += v
				ref[j] = acc
			}
		}
		seq = min(seq, time.Since(start))
	}

	cfg := bulk.Par(groupSize, grain)
	par := time.Duration(1<<63 - 1)
	for i := 0; i < runs; i++ {
		start := time.Now()
		err := cfg.Run(func(w *bulk.Worker) {
			if exclusive {
				bulk.ExclusiveScan(w, src, dst, 0, add)
			} else {
				bulk.InclusiveScanWithInit(w, src, dst, 0, add)
			}
		})
		if err != nil {
			return err
		}
		par = min(par, time.Since(start))
	}

	for i := range ref {
		if dst[i] != ref[i] {
			return fmt.Errorf("result mismatch at %d: got %d, want %d", i, dst[i], ref[i])
		}
	}

	p.Printf("sequential:  %v  (%d elements/s)\n", seq, rate(n, seq))
	p.Printf("cooperative: %v  (%d elements/s)\n", par, rate(n, par))
	p.Printf("speedup: %.2fx\n", float64(seq)/float64(par))
	return nil
}

func rate(n int, d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(float64(n) / d.Seconds())
}
