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

// Package bulk provides group-cooperative parallel primitives: collectives
// executed in lockstep by a fixed-size team of workers sharing scratch
// memory and a barrier, in the style of GPU thread-block programming.
//
// A launch runs the same kernel on every worker of one or more groups:
//
//	cfg := bulk.Par(8, 4) // 8 workers, 4 elements per worker per tile
//	err := cfg.Run(func(w *bulk.Worker) {
//	    bulk.InclusiveScan(w, src, dst, func(a, b int) int { return a + b })
//	})
//
// Workers coordinate only through full-group barriers (Worker.Wait) and the
// collectives built on them. There are no locks and no per-element atomics:
// every phase of a collective either has each worker writing disjoint slots,
// or reads one buffer while writing another (ping-pong), with a barrier
// between phases.
//
// # Collectives
//
// The package provides prefix scans (InclusiveScan, InclusiveScanWithInit,
// ExclusiveScan), a fold (Reduce), and a bulk copy (CopyN). Scans process
// arbitrarily long inputs by tiling them into GroupSize*Grain chunks and
// threading a carry between tiles; results are identical regardless of how
// the input lands on tile boundaries.
//
// Collectives are group-wide calls: every worker of the group must reach the
// same call with the same arguments. Divergent control flow across workers
// that straddles a barrier is a programming error the package does not
// detect; the usual symptom is a hung group.
//
// # Scratch placement
//
// Each group owns a small resident arena with a fixed byte budget. Tile
// scratch that fits the budget is retained by the group between collective
// calls; oversized scratch falls back to one-shot heap allocations. The two
// placements run identical code and differ only in allocation traffic.
package bulk
