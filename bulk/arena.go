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

package bulk

import "unsafe"

// Placement reports which storage served a scratch acquisition. It is
// informational only: the collectives run the same code under either
// placement, and results never depend on it.
type Placement uint8

const (
	// PlacementFast marks scratch served from, or eligible for, the group's
	// resident arena.
	PlacementFast Placement = iota

	// PlacementFallback marks scratch that exceeded the arena budget and was
	// served by a one-shot heap allocation.
	PlacementFallback
)

func (p Placement) String() string {
	if p == PlacementFast {
		return "fast"
	}
	return "fallback"
}

// arena is the group's resident scratch storage, the software analog of a
// fixed fast on-chip region: requests within the byte budget are served fast
// and their storage is retained across acquisitions; oversized requests fall
// back to fresh heap allocations that the arena never retains.
//
// Only worker 0 touches the arena, under the acquire/release barrier
// discipline, so it needs no locking of its own.
type arena struct {
	budget int
	cached any
}

// acquisition pairs a scratch buffer with its placement for the broadcast
// from worker 0 to the rest of the group.
type acquisition[T any] struct {
	buf       *scanBuffer[T]
	placement Placement
}

// acquireScanBuffer collectively obtains tile scratch for the group: 2W
// partial-sum slots plus a W*G staging area. Worker 0 serves the request
// from the arena when possible and broadcasts the result; every worker
// returns the same buffer and placement.
func acquireScanBuffer[T any](w *Worker) (*scanBuffer[T], Placement) {
	g := w.group
	var acq acquisition[T]
	if w.index == 0 {
		acq.placement = PlacementFallback
		if scanBufferBytes[T](g.size, g.grain) <= g.arena.budget {
			acq.placement = PlacementFast
			if cached, ok := g.arena.cached.(*scanBuffer[T]); ok {
				g.arena.cached = nil
				acq.buf = cached
			}
		}
		if acq.buf == nil {
			acq.buf = newScanBuffer[T](g.size, g.grain)
		}
	}
	acq = broadcast(w, acq)
	return acq.buf, acq.placement
}

// releaseScanBuffer collectively returns scratch obtained from
// acquireScanBuffer. Fast buffers go back to the arena; fallback buffers are
// left to the collector.
func releaseScanBuffer[T any](w *Worker, buf *scanBuffer[T], p Placement) {
	w.Wait()
	if w.index == 0 && p == PlacementFast {
		w.group.arena.cached = buf
	}
}

// scanBufferBytes reports the allocation size of a group's tile scratch for
// element type T, used to decide placement against the arena budget.
func scanBufferBytes[T any](size, grain int) int {
	var zero T
	return (2*size + size*grain) * int(unsafe.Sizeof(zero))
}
