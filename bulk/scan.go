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

// scanBuffer is one group's tile scratch, carved from a single allocation:
// sums holds W live partial sums plus W ping-pong slots for
// smallExclusiveScan; stage holds one tile of staged inputs and is rewritten
// in place with the tile's results. The two phases of stage share storage
// deliberately (the second full-tile region would double the footprint);
// the barrier between the local-fold pass and the result pass is what makes
// the destructive reuse safe.
type scanBuffer[T any] struct {
	sums  []T
	stage []T
}

func newScanBuffer[T any](size, grain int) *scanBuffer[T] {
	backing := make([]T, 2*size+size*grain)
	return &scanBuffer[T]{
		sums:  backing[:2*size],
		stage: backing[2*size:],
	}
}

// InclusiveScanWithInit collectively computes the inclusive prefix scan of
// src into dst, folding init in before the first element:
//
//	dst[i] = op(init, op(src[0], op(src[1], ... src[i])))
//
// op must be associative; src and dst must be the same length and may not
// overlap. Every worker of the group must make the call with the same
// arguments. An empty src writes nothing.
func InclusiveScanWithInit[T any](w *Worker, src, dst []T, init T, op func(T, T) T) {
	runScan(w, true, src, dst, init, op)
}

// InclusiveScan is the convenience variant of InclusiveScanWithInit that
// seeds the scan from the first element:
//
//	dst[0] = src[0]
//	dst[i] = op(src[0], op(src[1], ... src[i]))
//
// Note the asymmetry: src[0] is copied to dst[0] verbatim, never passed
// through op. For non-commutative ops this is observable and intended.
func InclusiveScan[T any](w *Worker, src, dst []T, op func(T, T) T) {
	if len(src) == 0 {
		return
	}
	init := src[0]
	if w.index == 0 {
		dst[0] = init
	}
	runScan(w, true, src[1:], dst[1:], init, op)
}

// ExclusiveScan collectively computes the exclusive prefix scan of src into
// dst, seeded with init:
//
//	dst[0] = init
//	dst[i] = op(init, op(src[0], ... src[i-1]))
//
// op must be associative; src and dst must be the same length and may not
// overlap. Every worker of the group must make the call with the same
// arguments. An empty src writes nothing.
func ExclusiveScan[T any](w *Worker, src, dst []T, init T, op func(T, T) T) {
	runScan(w, false, src, dst, init, op)
}

func runScan[T any](w *Worker, inclusive bool, src, dst []T, init T, op func(T, T) T) {
	if len(src) == 0 {
		return
	}
	buf, placement := acquireScanBuffer[T](w)
	scanTiles(w, inclusive, src, dst, init, op, buf)
	releaseScanBuffer(w, buf, placement)
}

// scanTiles is the tiled scan driver. It walks src one W*G-element tile at a
// time; within a tile each worker owns the contiguous sub-slice
// [grain*tid, grain*tid+localSize), where localSize shrinks to zero for
// trailing workers of a partial final tile. The carry threads the running
// fold of everything before the current tile from one iteration to the next,
// which is why tiles are strictly sequential.
func scanTiles[T any](w *Worker, inclusive bool, src, dst []T, carry T, op func(T, T) T, buf *scanBuffer[T]) {
	g := w.group
	tid := w.index
	tile := g.size * g.grain
	localOff := g.grain * tid

	// Per-worker retained copy of its share of the staged tile, so the
	// result pass below never re-reads the stage it is overwriting.
	local := make([]T, g.grain)

	for len(src) > 0 {
		part := min(tile, len(src))

		// Stage the tile through group scratch.
		CopyN(w, src, buf.stage, part)

		localSize := min(g.grain, max(0, part-localOff))

		// Fused read and fold: one pass copies the worker's elements out of
		// the stage and accumulates their running fold.
		var x T
		for i := 0; i < localSize; i++ {
			local[i] = buf.stage[localOff+i]
			if i == 0 {
				x = local[i]
			} else {
				x = op(x, local[i])
			}
		}
		if localSize > 0 {
			buf.sums[tid] = x
		}
		w.Wait()

		// Exclusive scan of the per-worker folds turns each sums slot into
		// the worker's carry-in and yields the tile total for the next tile.
		carry = smallExclusiveScan(w, buf.sums[:g.size], carry, buf.sums[g.size:], op)

		if localSize > 0 {
			x = buf.sums[tid]
		}

		// Result pass over the retained locals, seeded with the worker's
		// exclusive prefix. Inclusive folds the element in before the store,
		// exclusive after; that ordering is the entire difference between
		// the two modes.
		for i := 0; i < localSize; i++ {
			if inclusive {
				x = op(x, local[i])
			}
			buf.stage[localOff+i] = x
			if !inclusive {
				x = op(x, local[i])
			}
		}
		w.Wait()

		CopyN(w, buf.stage, dst, part)

		src = src[part:]
		dst = dst[part:]
	}
}
