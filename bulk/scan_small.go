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

// smallExclusiveScan collectively rewrites sums, one value per worker, with
// its exclusive prefix scan seeded by carry: sums[0] becomes carry, sums[i]
// becomes op(carry, fold(sums[0:i])). It returns op(carry, fold(sums)), the
// total, to every worker.
//
// The algorithm is a Hillis-Steele scan: ceil(log2 W) rounds, where round r
// has every worker at index >= 1<<r fold in the value 1<<r slots back. Each
// round reads neighbor values written in the previous round, so rounds
// alternate between sums and buffer (ping-pong) with a barrier in between;
// updating in place would race a worker's write against a peer's read of the
// same slot. len(sums) must be a power of two for the offset doubling to
// cover exactly the last round, and len(buffer) must match len(sums).
//
// O(W log W) work against the sequential scan's O(W), bought for O(log W)
// barrier rounds instead of W.
func smallExclusiveScan[T any](w *Worker, sums []T, carry T, buffer []T, op func(T, T) T) T {
	size := len(sums)
	tid := w.index

	// ping points at the most current round's data.
	ping, pong := sums, buffer

	if tid == 0 {
		sums[0] = op(carry, sums[0])
	}
	x := sums[tid]
	w.Wait()

	for offset := 1; offset < size; offset += offset {
		if tid >= offset {
			x = op(ping[tid-offset], x)
		}
		ping, pong = pong, ping
		ping[tid] = x
		w.Wait()
	}

	total := ping[size-1]

	// Shift right by one to turn the inclusive result exclusive: worker 0
	// takes the carry, everyone else the neighbor's inclusive value. The
	// barrier before the writeback matters when ping aliases sums.
	if tid == 0 {
		x = carry
	} else {
		x = ping[tid-1]
	}
	w.Wait()

	sums[tid] = x
	w.Wait()

	return total
}
