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

import (
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// errBarrierPoisoned is the panic value delivered to workers parked at a
// barrier whose group has been poisoned by a peer's panic. Launch's worker
// wrapper converts it into an error, so a single buggy worker fails the
// whole invocation instead of deadlocking it.
var errBarrierPoisoned = errors.New("bulk: group barrier poisoned by worker panic")

// barrier is a reusable full-group barrier. All arrival counting happens on
// one cache line and phase observation on another; the padding keeps the
// spinning readers off the line the arriving writers are bouncing.
type barrier struct {
	size     int32
	_        cpu.CacheLinePad
	arrived  atomic.Int32
	_        cpu.CacheLinePad
	phase    atomic.Uint32
	_        cpu.CacheLinePad
	poisoned atomic.Bool
}

// await blocks the calling worker until all size workers have called await
// at the same program point. The last arrival resets the count and advances
// the phase; everyone else spins on the phase word.
func (b *barrier) await() {
	if b.poisoned.Load() {
		panic(errBarrierPoisoned)
	}
	p := b.phase.Load()
	if b.arrived.Add(1) == b.size {
		b.arrived.Store(0)
		b.phase.Add(1)
		return
	}
	for b.phase.Load() == p {
		if b.poisoned.Load() {
			panic(errBarrierPoisoned)
		}
		runtime.Gosched()
	}
}

// poison releases every worker parked at the barrier, and every future
// arrival, by panic. Called when a worker panics out of a kernel: its peers
// can never be released normally, since the barrier count will never fill.
func (b *barrier) poison() {
	b.poisoned.Store(true)
}
