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
	"fmt"
	"math/bits"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrGroupSize is returned by Start when Config.GroupSize is not a
	// positive power of two.
	ErrGroupSize = errors.New("bulk: group size must be a positive power of two")

	// ErrGrain is returned by Start when Config.Grain is less than one.
	ErrGrain = errors.New("bulk: grain must be at least one")

	// ErrGroups is returned by Start when Config.Groups is less than one.
	ErrGroups = errors.New("bulk: group count must be at least one")

	// ErrNilKernel is returned by Start when the kernel is nil.
	ErrNilKernel = errors.New("bulk: nil kernel")
)

const (
	// DefaultGrain is the per-worker tile share used by DefaultPar.
	DefaultGrain = 8

	// DefaultArenaBytes is the per-group fast-scratch budget used by Par.
	// Requests within the budget are retained by the group between
	// collective calls; larger requests fall back to one-shot allocations.
	DefaultArenaBytes = 48 << 10
)

// Kernel is the function executed by every worker of every launched group.
// All workers run the same kernel; per-worker behavior comes from
// Worker.Index. Collectives called from a kernel must be reached by the
// whole group.
type Kernel func(w *Worker)

// Config describes a launch: how many independent groups to run, how many
// lockstep workers each group has, and how they are provisioned.
type Config struct {
	// Groups is the number of independent groups to launch. Groups share
	// nothing: each has its own barrier and arena.
	Groups int

	// GroupSize is the number of workers per group. It must be a power of
	// two, which the group-wide carry scan's offset doubling requires.
	GroupSize int

	// Grain is the number of elements each worker handles per tile.
	Grain int

	// ArenaBytes is the per-group fast-scratch budget.
	ArenaBytes int
}

// Par returns a single-group Config with the given group size and grain.
func Par(groupSize, grain int) Config {
	return Config{
		Groups:     1,
		GroupSize:  groupSize,
		Grain:      grain,
		ArenaBytes: DefaultArenaBytes,
	}
}

// DefaultPar returns a single-group Config sized for the host: the group
// size is NumCPU rounded down to a power of two, the grain DefaultGrain.
func DefaultPar() Config {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return Par(1<<(bits.Len(uint(n))-1), DefaultGrain)
}

// WithGroups returns a copy of the Config launching n independent groups.
func (c Config) WithGroups(n int) Config {
	c.Groups = n
	return c
}

func (c Config) validate() error {
	if c.GroupSize < 1 || c.GroupSize&(c.GroupSize-1) != 0 {
		return fmt.Errorf("%w (got %d)", ErrGroupSize, c.GroupSize)
	}
	if c.Grain < 1 {
		return fmt.Errorf("%w (got %d)", ErrGrain, c.Grain)
	}
	if c.Groups < 1 {
		return fmt.Errorf("%w (got %d)", ErrGroups, c.Groups)
	}
	return nil
}

// Invocation is a handle to launched work. It exists so callers can overlap
// host work with a running launch and synchronize later.
type Invocation struct {
	eg *errgroup.Group
}

// Wait blocks until every worker of every group has returned and reports
// the first captured worker failure, if any. There is no cancellation: a
// launch that has started runs to completion.
func (inv *Invocation) Wait() error {
	return inv.eg.Wait()
}

// Start launches Groups×GroupSize workers running kernel and returns
// without waiting for them.
//
// A worker panic is captured and reported as an error by Wait. The
// panicking worker also poisons its group's barrier, failing peers that
// would otherwise park there forever; a kernel panic therefore costs the
// invocation, never just one worker.
func (c Config) Start(kernel Kernel) (*Invocation, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if kernel == nil {
		return nil, ErrNilKernel
	}

	var eg errgroup.Group
	for gid := 0; gid < c.Groups; gid++ {
		g := newGroup(gid, c)
		for i := 0; i < c.GroupSize; i++ {
			w := &Worker{group: g, index: i}
			eg.Go(func() (err error) {
				defer func() {
					r := recover()
					if r == nil {
						return
					}
					g.bar.poison()
					if perr, ok := r.(error); ok && errors.Is(perr, errBarrierPoisoned) {
						err = perr
						return
					}
					err = fmt.Errorf("bulk: worker %d of group %d panicked: %v", w.index, g.id, r)
				}()
				kernel(w)
				return nil
			})
		}
	}
	return &Invocation{eg: &eg}, nil
}

// Run launches kernel and blocks until the invocation completes. It is
// Start followed immediately by Wait.
func (c Config) Run(kernel Kernel) error {
	inv, err := c.Start(kernel)
	if err != nil {
		return err
	}
	return inv.Wait()
}
