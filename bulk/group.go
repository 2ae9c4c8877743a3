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

// Group is a fixed-size team of lockstep cooperative workers. Every worker
// executes the same kernel over the same arguments; the collectives in this
// package (CopyN, Reduce, the scans) assume that discipline and synchronize
// the team purely through the group barrier.
//
// A Group is created by Config.Start for each launched group and lives for
// exactly one invocation. It is never shared between invocations.
type Group struct {
	id    int
	size  int
	grain int

	bar   barrier
	arena arena

	// slot is the group's single broadcast cell. It is written by worker 0
	// and read by everyone else, with a barrier on each side; see broadcast.
	slot any
}

// Index returns the group's index within its launch, in [0, Config.Groups).
func (g *Group) Index() int { return g.id }

// Size returns the number of workers in the group.
func (g *Group) Size() int { return g.size }

// Grain returns the number of elements each worker handles per tile.
func (g *Group) Grain() int { return g.grain }

// TileSize returns Size*Grain, the number of elements the group consumes in
// one pass of a tiled collective.
func (g *Group) TileSize() int { return g.size * g.grain }

func newGroup(id int, c Config) *Group {
	g := &Group{id: id, size: c.GroupSize, grain: c.Grain}
	g.bar.size = int32(c.GroupSize)
	g.arena.budget = c.ArenaBytes
	return g
}

// Worker is one member of a Group: a stable index plus the group handle.
// Every exported collective takes the calling worker as its first argument.
type Worker struct {
	group *Group
	index int
}

// Index returns the worker's index within its group, in [0, Group.Size()).
// The index is stable for the lifetime of the invocation.
func (w *Worker) Index() int { return w.index }

// Group returns the group this worker belongs to.
func (w *Worker) Group() *Group { return w.group }

// Wait blocks until every worker in the group has called Wait at the same
// program point. Control flow that diverges across workers must not straddle
// a Wait: a barrier skipped by one worker but reached by its peers deadlocks
// the group (or fails it, if the skipping worker panicked).
func (w *Worker) Wait() { w.group.bar.await() }

// broadcast publishes worker 0's value to every worker in the group. The
// trailing barrier keeps the slot safe for immediate reuse.
func broadcast[V any](w *Worker, v V) V {
	g := w.group
	if w.index == 0 {
		g.slot = v
	}
	w.Wait()
	out := g.slot.(V)
	w.Wait()
	return out
}
