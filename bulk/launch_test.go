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
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartValidatesConfig(t *testing.T) {
	t.Parallel()

	nop := func(*Worker) {}

	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero group size", Par(0, 1), ErrGroupSize},
		{"negative group size", Par(-4, 1), ErrGroupSize},
		{"non power of two", Par(6, 1), ErrGroupSize},
		{"zero grain", Par(4, 0), ErrGrain},
		{"zero groups", Par(4, 1).WithGroups(0), ErrGroups},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Start(nop)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := Par(4, 1).Start(nil)
	require.ErrorIs(t, err, ErrNilKernel)
}

func TestRunExecutesEveryWorkerOnce(t *testing.T) {
	t.Parallel()

	const groups, size = 3, 8
	var seen [groups][size]atomic.Int32

	err := Par(size, 2).WithGroups(groups).Run(func(w *Worker) {
		seen[w.Group().Index()][w.Index()].Add(1)
	})
	require.NoError(t, err)

	for gid := range seen {
		for tid := range seen[gid] {
			assert.Equal(t, int32(1), seen[gid][tid].Load(), "group %d worker %d", gid, tid)
		}
	}
}

func TestWorkerAccessors(t *testing.T) {
	t.Parallel()

	err := Par(4, 3).Run(func(w *Worker) {
		g := w.Group()
		assert.Equal(t, 4, g.Size())
		assert.Equal(t, 3, g.Grain())
		assert.Equal(t, 12, g.TileSize())
		assert.Equal(t, 0, g.Index())
		assert.GreaterOrEqual(t, w.Index(), 0)
		assert.Less(t, w.Index(), g.Size())
	})
	require.NoError(t, err)
}

func TestWorkerPanicIsReported(t *testing.T) {
	t.Parallel()

	err := Par(1, 1).Run(func(w *Worker) {
		panic("kernel bug")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernel bug")
	assert.Contains(t, err.Error(), "worker 0")
}

func TestWorkerPanicPoisonsBarrier(t *testing.T) {
	t.Parallel()

	// Worker 0 panics before the barrier its peers are parked at. Without
	// poisoning, the peers would spin forever and Run would never return.
	err := Par(4, 1).Run(func(w *Worker) {
		if w.Index() == 0 {
			panic("kernel bug")
		}
		w.Wait()
	})
	require.Error(t, err)
}

func TestStartWaitOverlapsHostWork(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	inv, err := Par(2, 1).Start(func(w *Worker) {
		if w.Index() == 0 {
			<-release
		}
		w.Wait()
	})
	require.NoError(t, err)

	close(release)
	require.NoError(t, inv.Wait())
}

func TestDefaultPar(t *testing.T) {
	t.Parallel()

	cfg := DefaultPar()
	require.NoError(t, cfg.validate())
	assert.Equal(t, 0, cfg.GroupSize&(cfg.GroupSize-1), "group size must be a power of two")
	assert.Equal(t, DefaultGrain, cfg.Grain)
	assert.Equal(t, DefaultArenaBytes, cfg.ArenaBytes)
}
