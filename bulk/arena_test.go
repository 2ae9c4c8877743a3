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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireScanBufferPlacementFast(t *testing.T) {
	t.Parallel()

	err := Par(4, 2).Run(func(w *Worker) {
		buf, placement := acquireScanBuffer[int64](w)
		assert.Equal(t, PlacementFast, placement)
		assert.Len(t, buf.sums, 8)
		assert.Len(t, buf.stage, 8)
		releaseScanBuffer(w, buf, placement)
	})
	require.NoError(t, err)
}

func TestAcquireScanBufferPlacementFallback(t *testing.T) {
	t.Parallel()

	cfg := Par(4, 2)
	cfg.ArenaBytes = 1
	err := cfg.Run(func(w *Worker) {
		buf, placement := acquireScanBuffer[int64](w)
		assert.Equal(t, PlacementFallback, placement)
		assert.Len(t, buf.sums, 8)
		assert.Len(t, buf.stage, 8)
		releaseScanBuffer(w, buf, placement)
	})
	require.NoError(t, err)
}

func TestArenaReusesReleasedFastBuffer(t *testing.T) {
	t.Parallel()

	err := Par(4, 2).Run(func(w *Worker) {
		first, p1 := acquireScanBuffer[int64](w)
		releaseScanBuffer(w, first, p1)

		second, p2 := acquireScanBuffer[int64](w)
		assert.Equal(t, PlacementFast, p2)
		assert.Same(t, first, second, "fast buffer should be reused from the arena")
		releaseScanBuffer(w, second, p2)
	})
	require.NoError(t, err)
}

func TestArenaDoesNotRetainFallbackBuffer(t *testing.T) {
	t.Parallel()

	cfg := Par(4, 2)
	cfg.ArenaBytes = 1
	err := cfg.Run(func(w *Worker) {
		first, p1 := acquireScanBuffer[int64](w)
		releaseScanBuffer(w, first, p1)

		second, _ := acquireScanBuffer[int64](w)
		assert.NotSame(t, first, second, "fallback buffers must not be cached")
		releaseScanBuffer(w, second, PlacementFallback)
	})
	require.NoError(t, err)
}

func TestArenaHandlesElementTypeChange(t *testing.T) {
	t.Parallel()

	err := Par(4, 2).Run(func(w *Worker) {
		intBuf, p := acquireScanBuffer[int64](w)
		releaseScanBuffer(w, intBuf, p)

		// A cached buffer of another element type cannot be reused, but the
		// acquisition must still succeed with fast placement.
		strBuf, p2 := acquireScanBuffer[string](w)
		assert.Equal(t, PlacementFast, p2)
		assert.Len(t, strBuf.stage, 8)
		releaseScanBuffer(w, strBuf, p2)
	})
	require.NoError(t, err)
}

func TestScanResultIndependentOfPlacement(t *testing.T) {
	t.Parallel()

	src := make([]int, 103)
	for i := range src {
		src[i] = i * 3 % 17
	}
	want := seqInclusive(src, 0, addInt)

	for _, arenaBytes := range []int{1, DefaultArenaBytes} {
		dst := make([]int, len(src))
		cfg := Par(4, 3)
		cfg.ArenaBytes = arenaBytes
		err := cfg.Run(func(w *Worker) {
			InclusiveScanWithInit(w, src, dst, 0, addInt)
		})
		require.NoError(t, err)
		assert.Equal(t, want, dst, "arenaBytes=%d", arenaBytes)
	}
}
