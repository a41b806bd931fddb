package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEachVisitsEveryIndex(t *testing.T) {
	var seen [100]atomic.Int32
	ForEach(len(seen), 7, func(i int) {
		seen[i].Add(1)
	})
	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load(), "index %d", i)
	}
}

func TestForEachEmpty(t *testing.T) {
	called := false
	ForEach(0, 4, func(int) { called = true })
	assert.False(t, called)
}

func TestForChunksCoversRange(t *testing.T) {
	for _, tc := range []struct{ length, limit int }{
		{10, 3}, {1, 8}, {17, 17}, {5, 0}, {100, 6},
	} {
		var covered = make([]atomic.Int32, tc.length)
		var chunks atomic.Int32
		ForChunks(tc.length, tc.limit, func(c, from, to int) {
			chunks.Add(1)
			for i := from; i < to; i++ {
				covered[i].Add(1)
			}
		})
		for i := range covered {
			assert.Equal(t, int32(1), covered[i].Load())
		}
		limit := tc.limit
		if limit <= 0 {
			limit = 1
		}
		assert.LessOrEqual(t, int(chunks.Load()), limit)
	}
}

func TestThreads(t *testing.T) {
	assert.Equal(t, 3, Threads(3))
	assert.Greater(t, Threads(0), 0)
}
