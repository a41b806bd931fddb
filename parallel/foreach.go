// Package parallel contains bounded goroutine fan-out helpers and CPU topology detection.
package parallel

import "sync"

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}

// ForChunks splits [0, length) into at most limit contiguous chunks and runs
// body once per chunk. The chunk index is passed so callers can keep
// per-chunk accumulators without locking.
func ForChunks(length, limit int, body func(chunk, from, to int)) {
	if length <= 0 {
		return
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > length {
		limit = length
	}
	size := (length + limit - 1) / limit
	n := (length + size - 1) / size
	ForEach(n, limit, func(c int) {
		from := c * size
		to := from + size
		if to > length {
			to = length
		}
		body(c, from, to)
	})
}
