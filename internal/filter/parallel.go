package filter

import "sync"

// forRows splits the half-open row range [from, to) into contiguous strips
// and runs fn on each strip. Strips never overlap, so fn may write its own
// rows of a shared output buffer without locking.
func forRows(from, to, workers int, fn func(y0, y1 int)) {
	rows := to - from
	if rows <= 0 {
		return
	}
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		fn(from, to)
		return
	}

	rowsPerWorker := (rows + workers - 1) / workers // ceil division
	var wg sync.WaitGroup
	for start := from; start < to; start += rowsPerWorker {
		end := start + rowsPerWorker
		if end > to {
			end = to
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(start, end)
	}
	wg.Wait()
}
