// Package batch fans independent per-element work out over a worker pool and
// joins it at a single barrier.
package batch

import (
	"fmt"
	"runtime"

	"github.com/alitto/pond/v2"
)

// DefaultChunkSize is the number of elements handled by one task.
const DefaultChunkSize = 64

// Scheduler runs chunked batches on a shared pond pool.
//
// A nil *Scheduler is valid and runs every batch inline on the caller's
// goroutine, which keeps single-threaded callers free of pool setup.
type Scheduler struct {
	pool  pond.Pool
	chunk int
}

// New creates a scheduler with the given worker count and chunk size.
// Non-positive values select runtime.NumCPU() workers and DefaultChunkSize.
func New(workers, chunk int) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &Scheduler{
		pool:  pond.NewPool(workers),
		chunk: chunk,
	}
}

// ChunkSize returns the number of elements per task.
func (s *Scheduler) ChunkSize() int {
	if s == nil {
		return DefaultChunkSize
	}
	return s.chunk
}

// Range splits [0, n) into chunks and calls fn(start, end) for each chunk on
// the pool. It blocks until every chunk has finished. fn must only write to
// state owned by its own range. A panicking task aborts the batch with an
// error once all submitted tasks have settled.
func (s *Scheduler) Range(n int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	if s == nil {
		fn(0, n)
		return nil
	}

	group := s.pool.NewGroup()
	for start := 0; start < n; start += s.chunk {
		end := min(start+s.chunk, n)
		group.Submit(func() {
			fn(start, end)
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("batch of %d elements: %w", n, err)
	}
	return nil
}

// Close stops the pool after queued tasks finish.
func (s *Scheduler) Close() {
	if s == nil {
		return
	}
	s.pool.StopAndWait()
}
