package movie

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/rifx/chunk"
)

// scanParallel reads memory map entries on a pool of workers. Each worker
// owns its own cursor over the shared buffer. Results are kept by slot so the
// registry and the reported error match the sequential scan exactly: when
// several slots fail, the lowest index wins.
func scanParallel(data []byte, order chunk.ByteOrder, mmap *chunk.MemoryMap, workers int, log *zap.Logger) (map[uint32]*chunk.Chunk, error) {
	n := len(mmap.Entries)
	results := make([]*chunk.Chunk, n)
	errs := make([]error, n)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := chunk.NewReader(data, order)
			for i := range jobs {
				results[i], errs[i] = readEntry(r, mmap.Entries[i])
			}
		}()
	}

	for i, e := range mmap.Entries {
		if e.Tag.IsReclaimed() {
			log.Debug("skipping reclaimed slot", zap.Int("index", i), zap.String("tag", string(e.Tag)))
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	chunks := make(map[uint32]*chunk.Chunk, n)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			return nil, fmt.Errorf("memory map slot %d: %w", i, errs[i])
		}
		if results[i] != nil {
			chunks[uint32(i)] = results[i]
		}
	}
	return chunks, nil
}
