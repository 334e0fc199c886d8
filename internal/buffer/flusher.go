package buffer

import (
	"context"
	"log"
	"time"
)

// Flusher periodically flushes a buffer until its context is cancelled,
// then performs one final flush so shutdown does not drop pending samples.
type Flusher struct {
	buf      *Buffer
	interval time.Duration
}

// NewFlusher creates a flusher for the given buffer
func NewFlusher(buf *Buffer, interval time.Duration) *Flusher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Flusher{buf: buf, interval: interval}
}

// Run blocks until ctx is cancelled. Flush errors are logged and retried on
// the next tick; they never stop the loop.
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final flush with a short independent deadline
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := f.buf.Flush(flushCtx); err != nil {
				log.Printf("[Flusher] final flush failed: %v", err)
			}
			cancel()
			return
		case <-ticker.C:
			if err := f.buf.Flush(ctx); err != nil {
				log.Printf("[Flusher] flush failed, will retry: %v", err)
			}
		}
	}
}
