// Package log: LogBuffer, the shared mutex-guarded line accumulator every
// per-container stream appends to, drained on a fixed cadence (spec §3
// LogBuffer, §4.4 "Drain task").
package log

import (
	"context"
	"sync"
	"time"

	"github.com/kubetui/kubetui/internal/bus"
)

// DrainInterval is spec §5's "log drain 500 ms" cadence.
const DrainInterval = 500 * time.Millisecond

// Buffer is the shared ordered sequence of strings LogBuffer describes.
type Buffer struct {
	mu    sync.Mutex
	lines []string
}

// NewBuffer allocates an empty Buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Push appends one line; called by every per-container streamer task.
func (b *Buffer) Push(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
}

// drain copies out and clears the buffer, returning nil if it was empty
// (spec §4.4: "if non-empty: copy lines out, clear buffer").
func (b *Buffer) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) == 0 {
		return nil
	}
	out := b.lines
	b.lines = nil
	return out
}

// Response is the LogResponse message carried over the bus.
type Response struct {
	Lines []string
}

// RunDrain flushes Buffer to the bus every DrainInterval until ctx is done
// (spec §4.4 Drain task).
func RunDrain(ctx context.Context, buf *Buffer, b *bus.Bus) {
	ticker := time.NewTicker(DrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if lines := buf.drain(); lines != nil {
				_ = bus.SendInbound(context.Background(), b, bus.Kube(Response{Lines: lines}))
			}
			return
		case <-ticker.C:
			if lines := buf.drain(); lines != nil {
				_ = bus.SendInbound(ctx, b, bus.Kube(Response{Lines: lines}))
			}
		}
	}
}
