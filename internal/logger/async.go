package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Closer flushes and releases a logger's resources.
type Closer interface {
	Close()
}

// queued pairs a record with the handler that must write it, so records
// from WithAttrs/WithGroup children keep their attributes.
type queued struct {
	h   slog.Handler
	rec slog.Record
}

// asyncCore is shared by an AsyncHandler and every handler derived from it.
type asyncCore struct {
	ch      chan queued
	wg      sync.WaitGroup
	mu      sync.RWMutex // guards closed against concurrent sends
	closed  bool
	dropped atomic.Int64
}

// AsyncHandler hands records to background workers through a bounded
// queue. A full queue drops the record instead of blocking the caller.
type AsyncHandler struct {
	inner slog.Handler
	core  *asyncCore
}

// NewAsyncHandler starts workers draining a queue of size records into inner.
func NewAsyncHandler(inner slog.Handler, size, workers int) *AsyncHandler {
	core := &asyncCore{ch: make(chan queued, size)}
	for range max(workers, 1) {
		core.wg.Add(1)
		go core.drain()
	}
	return &AsyncHandler{inner: inner, core: core}
}

func (c *asyncCore) drain() {
	defer c.wg.Done()
	for q := range c.ch {
		_ = q.h.Handle(context.Background(), q.rec)
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle enqueues rec. After Close, records are written synchronously.
func (h *AsyncHandler) Handle(ctx context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	c := h.core
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return h.inner.Handle(ctx, rec)
	}
	select {
	case c.ch <- queued{h: h.inner, rec: rec.Clone()}:
	default:
		c.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithAttrs(attrs), core: h.core}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithGroup(name), core: h.core}
}

// DroppedCount reports how many records were discarded on a full queue.
func (h *AsyncHandler) DroppedCount() int64 { return h.core.dropped.Load() }

// Close drains the queue and waits for the workers. A warning with the drop
// count is written when records were lost. Close is idempotent.
func (h *AsyncHandler) Close() {
	c := h.core
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.ch)
	c.mu.Unlock()

	c.wg.Wait()
	if n := c.dropped.Load(); n > 0 {
		rec := slog.NewRecord(time.Now(), slog.LevelWarn, "async logger dropped records", 0)
		rec.AddAttrs(slog.Int64("dropped", n))
		_ = h.inner.Handle(context.Background(), rec)
	}
}
