package terminal

import (
	"io"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/codeloft/termdeck/backend/internal/logging"
)

// writerConfig sizes the per-session write serializer.
type writerConfig struct {
	// Payloads larger than chunkThreshold bytes are split into chunkSize
	// pieces with a scheduler yield between pieces.
	chunkThreshold int
	chunkSize      int
	queueDepth     int
}

// writer serializes all writes for one session: a dedicated goroutine drains
// a FIFO queue, so writes issued by different callers reach the process in
// issuance order while writes for other sessions proceed independently.
//
// A failed payload is abandoned mid-chunk but the queue keeps draining —
// write failures are recovered locally, never surfaced to the caller.
type writer struct {
	sessionID string
	dst       io.Writer
	cfg       writerConfig
	log       *logging.Logger
	onError   func()

	queue     chan []byte
	done      chan struct{}
	drained   chan struct{}
	closeOnce sync.Once
}

func newWriter(sessionID string, dst io.Writer, cfg writerConfig, log *logging.Logger, onError func()) *writer {
	if cfg.chunkSize < 1 {
		cfg.chunkSize = 100
	}
	if cfg.chunkThreshold < cfg.chunkSize {
		cfg.chunkThreshold = cfg.chunkSize
	}
	if cfg.queueDepth < 1 {
		cfg.queueDepth = 1
	}

	w := &writer{
		sessionID: sessionID,
		dst:       dst,
		cfg:       cfg,
		log:       log,
		onError:   onError,
		queue:     make(chan []byte, cfg.queueDepth),
		done:      make(chan struct{}),
		drained:   make(chan struct{}),
	}
	go w.drain()
	return w
}

// enqueue schedules data after every previously enqueued payload. Blocks only
// when the queue is full and the session is still alive; a closed session
// drops the payload silently.
func (w *writer) enqueue(data []byte) {
	select {
	case <-w.done:
		w.log.Debug("write dropped, session closed",
			zap.String("session_id", w.sessionID),
			zap.Int("bytes", len(data)),
		)
	case w.queue <- data:
	}
}

// close stops the drain loop. Payloads still queued are discarded; the
// process they were destined for is gone.
func (w *writer) close() {
	w.closeOnce.Do(func() { close(w.done) })
}

func (w *writer) drain() {
	defer close(w.drained)
	for {
		select {
		case <-w.done:
			return
		case data := <-w.queue:
			if err := w.writeAll(data); err != nil {
				w.log.Warn("terminal write failed",
					zap.String("session_id", w.sessionID),
					zap.Error(err),
				)
				if w.onError != nil {
					w.onError()
				}
			}
		}
	}
}

// writeAll delivers one payload. Small payloads go out in a single call;
// large ones are chunked with a cooperative yield between chunks so other
// sessions' work interleaves. An error aborts the remaining chunks of this
// payload only.
func (w *writer) writeAll(data []byte) error {
	if len(data) <= w.cfg.chunkThreshold {
		_, err := w.dst.Write(data)
		return err
	}

	for off := 0; off < len(data); off += w.cfg.chunkSize {
		end := off + w.cfg.chunkSize
		if end > len(data) {
			end = len(data)
		}
		if _, err := w.dst.Write(data[off:end]); err != nil {
			return err
		}
		runtime.Gosched()
	}
	return nil
}
