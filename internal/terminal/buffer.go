package terminal

import "sync"

// Buffer is a thread-safe sliding window over terminal output: it retains
// the most recent capacity bytes, trimming from the front as new data
// arrives. Reads are non-destructive — the window is the session's source
// of truth for reconnecting consumers.
type Buffer struct {
	mu    sync.RWMutex
	data  []byte
	head  int // index of the oldest byte
	count int
}

// NewBuffer creates a buffer holding at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Write appends p, evicting the oldest bytes once the window is full.
// Implements io.Writer and never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.data)
	if len(p) >= capacity {
		// Only the tail of p survives.
		copy(b.data, p[len(p)-capacity:])
		b.head = 0
		b.count = capacity
		return len(p), nil
	}

	tail := (b.head + b.count) % capacity
	n := copy(b.data[tail:], p)
	if n < len(p) {
		copy(b.data, p[n:])
	}

	b.count += len(p)
	if b.count > capacity {
		b.head = (b.head + b.count - capacity) % capacity
		b.count = capacity
	}
	return len(p), nil
}

// Bytes returns a copy of the current window, oldest byte first.
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]byte, b.count)
	capacity := len(b.data)
	first := capacity - b.head
	if first > b.count {
		first = b.count
	}
	copy(out, b.data[b.head:b.head+first])
	copy(out[first:], b.data[:b.count-first])
	return out
}

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}
