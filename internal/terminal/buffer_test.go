package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestBufferBelowCapacity(t *testing.T) {
	b := NewBuffer(16)

	b.Write([]byte("hello "))
	b.Write([]byte("world"))

	if got := string(b.Bytes()); got != "hello world" {
		t.Errorf("Bytes() = %q, want %q", got, "hello world")
	}
	if b.Len() != 11 {
		t.Errorf("Len() = %d, want 11", b.Len())
	}
}

func TestBufferSlidesWindow(t *testing.T) {
	b := NewBuffer(8)

	b.Write([]byte("abcdefgh"))
	b.Write([]byte("ij"))

	if got := string(b.Bytes()); got != "cdefghij" {
		t.Errorf("Bytes() = %q, want %q", got, "cdefghij")
	}
	if b.Len() != 8 {
		t.Errorf("Len() = %d, want capacity 8", b.Len())
	}
}

func TestBufferOversizedWrite(t *testing.T) {
	b := NewBuffer(8)

	b.Write([]byte("early"))
	b.Write([]byte("0123456789abcdef"))

	if got := string(b.Bytes()); got != "89abcdef" {
		t.Errorf("Bytes() = %q, want tail of oversized write", got)
	}
}

func TestBufferNeverExceedsCapacity(t *testing.T) {
	const capacity = 100000
	b := NewBuffer(capacity)

	chunk := []byte(strings.Repeat("x", 4096))
	for i := 0; i < 50; i++ {
		b.Write(chunk)
	}

	if b.Len() > capacity {
		t.Errorf("Len() = %d exceeds capacity %d", b.Len(), capacity)
	}
	if got := len(b.Bytes()); got != capacity {
		t.Errorf("window should be full at %d, got %d", capacity, got)
	}
}

func TestBufferRetainsMostRecent(t *testing.T) {
	b := NewBuffer(10)

	for i := byte(0); i < 5; i++ {
		b.Write([]byte{i, i, i, i}) // 20 bytes total through a 10-byte window
	}

	want := []byte{2, 2, 3, 3, 3, 3, 4, 4, 4, 4}
	if got := b.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %v, want %v", got, want)
	}
}

func TestBufferReadIsNonDestructive(t *testing.T) {
	b := NewBuffer(32)
	b.Write([]byte("persistent"))

	first := string(b.Bytes())
	second := string(b.Bytes())

	if first != second || first != "persistent" {
		t.Errorf("repeated reads should match: %q vs %q", first, second)
	}
}
