// Package id provides centralized ID generation for the backend.
//
// IDs are prefixed ULIDs: lexicographically sortable, unique without
// coordination, and readable in logs (term_*, req_*). Separate Go types keep
// a terminal session id from being passed where a request id belongs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TerminalID identifies a supervised terminal session.
type TerminalID string

// RequestID identifies an API request.
type RequestID string

// Prefixes for debugging and type identification.
const (
	TerminalPrefix = "term"
	RequestPrefix  = "req"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator with secure entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source,
// useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewTerminalID generates a new terminal session ID.
func NewTerminalID() TerminalID {
	return TerminalID(Default().GenerateWithPrefix(TerminalPrefix))
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id TerminalID) String() string { return string(id) }
func (id RequestID) String() string  { return string(id) }

// IsValid checks if an ID string is a valid ULID.
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Timestamp extracts the creation time from a ULID string.
func Timestamp(id string) (time.Time, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
