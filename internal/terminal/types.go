package terminal

import (
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/codeloft/termdeck/backend/internal/shell"
)

// Session is the unit of ownership: one supervised shell process plus its
// output window and metadata. The process handle is created once, killed at
// most once, and never shared.
type Session struct {
	ID         string
	Shell      string // resolved executable path
	ShellType  shell.Type
	WorkingDir string
	StartedAt  time.Time

	// Process ownership
	cmd  *exec.Cmd
	ptmx *os.File

	// Output window and write serialization
	out *Buffer
	wr  *writer

	// Per-session observers, set at create time
	onData func(sessionID string, chunk []byte)
	onExit func(sessionID string, exitCode int)

	ptyOnce sync.Once // the PTY handle is closed exactly once

	mu            sync.RWMutex
	cols, rows    int
	closed        bool
	title         string
	cwd           string // caller-tracked current directory
	pendingResume bool
}

// markClosed flips the session to closed; returns false if it already was.
func (s *Session) markClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	return true
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Session) closePTY() {
	s.ptyOnce.Do(func() { s.ptmx.Close() })
}

// Info is the public representation of a session.
type Info struct {
	ID            string     `json:"id"`
	Shell         string     `json:"shell"`
	ShellType     shell.Type `json:"shell_type"`
	WorkingDir    string     `json:"working_dir"`
	Cols          int        `json:"cols"`
	Rows          int        `json:"rows"`
	StartedAt     time.Time  `json:"started_at"`
	Active        bool       `json:"active"`
	Title         string     `json:"title,omitempty"`
	Cwd           string     `json:"cwd,omitempty"`
	PendingResume bool       `json:"pending_resume"`
}

func (s *Session) info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{
		ID:            s.ID,
		Shell:         s.Shell,
		ShellType:     s.ShellType,
		WorkingDir:    s.WorkingDir,
		Cols:          s.cols,
		Rows:          s.rows,
		StartedAt:     s.StartedAt,
		Active:        !s.closed,
		Title:         s.title,
		Cwd:           s.cwd,
		PendingResume: s.pendingResume,
	}
}

// CreateParams describes a session to spawn.
type CreateParams struct {
	WorkingDir string
	Cols       int
	Rows       int

	// Env is overlaid on the composed inherited environment; overlay wins.
	Env map[string]string

	// Preference is the user's named terminal choice from the settings
	// boundary, passed through to shell resolution.
	Preference string

	// Optional per-session observers, invoked from the session's router
	// goroutine before the corresponding event is emitted.
	OnData func(sessionID string, chunk []byte)
	OnExit func(sessionID string, exitCode int)
}

// Metrics is the instrumentation surface the supervisor reports into.
// Satisfied by monitoring.Metrics; nil-safe via the noopMetrics default.
type Metrics interface {
	SetSessionsActive(count int)
	IncSessionsTotal()
	IncSpawnFailures()
	RecordWrite(bytes int)
	IncWriteErrors()
	RecordOutput(bytes int)
	IncEventsDropped()
}

type noopMetrics struct{}

func (noopMetrics) SetSessionsActive(int) {}
func (noopMetrics) IncSessionsTotal()     {}
func (noopMetrics) IncSpawnFailures()     {}
func (noopMetrics) RecordWrite(int)       {}
func (noopMetrics) IncWriteErrors()       {}
func (noopMetrics) RecordOutput(int)      {}
func (noopMetrics) IncEventsDropped()     {}
