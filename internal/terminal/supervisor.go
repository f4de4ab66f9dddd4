package terminal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/codeloft/termdeck/backend/internal/config"
	"github.com/codeloft/termdeck/backend/internal/environ"
	"github.com/codeloft/termdeck/backend/internal/logging"
	"github.com/codeloft/termdeck/backend/internal/shared/id"
	"github.com/codeloft/termdeck/backend/internal/shell"
)

const readBufferSize = 4096

// Supervisor owns every live terminal session: spawn, write, resize, kill,
// and the event stream consumed by the UI boundary.
type Supervisor struct {
	cfg      config.TerminalConfig
	resolver *shell.Resolver
	log      *logging.Logger
	metrics  Metrics

	registry *registry
	events   chan Event

	wg        sync.WaitGroup
	stopped   chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
}

// NewSupervisor creates a supervisor with the given shell resolver.
func NewSupervisor(cfg config.TerminalConfig, resolver *shell.Resolver, log *logging.Logger) *Supervisor {
	eventBuffer := cfg.EventBuffer
	if eventBuffer < 1 {
		eventBuffer = 256
	}
	return &Supervisor{
		cfg:      cfg,
		resolver: resolver,
		log:      log,
		metrics:  noopMetrics{},
		registry: newRegistry(),
		events:   make(chan Event, eventBuffer),
		stopped:  make(chan struct{}),
	}
}

// WithMetrics attaches an instrumentation sink.
func (s *Supervisor) WithMetrics(m Metrics) *Supervisor {
	if m != nil {
		s.metrics = m
	}
	return s
}

// Events is the stream of data and exit notifications, in per-session
// arrival order. Closed by Shutdown after the last session exits.
func (s *Supervisor) Events() <-chan Event {
	return s.events
}

// Create resolves the shell, composes the child environment, spawns the
// process on a PTY of the given size, and registers the session. The only
// failure mode is the OS spawn itself; on failure nothing is registered.
func (s *Supervisor) Create(params CreateParams) (Info, error) {
	if params.WorkingDir == "" {
		params.WorkingDir = os.Getenv("HOME")
		if params.WorkingDir == "" {
			params.WorkingDir = os.TempDir()
		}
	}
	if params.Cols <= 0 {
		params.Cols = s.cfg.DefaultCols
	}
	if params.Rows <= 0 {
		params.Rows = s.cfg.DefaultRows
	}

	shellPath, shellArgs := s.resolver.Resolve(params.Preference)
	shellType := s.resolver.Classify(shellPath)

	cmd := exec.Command(shellPath, shellArgs...)
	cmd.Dir = params.WorkingDir
	cmd.Env = environ.Compose(os.Environ(), params.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(params.Cols),
		Rows: uint16(params.Rows),
	})
	if err != nil {
		s.metrics.IncSpawnFailures()
		return Info{}, fmt.Errorf("failed to start shell %s: %w", shellPath, err)
	}

	sess := &Session{
		ID:         id.NewTerminalID().String(),
		Shell:      shellPath,
		ShellType:  shellType,
		WorkingDir: params.WorkingDir,
		StartedAt:  time.Now(),
		cmd:        cmd,
		ptmx:       ptmx,
		out:        NewBuffer(s.cfg.BufferCap),
		cols:       params.Cols,
		rows:       params.Rows,
		cwd:        params.WorkingDir,
		onData:     params.OnData,
		onExit:     params.OnExit,
	}
	sess.wr = newWriter(sess.ID, ptmx, writerConfig{
		chunkThreshold: s.cfg.ChunkThreshold,
		chunkSize:      s.cfg.ChunkSize,
		queueDepth:     s.cfg.QueueDepth,
	}, s.log, s.metrics.IncWriteErrors)

	s.registry.insert(sess)
	s.metrics.IncSessionsTotal()
	s.metrics.SetSessionsActive(s.registry.size())

	s.wg.Add(1)
	go s.route(sess)

	s.log.Info("terminal session created",
		zap.String("session_id", sess.ID),
		zap.String("shell", shellPath),
		zap.String("shell_type", string(shellType)),
		zap.String("working_dir", params.WorkingDir),
	)
	return sess.info(), nil
}

// Write enqueues input for a session, best-effort: an unknown or dead
// session is a logged no-op, and delivery failures never reach the caller.
func (s *Supervisor) Write(sessionID, data string) {
	sess, ok := s.registry.get(sessionID)
	if !ok {
		s.log.Debug("write to unknown session", zap.String("session_id", sessionID))
		return
	}
	s.metrics.RecordWrite(len(data))
	sess.wr.enqueue([]byte(data))
}

// Resize changes the PTY dimensions. Resize does not compete with data
// writes for ordering, so it bypasses the write serializer.
func (s *Supervisor) Resize(sessionID string, cols, rows int) {
	sess, ok := s.registry.get(sessionID)
	if !ok || sess.isClosed() {
		return
	}

	if err := pty.Setsize(sess.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}); err != nil {
		s.log.Warn("terminal resize failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return
	}

	sess.mu.Lock()
	sess.cols, sess.rows = cols, rows
	sess.mu.Unlock()
}

// Kill terminates the session's process immediately. It does not remove the
// session from the registry — removal happens on the exit path (route), the
// single authoritative cleanup point, so an explicit kill cannot race a
// natural exit into a double removal. Unknown or already-dead ids are no-ops.
func (s *Supervisor) Kill(sessionID string) {
	sess, ok := s.registry.get(sessionID)
	if !ok {
		return
	}
	if !sess.markClosed() {
		return
	}

	s.log.Info("killing terminal session", zap.String("session_id", sessionID))
	if sess.cmd.Process != nil {
		sess.cmd.Process.Kill()
	}
	sess.closePTY()
}

// Get returns the public view of a session.
func (s *Supervisor) Get(sessionID string) (Info, bool) {
	sess, ok := s.registry.get(sessionID)
	if !ok {
		return Info{}, false
	}
	return sess.info(), true
}

// List returns all live sessions.
func (s *Supervisor) List() []Info {
	sessions := s.registry.list()
	infos := make([]Info, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, sess.info())
	}
	return infos
}

// Snapshot returns a copy of the session's current output window.
func (s *Supervisor) Snapshot(sessionID string) ([]byte, bool) {
	sess, ok := s.registry.get(sessionID)
	if !ok {
		return nil, false
	}
	return sess.out.Bytes(), true
}

// SetTitle updates the caller-owned title metadata.
func (s *Supervisor) SetTitle(sessionID, title string) {
	if sess, ok := s.registry.get(sessionID); ok {
		sess.mu.Lock()
		sess.title = title
		sess.mu.Unlock()
	}
}

// SetCwd updates the caller-tracked current directory.
func (s *Supervisor) SetCwd(sessionID, cwd string) {
	if sess, ok := s.registry.get(sessionID); ok {
		sess.mu.Lock()
		sess.cwd = cwd
		sess.mu.Unlock()
	}
}

// SetPendingResume flags the session for the resume collaborator. The
// supervisor stores the flag but never interprets it.
func (s *Supervisor) SetPendingResume(sessionID string, pending bool) {
	if sess, ok := s.registry.get(sessionID); ok {
		sess.mu.Lock()
		sess.pendingResume = pending
		sess.mu.Unlock()
	}
}

// route is the session's I/O router: it drains PTY output into the sliding
// window and the event stream, then handles exit. Running data and exit
// handling on one goroutine preserves their relative order.
func (s *Supervisor) route(sess *Session) {
	defer s.wg.Done()

	buf := make([]byte, readBufferSize)
	for {
		n, err := sess.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			sess.out.Write(chunk)
			s.metrics.RecordOutput(n)
			if sess.onData != nil {
				sess.onData(sess.ID, chunk)
			}
			s.emitData(sess.ID, chunk)
		}
		if err != nil {
			// EOF or a closed PTY; the process is gone either way.
			break
		}
	}

	err := sess.cmd.Wait()
	exitCode := 0
	if sess.cmd.ProcessState != nil {
		exitCode = sess.cmd.ProcessState.ExitCode()
	}

	sess.markClosed()
	sess.wr.close()
	sess.closePTY()

	// The single authoritative removal: idempotent against explicit kill.
	s.registry.remove(sess.ID)
	s.metrics.SetSessionsActive(s.registry.size())

	s.log.Info("terminal session exited",
		zap.String("session_id", sess.ID),
		zap.Int("exit_code", exitCode),
		zap.Error(err),
	)

	if sess.onExit != nil {
		sess.onExit(sess.ID, exitCode)
	}
	s.emitExit(sess.ID, exitCode)
}

// emitData forwards an output chunk without ever blocking the router: a
// stalled consumer loses data events but can recover from the output
// window, and one slow consumer must not couple sessions together.
func (s *Supervisor) emitData(sessionID string, chunk []byte) {
	select {
	case s.events <- Event{Type: EventData, SessionID: sessionID, Data: chunk}:
	default:
		s.metrics.IncEventsDropped()
		s.log.Warn("event stream full, dropping data event",
			zap.String("session_id", sessionID),
			zap.Int("bytes", len(chunk)),
		)
	}
}

// emitExit must not be lost, so it blocks until the consumer takes it or
// the supervisor is shutting down.
func (s *Supervisor) emitExit(sessionID string, exitCode int) {
	select {
	case s.events <- Event{Type: EventExit, SessionID: sessionID, ExitCode: exitCode}:
	case <-s.stopped:
	}
}

// Shutdown kills every live session and closes the event stream once all
// routers have finished, or once the context expires.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	for _, info := range s.List() {
		s.Kill(info.ID)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	// Unblock any router stuck delivering an exit event, then close the
	// stream once every router has returned.
	s.stopOnce.Do(func() { close(s.stopped) })
	<-done
	s.closeOnce.Do(func() { close(s.events) })
	return err
}
