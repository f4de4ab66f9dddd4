// Package terminal supervises PTY-backed shell sessions.
//
// The Supervisor owns the OS process behind every session: it spawns the
// shell with a composed environment, serializes concurrent writes per
// session, buffers the most recent output in a sliding window, and routes
// data and exit events to the UI boundary as typed events on a channel.
//
// Guarantees:
//   - Exactly one live OS process per live session; the session leaves the
//     registry exactly once, on the exit path, whether it died naturally or
//     was killed.
//   - Writes to one session are strictly FIFO; writes to different sessions
//     never block each other. Large payloads are chunked with cooperative
//     yields so a paste cannot monopolize the scheduler.
//   - Write, resize, and kill are best-effort: a dead or unknown session is
//     a logged no-op, never a fault that reaches the caller.
package terminal
