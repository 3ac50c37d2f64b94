// Package terminal manages PTY-backed shell sessions, one per workspace tab.
//
// Architecture:
//   - Registry: the process-wide session table, mutated only by the
//     Controller and by each session's relay on exit.
//   - Controller: spawn / write / resize / kill. Spawn opens the PTY,
//     launches the child in the workspace directory, registers the session,
//     and starts its relay before returning.
//   - Relay: one goroutine per running session performing blocking reads
//     from the PTY master. Chunks go to the session's replay window and onto
//     the event bus; end-of-stream finalizes the session and publishes its
//     single exit event.
//
// There is no cooperative cancellation of a relay's blocking read; Kill
// closes the PTY, which makes the read return immediately. A fully blocked
// write to one session's PTY can stall that caller, but never another
// session: the registry lock is scoped to map mutation and writes happen
// outside it.
package terminal
