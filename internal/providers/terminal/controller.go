package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/tabshell/tabshell/backend/internal/events"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/config"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/logging"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/monitoring"
	"github.com/tabshell/tabshell/backend/internal/shared/id"
	"go.uber.org/zap"
)

// Controller is the public entry point for session lifecycle operations and
// the only component that mutates the Registry. One relay goroutine runs per
// Running session; all other operations execute on the caller's goroutine.
type Controller struct {
	cfg     config.TerminalConfig
	reg     *Registry
	bus     *events.Bus
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewController wires a controller to its registry and event bus. metrics
// may be nil.
func NewController(cfg config.TerminalConfig, reg *Registry, bus *events.Bus, log *logging.Logger, metrics *monitoring.Metrics) *Controller {
	if log == nil {
		log = logging.NewNop()
	}
	return &Controller{
		cfg:     cfg,
		reg:     reg,
		bus:     bus,
		log:     log,
		metrics: metrics,
	}
}

// Spawn opens a PTY, launches command with its controlling terminal set to
// the subordinate side and working directory workspacePath, registers the
// session, and starts its relay. An empty command falls back to $SHELL, then
// the configured default. On failure nothing is registered and no relay is
// started.
func (c *Controller) Spawn(workspacePath, command string, rows, cols int) (Info, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = c.cfg.Shell
		}
		argv = []string{shell}
	}

	if rows <= 0 {
		rows = c.cfg.Rows
	}
	if cols <= 0 {
		cols = c.cfg.Cols
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = workspacePath
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return Info{}, &SpawnError{Cause: err}
	}

	sess := &Session{
		ID:            id.NewSessionID(),
		WorkspacePath: workspacePath,
		Command:       argv[0],
		Args:          argv[1:],
		StartedAt:     time.Now(),
		state:         StateSpawning,
		rows:          rows,
		cols:          cols,
		cmd:           cmd,
		ptmx:          ptmx,
		replay:        newReplayBuffer(c.cfg.ReplayBytes),
		done:          make(chan struct{}),
	}

	c.reg.Insert(sess)
	sess.mu.Lock()
	sess.state = StateRunning
	sess.mu.Unlock()

	go c.relay(sess)

	if c.metrics != nil {
		c.metrics.SessionsSpawned.Inc()
		c.metrics.SessionsActive.Inc()
	}
	c.log.Info("session spawned",
		zap.String("session_id", sess.ID.String()),
		zap.String("workspace", workspacePath),
		zap.String("command", argv[0]),
	)

	return sess.info(), nil
}

// Write forwards data verbatim to the PTY master. The blocking OS write
// happens outside every lock so a stalled child on one session cannot delay
// operations on others.
func (c *Controller) Write(sessionID id.SessionID, data []byte) error {
	sess, ok := c.reg.Get(sessionID)
	if !ok {
		return ErrUnknownSession
	}
	if sess.State() != StateRunning {
		return ErrUnknownSession
	}

	if _, err := sess.ptmx.Write(data); err != nil {
		if c.metrics != nil {
			c.metrics.WriteErrors.Inc()
		}
		// The session can finalize between the state check and the write.
		if errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.EIO) {
			return ErrUnknownSession
		}
		return fmt.Errorf("write to session %s: %w", sessionID, err)
	}
	return nil
}

// Resize updates the PTY's reported window size and the session's recorded
// geometry. Resizing to the current geometry makes no OS call.
func (c *Controller) Resize(sessionID id.SessionID, rows, cols int) error {
	sess, ok := c.reg.Get(sessionID)
	if !ok {
		return ErrUnknownSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != StateRunning {
		return ErrUnknownSession
	}
	if sess.rows == rows && sess.cols == cols {
		return nil
	}

	if err := pty.Setsize(sess.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return fmt.Errorf("resize session %s: %w", sessionID, err)
	}

	sess.rows = rows
	sess.cols = cols
	return nil
}

// Kill terminates the child and closes the PTY, which unblocks the relay's
// read; the relay then publishes the session's single exit event with reason
// killed. Killing an unknown or already-terminal session succeeds.
func (c *Controller) Kill(sessionID id.SessionID) error {
	sess, ok := c.reg.Get(sessionID)
	if !ok {
		return nil
	}

	sess.mu.Lock()
	if sess.state != StateRunning {
		sess.mu.Unlock()
		return nil
	}
	sess.state = StateKilled
	proc := sess.cmd.Process
	sess.mu.Unlock()

	if proc != nil {
		proc.Kill()
	}
	sess.closePTY()

	c.log.Info("session killed", zap.String("session_id", sessionID.String()))
	return nil
}

// Get returns public info for a session.
func (c *Controller) Get(sessionID id.SessionID) (Info, error) {
	sess, ok := c.reg.Get(sessionID)
	if !ok {
		return Info{}, ErrUnknownSession
	}
	return sess.info(), nil
}

// List returns public info for every registered session.
func (c *Controller) List() []Info {
	sessions := c.reg.List()
	out := make([]Info, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.info())
	}
	return out
}

// Snapshot returns the retained output window and the offset of the next
// byte the session will produce. Subscribe to the bus first, then snapshot,
// then drop live output below the returned offset.
func (c *Controller) Snapshot(sessionID id.SessionID) ([]byte, uint64, error) {
	sess, ok := c.reg.Get(sessionID)
	if !ok {
		return nil, 0, ErrUnknownSession
	}
	data, next := sess.replay.Snapshot()
	return data, next, nil
}

// Shutdown kills every live session and waits for their relays to finish.
// Used on server stop; the registry itself is rebuilt empty on restart.
func (c *Controller) Shutdown(timeout time.Duration) {
	sessions := c.reg.List()
	for _, sess := range sessions {
		c.Kill(sess.ID)
	}

	deadline := time.After(timeout)
	for _, sess := range sessions {
		select {
		case <-sess.done:
		case <-deadline:
			c.log.Warn("shutdown timed out waiting for relay",
				zap.String("session_id", sess.ID.String()))
			return
		}
	}
}

// relay performs the blocking read loop for one session. It is the only
// emitter of the session's exit event, so kill racing natural exit can never
// produce two.
func (c *Controller) relay(sess *Session) {
	buf := make([]byte, 4096)
	for {
		n, err := sess.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			seq := sess.replay.Append(chunk)
			if c.metrics != nil {
				c.metrics.OutputBytes.Add(float64(n))
			}
			c.bus.Publish(events.Event{
				Type:      events.TypeOutput,
				SessionID: sess.ID,
				Data:      chunk,
				Seq:       seq,
			})
		}
		if err != nil {
			// EOF, EIO on pty close, and unexpected read errors all mean the
			// stream is over; they are handled identically.
			break
		}
	}
	c.finish(sess)
}

// finish reaps the child, settles the terminal state, releases the PTY, and
// publishes the session's single exit event. Runs once, on the relay
// goroutine.
func (c *Controller) finish(sess *Session) {
	sess.cmd.Wait()

	sess.mu.Lock()
	reason := events.ReasonExited
	if sess.state == StateKilled {
		reason = events.ReasonKilled
	} else {
		sess.state = StateExited
	}
	sess.mu.Unlock()

	sess.closePTY()
	c.reg.Remove(sess.ID)

	if c.metrics != nil {
		c.metrics.SessionsActive.Dec()
		c.metrics.SessionExits.WithLabelValues(string(reason)).Inc()
	}

	c.bus.Publish(events.Event{
		Type:      events.TypeExit,
		SessionID: sess.ID,
		Reason:    reason,
	})
	close(sess.done)

	c.log.Info("session finished",
		zap.String("session_id", sess.ID.String()),
		zap.String("reason", string(reason)),
	)
}
