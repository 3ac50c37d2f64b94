package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/tabshell/tabshell/backend/internal/shared/id"
)

// State is a session's position in its lifecycle. Spawning is transient and
// only observable during the spawn call itself; Exited and Killed are
// absorbing.
type State string

const (
	StateSpawning State = "spawning"
	StateRunning  State = "running"
	StateExited   State = "exited"
	StateKilled   State = "killed"
)

// ErrUnknownSession is returned by Write and Resize when the identifier was
// never spawned, already exited, or was killed. Kill swallows this condition
// and reports success instead.
var ErrUnknownSession = errors.New("unknown session")

// SpawnError wraps any failure to allocate a PTY or launch the child
// process. No session is registered when Spawn returns one.
type SpawnError struct {
	Cause error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn failed: %v", e.Cause)
}

func (e *SpawnError) Unwrap() error {
	return e.Cause
}

// Session pairs one PTY with the child process attached to it. All fields
// below mu are guarded by it; cmd and ptmx are set once at spawn and the
// ptmx is closed exactly once via closeOnce on every path out of Running.
type Session struct {
	ID            id.SessionID
	WorkspacePath string
	Command       string
	Args          []string
	StartedAt     time.Time

	mu    sync.RWMutex
	state State
	rows  int
	cols  int

	cmd       *exec.Cmd
	ptmx      *os.File
	replay    *replayBuffer
	closeOnce sync.Once

	// done is closed after the exit event has been published and the PTY
	// released. Shutdown waits on it.
	done chan struct{}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dimensions returns the last known terminal geometry.
func (s *Session) Dimensions() (rows, cols int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows, s.cols
}

func (s *Session) closePTY() {
	s.closeOnce.Do(func() {
		s.ptmx.Close()
	})
}

// Info is the public representation of a session.
type Info struct {
	ID            id.SessionID `json:"id"`
	WorkspacePath string       `json:"workspace_path"`
	Command       string       `json:"command"`
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	StartedAt     time.Time    `json:"started_at"`
	State         State        `json:"state"`
}

func (s *Session) info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{
		ID:            s.ID,
		WorkspacePath: s.WorkspacePath,
		Command:       s.Command,
		Rows:          s.rows,
		Cols:          s.cols,
		StartedAt:     s.StartedAt,
		State:         s.state,
	}
}
