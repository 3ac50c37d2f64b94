package terminal

import "sync"

// replayBuffer retains the most recent window of a session's output together
// with absolute stream offsets. It closes the spawn/subscribe race: a
// consumer subscribes to the event bus first, then takes a snapshot, and
// discards live events whose offsets the snapshot already covered.
type replayBuffer struct {
	mu       sync.Mutex
	buf      []byte
	capacity int
	end      uint64 // absolute offset of the byte after buf's last
}

func newReplayBuffer(capacity int) *replayBuffer {
	if capacity <= 0 {
		capacity = 64 * 1024
	}
	return &replayBuffer{
		buf:      make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// Append stores p and returns the absolute offset of p[0]. Older bytes are
// discarded once the retained window exceeds capacity.
func (r *replayBuffer) Append(p []byte) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.end
	r.end += uint64(len(p))

	if len(p) >= r.capacity {
		r.buf = append(r.buf[:0], p[len(p)-r.capacity:]...)
		return start
	}

	if overflow := len(r.buf) + len(p) - r.capacity; overflow > 0 {
		n := copy(r.buf, r.buf[overflow:])
		r.buf = r.buf[:n]
	}
	r.buf = append(r.buf, p...)
	return start
}

// Snapshot returns a copy of the retained window and the absolute offset of
// the next byte the session will produce. Live events with Seq below the
// returned offset overlap the snapshot.
func (r *replayBuffer) Snapshot() ([]byte, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]byte, len(r.buf))
	copy(out, r.buf)
	return out, r.end
}
