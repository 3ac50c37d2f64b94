package terminal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplayAppendOffsets(t *testing.T) {
	r := newReplayBuffer(1024)

	assert.Equal(t, uint64(0), r.Append([]byte("hello ")))
	assert.Equal(t, uint64(6), r.Append([]byte("world")))

	data, next := r.Snapshot()
	assert.Equal(t, []byte("hello world"), data)
	assert.Equal(t, uint64(11), next)
}

func TestReplayTrimsOldest(t *testing.T) {
	r := newReplayBuffer(8)

	r.Append([]byte("abcdefgh"))
	r.Append([]byte("ij"))

	data, next := r.Snapshot()
	assert.Equal(t, []byte("cdefghij"), data)
	assert.Equal(t, uint64(10), next)
	// window start = next - len(data)
	assert.Equal(t, uint64(2), next-uint64(len(data)))
}

func TestReplayOversizedAppend(t *testing.T) {
	r := newReplayBuffer(4)

	big := bytes.Repeat([]byte("x"), 100)
	big[99] = 'z'
	start := r.Append(big)

	assert.Equal(t, uint64(0), start)
	data, next := r.Snapshot()
	assert.Equal(t, []byte("xxxz"), data)
	assert.Equal(t, uint64(100), next)
}

func TestReplaySnapshotIsCopy(t *testing.T) {
	r := newReplayBuffer(16)
	r.Append([]byte("abc"))

	data, _ := r.Snapshot()
	data[0] = 'z'

	again, _ := r.Snapshot()
	assert.Equal(t, []byte("abc"), again)
}

func TestReplayEmpty(t *testing.T) {
	r := newReplayBuffer(16)
	data, next := r.Snapshot()
	assert.Empty(t, data)
	assert.Equal(t, uint64(0), next)
}
