package msg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyExecWorldSizeOne(t *testing.T) {
	e := NewEmptyExec()
	assert.Equal(t, 1, e.WorldSize())
	assert.Equal(t, 0, e.Rank())

	rows, err := e.BcastPacked(false, []Row{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Row{"a", "b"}, rows)
}

func TestChannelExecSendRecv(t *testing.T) {
	w := NewWorld(2)
	root := w.Rank(0)
	peer := w.Rank(1)

	recv := peer.StartRecv(0, 7, 3)
	send := root.StartSend(1, 7, []byte("hey"))
	assert.NotEqual(t, recv.ID(), send.ID())

	root.WaitSendAll()

	var data []byte
	for i := 0; i < 50; i++ {
		if d, ok := recv.TryReceive(); ok {
			data = d
			break
		}
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, []byte("hey"), data)
}

func TestChannelExecBcast(t *testing.T) {
	w := NewWorld(3)
	root := w.Rank(0)
	r1 := w.Rank(1)
	r2 := w.Rank(2)

	buf1 := make([]byte, 4)
	buf2 := make([]byte, 4)

	done := make(chan struct{}, 2)
	go func() { _ = r1.Bcast(false, 4, buf1); done <- struct{}{} }()
	go func() { _ = r2.Bcast(false, 4, buf2); done <- struct{}{} }()

	srcBuf := []byte{1, 2, 3, 4}
	require.NoError(t, root.Bcast(false, 4, srcBuf))

	<-done
	<-done
	assert.Equal(t, srcBuf, buf1)
	assert.Equal(t, srcBuf, buf2)
}

func TestCreateGroupsAssignsGroupRank(t *testing.T) {
	w := NewWorld(5)
	r1 := w.Rank(1)
	r1.CreateGroups(2, 2)
	assert.Equal(t, 1, r1.GroupRank())
}

func TestCreateGroupsNoOpWhenShapeImpossible(t *testing.T) {
	w := NewWorld(5)
	r1 := w.Rank(1)
	r1.CreateGroups(1, 1) // 4 non-root ranks, only 1 slot: impossible
	assert.Equal(t, 0, r1.GroupRank())
}
