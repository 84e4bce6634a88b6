package msg

import "github.com/google/uuid"

// EmptyExec is the single-process stub of spec.md §4.5: "an empty one
// that pretends to be a single-process cluster of size 1 (rank 0)".
// Every send/recv is a programming error in single-process mode since
// there is no peer to exchange with; broadcasts are no-ops because the
// root already holds the only copy of the data.
type EmptyExec struct{}

var _ Exec = EmptyExec{}

func NewEmptyExec() EmptyExec { return EmptyExec{} }

func (EmptyExec) WorldSize() int  { return 1 }
func (EmptyExec) Rank() int       { return 0 }
func (EmptyExec) GroupRank() int  { return 0 }

// CreateGroups is a no-op: with world size 1 there are no non-root
// ranks to partition.
func (EmptyExec) CreateGroups(groupSize, groupCount int) {}

// Bcast is a no-op: the sole process already holds buffer.
func (EmptyExec) Bcast(groupOne bool, size int, buffer []byte) error { return nil }

// BcastPacked returns rows unchanged: broadcasting to a cluster of one
// is the identity operation.
func (EmptyExec) BcastPacked(groupOne bool, rows []Row, adapter PackedAdapter) ([]Row, error) {
	return rows, nil
}

// StartSend/StartRecv have no valid peer in single-process mode; they
// return an already-failed handle rather than panicking, so a runtime
// that mistakenly calls them under EmptyExec gets a diagnosable error
// instead of a crash.
func (EmptyExec) StartSend(dst, tag int, buf []byte) *SendHandle {
	h := &SendHandle{id: uuid.New(), dst: dst, tag: tag, done: make(chan struct{})}
	h.complete(errNoPeer)
	return h
}

func (EmptyExec) StartSendPacked(dst, tag int, rows []Row, adapter PackedAdapter) *SendHandle {
	h := &SendHandle{id: uuid.New(), dst: dst, tag: tag, done: make(chan struct{})}
	h.complete(errNoPeer)
	return h
}

func (EmptyExec) StartRecv(src, tag, size int) *RecvHandle {
	return &RecvHandle{id: uuid.New(), src: src, tag: tag, data: make(chan []byte)}
}

func (EmptyExec) StartRecvPacked(src, tag int, adapter PackedAdapter) *RecvHandle {
	return &RecvHandle{id: uuid.New(), src: src, tag: tag, data: make(chan []byte)}
}

func (EmptyExec) TryReceive(src, tag int) ([]byte, bool) { return nil, false }

func (EmptyExec) WaitSendAll() {}
func (EmptyExec) WaitRecvAll() {}
func (EmptyExec) Close()       {}

var errNoPeer = errNoPeerError{}

type errNoPeerError struct{}

func (errNoPeerError) Error() string { return "no peer process exists in single-process (EmptyExec) mode" }
