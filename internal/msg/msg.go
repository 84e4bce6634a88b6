// Package msg implements C5, the message-passing abstraction (spec.md
// §4.5) consumed by the emitted simulation runtime: a non-blocking
// send/recv/broadcast interface with two implementations, an empty
// single-process stub and a channel-backed one that models an
// MPI-style cluster without linking MPI.
//
// The per-operation-goroutine-plus-WaitGroup shape is grounded on
// services/trace/dag/executor.go's executeParallel: one goroutine per
// in-flight operation feeding a buffered channel, a sync.WaitGroup (or,
// here, a poll loop) to know when every operation of a wave has
// completed, repurposed from parallel DAG-node execution to
// non-blocking peer-to-peer message completion tracking.
package msg

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Row is the packed-metadata-row unit bcastPacked/startSendPacked
// move: an adapter converts between a typed row slice and this wire
// form (spec.md §4.5.1's IPackedAdapter).
type Row interface{}

// PackedAdapter packs/unpacks a vector of typed rows into the
// length-prefixed wire form spec.md §4.5.1 names: "[row_count:int32]
// [row_1 fields][row_2 fields]...". String fields are length-prefixed
// by the adapter's own Pack/Unpack, not by this interface.
type PackedAdapter interface {
	Pack(rows []Row) []byte
	Unpack(data []byte) ([]Row, error)
}

// Exec is the messaging executor interface spec.md §4.5.1 calls
// IMsgExec.
type Exec interface {
	WorldSize() int
	Rank() int
	GroupRank() int

	CreateGroups(groupSize, groupCount int)

	Bcast(groupOne bool, size int, buffer []byte) error
	BcastPacked(groupOne bool, rows []Row, adapter PackedAdapter) ([]Row, error)

	StartSend(dst int, tag int, buf []byte) *SendHandle
	StartSendPacked(dst int, tag int, rows []Row, adapter PackedAdapter) *SendHandle
	StartRecv(src int, tag int, size int) *RecvHandle
	StartRecvPacked(src int, tag int, adapter PackedAdapter) *RecvHandle

	TryReceive(src int, tag int) ([]byte, bool)

	WaitSendAll()
	WaitRecvAll()

	Close()
}

// SendHandle is IMsgSend: a single non-blocking send operation owned
// by the executor until it completes.
type SendHandle struct {
	id   uuid.UUID
	dst  int
	tag  int
	done chan struct{}
	err  error
	mu   sync.Mutex
	ok   bool
}

// ID returns the handle's correlation id, used by diagnostics/logging
// to refer to one in-flight operation across WaitSendAll's poll loop
// without exposing the (dst, tag) pair as an identity.
func (h *SendHandle) ID() uuid.UUID { return h.id }

// IsCompleted reports whether the send has finished.
func (h *SendHandle) IsCompleted() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *SendHandle) complete(err error) {
	h.mu.Lock()
	if !h.ok {
		h.ok = true
		h.err = err
		close(h.done)
	}
	h.mu.Unlock()
}

// RecvHandle is IMsgRecv, modeling the state machine of spec.md
// §4.5.2: Queued -> Probed -> Sized -> Allocated -> Received ->
// Unpacked -> Completed. Only the externally visible states
// (incomplete vs Completed) are exposed; the intermediate probe/size/
// allocate steps collapse into the single blocking deliver step of
// the channel-backed implementation, since there is no separate wire
// protocol to probe.
type RecvHandle struct {
	id   uuid.UUID
	src  int
	tag  int
	data chan []byte
	mu   sync.Mutex
	recv []byte
	ok   bool
}

// ID returns the handle's correlation id (see SendHandle.ID).
func (h *RecvHandle) ID() uuid.UUID { return h.id }

// TryReceive probes for the matching message; once Completed, further
// calls are idempotent and return true without side effects (spec.md
// §4.5.2).
func (h *RecvHandle) TryReceive() ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ok {
		return h.recv, true
	}
	select {
	case data := <-h.data:
		h.recv = data
		h.ok = true
		return data, true
	default:
		return nil, false
	}
}

// routingKey identifies a (source, destination, tag) triple. FIFO
// order within a routingKey is preserved by always appending to the
// same channel for that key (spec.md §4.5.3, §5's ordering
// guarantees).
type routingKey struct {
	src, dst, tag int
}

func (k routingKey) String() string {
	return fmt.Sprintf("%d->%d#%d", k.src, k.dst, k.tag)
}

const pollInterval = 2 * time.Millisecond
