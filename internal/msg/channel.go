package msg

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openmpp/ompp-core/internal/diaglog"
)

// World is the shared routing fabric backing a cluster of ChannelExec
// ranks within one OS process — the channel-based stand-in for the
// "real" MPI-style executor spec.md §4.5 describes, exercised by
// tests and by any single-process multi-member run that wants
// cross-rank determinism without linking an external library.
type World struct {
	mu      sync.Mutex
	size    int
	routes  map[routingKey]chan []byte
	groupsz int
	groupct int
}

// NewWorld creates a World of the given size (world rank 0..size-1).
func NewWorld(size int) *World {
	return &World{size: size, routes: make(map[routingKey]chan []byte)}
}

func (w *World) routeFor(key routingKey) chan []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch, ok := w.routes[key]
	if !ok {
		ch = make(chan []byte, 64) // buffered: preserves FIFO per spec.md §5 without forcing lockstep rendezvous
		w.routes[key] = ch
	}
	return ch
}

// Rank returns the ChannelExec for world rank r.
func (w *World) Rank(r int) *ChannelExec {
	return &ChannelExec{world: w, rank: r}
}

// ChannelExec is the channel-backed Exec implementation: a single
// rank's view of a World. Every entry point is safe for concurrent use
// from multiple simulation-member goroutines, mirroring spec.md §5's
// "single recursive mutex wrapping every entry point" via the World's
// own mutex guarding route creation and group assignment; no mutex is
// held across a blocking wait, matching the "suspend only inside
// waitSendAll/waitRecvAll" requirement.
type ChannelExec struct {
	world     *World
	rank      int
	groupRank int

	pendingSends sync.WaitGroup
	sendHandles  []*SendHandle
	sendMu       sync.Mutex

	pendingRecvs []*RecvHandle
	recvMu       sync.Mutex
}

var _ Exec = (*ChannelExec)(nil)

func (c *ChannelExec) WorldSize() int { return c.world.size }
func (c *ChannelExec) Rank() int      { return c.rank }
func (c *ChannelExec) GroupRank() int { return c.groupRank }

// CreateGroups partitions non-root ranks into groupCount groups of at
// most groupSize, with rank 0 in every group (spec.md §4.5.4). If the
// requested shape cannot be honoured, it is a no-op and every rank
// keeps acting as if in one world group.
func (c *ChannelExec) CreateGroups(groupSize, groupCount int) {
	c.world.mu.Lock()
	defer c.world.mu.Unlock()

	nonRoot := c.world.size - 1
	if groupSize <= 0 || groupCount <= 0 || groupSize*groupCount < nonRoot {
		return // shape cannot be honoured: stay in the single world group
	}
	c.world.groupsz = groupSize
	c.world.groupct = groupCount

	if c.rank == 0 {
		c.groupRank = 0
		return
	}
	idx := c.rank - 1
	c.groupRank = (idx % groupSize) + 1
}

// Bcast broadcasts a byte buffer from root (spec.md §4.5.1: "Size is
// sent first as an int; receivers must declare the same expected size
// and fail with a diagnostic otherwise"). The root returns as soon as
// the buffer is queued for every other rank and does not wait for the
// receivers, so Bcast is not a barrier; each receiver blocks until its
// copy arrives.
func (c *ChannelExec) Bcast(groupOne bool, size int, buffer []byte) error {
	key := routingKey{src: 0, dst: c.rank, tag: bcastTag}
	if c.rank == 0 {
		for dst := 1; dst < c.world.size; dst++ {
			ch := c.world.routeFor(routingKey{src: 0, dst: dst, tag: bcastTag})
			ch <- append([]byte(nil), buffer...)
		}
		return nil
	}
	ch := c.world.routeFor(key)
	got := <-ch
	if len(got) != size {
		return fmt.Errorf("bcast size mismatch: expected %d, received %d", size, len(got))
	}
	copy(buffer, got)
	return nil
}

// BcastPacked broadcasts a packed row vector, packing once at the root
// and unpacking at every receiver (spec.md §4.5.1).
func (c *ChannelExec) BcastPacked(groupOne bool, rows []Row, adapter PackedAdapter) ([]Row, error) {
	key := routingKey{src: 0, dst: c.rank, tag: bcastPackedTag}
	if c.rank == 0 {
		packed := adapter.Pack(rows)
		for dst := 1; dst < c.world.size; dst++ {
			ch := c.world.routeFor(routingKey{src: 0, dst: dst, tag: bcastPackedTag})
			ch <- packed
		}
		return rows, nil
	}
	ch := c.world.routeFor(key)
	data := <-ch
	return adapter.Unpack(data)
}

const bcastTag = -1
const bcastPackedTag = -2

// StartSend registers a non-blocking send; the World channel for
// (rank, dst, tag) preserves FIFO order among sends sharing that
// triple (spec.md §4.5.3, §5).
func (c *ChannelExec) StartSend(dst, tag int, buf []byte) *SendHandle {
	h := &SendHandle{id: uuid.New(), dst: dst, tag: tag, done: make(chan struct{})}
	c.sendMu.Lock()
	var prev *SendHandle
	for i := len(c.sendHandles) - 1; i >= 0; i-- {
		if p := c.sendHandles[i]; p.dst == dst && p.tag == tag {
			prev = p
			break
		}
	}
	c.sendHandles = append(c.sendHandles, h)
	c.sendMu.Unlock()
	ch := c.world.routeFor(routingKey{src: c.rank, dst: dst, tag: tag})
	go func() {
		if prev != nil {
			<-prev.done // queue behind the previous send on this (dst, tag)
		}
		ch <- append([]byte(nil), buf...)
		h.complete(nil)
	}()
	return h
}

// StartSendPacked packs rows once and sends the result as an ordinary
// byte-buffer send.
func (c *ChannelExec) StartSendPacked(dst, tag int, rows []Row, adapter PackedAdapter) *SendHandle {
	return c.StartSend(dst, tag, adapter.Pack(rows))
}

// StartRecv registers a non-blocking receive.
func (c *ChannelExec) StartRecv(src, tag, size int) *RecvHandle {
	h := &RecvHandle{id: uuid.New(), src: src, tag: tag, data: make(chan []byte, 1)}
	c.trackRecv(h)
	ch := c.world.routeFor(routingKey{src: src, dst: c.rank, tag: tag})
	go func() {
		h.data <- <-ch
	}()
	return h
}

// StartRecvPacked registers a non-blocking receive whose payload is
// unpacked lazily by TryReceive's caller via the adapter, since the
// adapter is only needed once the bytes have arrived.
func (c *ChannelExec) StartRecvPacked(src, tag int, adapter PackedAdapter) *RecvHandle {
	return c.StartRecv(src, tag, 0)
}

// TryReceive is the one-shot probe+receive of spec.md §4.5.1: a
// non-blocking check for a waiting message.
func (c *ChannelExec) TryReceive(src, tag int) ([]byte, bool) {
	ch := c.world.routeFor(routingKey{src: src, dst: c.rank, tag: tag})
	select {
	case data := <-ch:
		return data, true
	default:
		return nil, false
	}
}

func (c *ChannelExec) trackSend(h *SendHandle) {
	c.sendMu.Lock()
	c.sendHandles = append(c.sendHandles, h)
	c.sendMu.Unlock()
}

func (c *ChannelExec) trackRecv(h *RecvHandle) {
	c.recvMu.Lock()
	c.pendingRecvs = append(c.pendingRecvs, h)
	c.recvMu.Unlock()
}

// WaitSendAll blocks, busy-polling at pollInterval, until every
// registered send has completed, then drops them (spec.md §4.5.1,
// §5's "suspend only inside waitSendAll/waitRecvAll").
func (c *ChannelExec) WaitSendAll() {
	for {
		c.sendMu.Lock()
		pending := c.sendHandles
		c.sendMu.Unlock()

		allDone := true
		for _, h := range pending {
			if !h.IsCompleted() {
				allDone = false
				break
			}
		}
		if allDone {
			c.sendMu.Lock()
			c.sendHandles = nil
			c.sendMu.Unlock()
			return
		}
		time.Sleep(pollInterval)
	}
}

// WaitRecvAll blocks until every registered receive has data, then
// drops them.
func (c *ChannelExec) WaitRecvAll() {
	for {
		c.recvMu.Lock()
		pending := c.pendingRecvs
		c.recvMu.Unlock()

		allDone := true
		for _, h := range pending {
			if _, ok := h.TryReceive(); !ok {
				allDone = false
				break
			}
		}
		if allDone {
			c.recvMu.Lock()
			c.pendingRecvs = nil
			c.recvMu.Unlock()
			return
		}
		time.Sleep(pollInterval)
	}
}

// Close releases this rank's view of the world. Per spec.md §4.5.3
// ("on destruction it releases any outstanding request handle with a
// log warning — silent leak is forbidden"), any send or receive still
// pending at Close time is logged rather than dropped silently.
func (c *ChannelExec) Close() {
	log := diaglog.Default()

	c.sendMu.Lock()
	for _, h := range c.sendHandles {
		if !h.IsCompleted() {
			log.Warningf("rank %d closing with incomplete send to dst=%d tag=%d", c.rank, h.dst, h.tag)
		}
	}
	c.sendHandles = nil
	c.sendMu.Unlock()

	c.recvMu.Lock()
	for _, h := range c.pendingRecvs {
		if _, ok := h.TryReceive(); !ok {
			log.Warningf("rank %d closing with incomplete recv from src=%d tag=%d", c.rank, h.src, h.tag)
		}
	}
	c.pendingRecvs = nil
	c.recvMu.Unlock()
}
