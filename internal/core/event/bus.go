package event

import (
	"reflect"
	"sync"
	"time"
)

// DefaultBacklog bounds the outbox when nobody drains it.
const DefaultBacklog = 1024

// Envelope wraps an emitted event with its position in the session stream.
type Envelope struct {
	Seq     uint64
	At      time.Duration // survival time at emission
	Payload any
}

// Bus is a two-stage outbound queue. Events emitted during a tick land in the
// pending buffer; Flush (called once at tick end and after each command)
// moves them, in emission order, to the outbox and delivers them to
// subscribers. Pollers read the outbox with Drain.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	seq      uint64
	pending  []Envelope
	outbox   []Envelope
	backlog  int
	dropped  uint64
	handlers map[reflect.Type][]func(any)
}

func NewBus(backlog int) *Bus {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	return &Bus{
		pending:  make([]Envelope, 0, 16),
		outbox:   make([]Envelope, 0, 64),
		backlog:  backlog,
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Emit queues an event into the pending buffer.
func Emit[T any](b *Bus, at time.Duration, event T) {
	b.seq++
	b.pending = append(b.pending, Envelope{Seq: b.seq, At: at, Payload: event})
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Flush publishes pending events in emission order.
func (b *Bus) Flush() {
	if len(b.pending) == 0 {
		return
	}
	for _, env := range b.pending {
		for _, h := range b.handlers[reflect.TypeOf(env.Payload)] {
			h(env.Payload)
		}
	}
	b.outbox = append(b.outbox, b.pending...)
	clear(b.pending)
	b.pending = b.pending[:0]

	if over := len(b.outbox) - b.backlog; over > 0 {
		b.dropped += uint64(over)
		b.outbox = append(b.outbox[:0], b.outbox[over:]...)
	}
}

// Drain returns every published event not yet drained and empties the outbox.
func (b *Bus) Drain() []Envelope {
	if len(b.outbox) == 0 {
		return nil
	}
	out := make([]Envelope, len(b.outbox))
	copy(out, b.outbox)
	clear(b.outbox)
	b.outbox = b.outbox[:0]
	return out
}

// Pending reports events emitted but not yet flushed.
func (b *Bus) Pending() int { return len(b.pending) }

// Dropped reports how many events were discarded because the outbox was full.
func (b *Bus) Dropped() uint64 { return b.dropped }

// Seq returns the sequence number of the last emitted event.
func (b *Bus) Seq() uint64 { return b.seq }
