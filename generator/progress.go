package generator

import (
	"sync"
	"sync/atomic"
)

// Observer receives progress notifications. Observe is called on the generating goroutine and
// must return quickly.
type Observer interface {
	Observe(Progress)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Progress)

func (f ObserverFunc) Observe(p Progress) { f(p) }

// Observers fans a notification out to every non-nil observer in order.
type Observers []Observer

func (obs Observers) Observe(p Progress) {
	for _, o := range obs {
		if o != nil {
			o.Observe(p)
		}
	}
}

// Broadcaster is a per-request progress emitter with any number of channel subscribers.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[int]chan Progress
	nextID  int
	last    Progress
	started bool
	closed  bool
	dropped atomic.Int64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Progress)}
}

// Subscribe registers a subscriber. The returned channel is closed by Close or by the
// returned cancel func, whichever comes first.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Progress, func()) {
	ch, _, _, cancel := b.SubscribeWithLast(buffer)
	return ch, cancel
}

// SubscribeWithLast is Subscribe that also returns the most recent event, taken atomically with
// the registration so no event falls between the two.
func (b *Broadcaster) SubscribeWithLast(buffer int) (<-chan Progress, Progress, bool, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	last, started := b.last, b.started
	ch := make(chan Progress, buffer)
	if b.closed {
		close(ch)
		return ch, last, started, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, last, started, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *Broadcaster) Observe(p Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.last = p
	b.started = true
	for _, ch := range b.subs {
		select {
		case ch <- p:
		default:
			b.dropped.Add(1)
		}
	}
}

// Last returns the most recent event, if any.
func (b *Broadcaster) Last() (Progress, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.started
}

// Dropped counts events lost to full subscriber buffers.
func (b *Broadcaster) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel. Later events are ignored.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
