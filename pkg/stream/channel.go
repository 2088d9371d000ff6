package stream

import (
	"sync"
	"time"
)

const (
	// HistoryCap bounds the replay buffer; oldest events are evicted first.
	HistoryCap = 200

	// HeartbeatPeriod is how often a keep-alive event is emitted while the
	// channel is open.
	HeartbeatPeriod = 15 * time.Second

	// subscriberBuffer is the live-tail headroom on top of the replayed
	// history. A subscriber that falls this far behind gets dropped rather
	// than stalling the publisher.
	subscriberBuffer = 64
)

// Subscriber is one observer of a session's event channel. Events arrive on
// C: first a replay of the full current history, then the live tail. C is
// closed when the channel closes or the subscriber is dropped.
type Subscriber struct {
	C  <-chan Event
	ch chan Event
}

// Channel is the per-session publish/subscribe event log: a capped history
// ring plus a fan-out subscriber list. Publishing is non-blocking from the
// publisher's perspective; slow subscribers lose events instead of stalling
// the pipeline.
type Channel struct {
	sessionId string

	mu      sync.Mutex
	history []Event
	subs    map[*Subscriber]struct{}
	closed  bool
	done    chan struct{}

	// mirrors receive a copy of every published event (NATS, websocket hub).
	// Invoked inline; implementations must not block.
	mirrors []func(Event)
}

func NewChannel(sessionId string) *Channel {
	c := &Channel{
		sessionId: sessionId,
		history:   make([]Event, 0, HistoryCap),
		subs:      make(map[*Subscriber]struct{}),
		done:      make(chan struct{}),
	}
	go c.heartbeatLoop()
	return c
}

// AddMirror registers a fire-and-forget copy receiver for every event.
func (c *Channel) AddMirror(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mirrors = append(c.mirrors, fn)
}

// Publish appends the event to the history ring and broadcasts it to all
// current subscribers. A terminal event closes the channel; publishes after
// close are no-ops.
func (c *Channel) Publish(t EventType, data map[string]interface{}) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	ev := Event{
		Type:      t,
		SessionId: c.sessionId,
		Timestamp: time.Now(),
		Data:      data,
	}

	c.history = append(c.history, ev)
	if len(c.history) > HistoryCap {
		c.history = c.history[1:]
	}

	for sub := range c.subs {
		select {
		case sub.ch <- ev:
		default:
			// Subscriber buffer full: drop it, never block the pipeline.
			delete(c.subs, sub)
			close(sub.ch)
		}
	}

	mirrors := c.mirrors
	terminal := t.IsTerminal()
	if terminal {
		c.closed = true
		close(c.done)
		for sub := range c.subs {
			close(sub.ch)
			delete(c.subs, sub)
		}
	}
	c.mu.Unlock()

	for _, m := range mirrors {
		m(ev)
	}
}

// Subscribe registers a new observer. The full current history is replayed
// into the subscriber's buffer before any live event, so a client connecting
// mid-run does not miss prior events. Subscribing to a closed channel
// returns the replay followed by an immediately closed channel.
func (c *Channel) Subscribe() *Subscriber {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Event, len(c.history)+subscriberBuffer)
	for _, ev := range c.history {
		ch <- ev
	}

	sub := &Subscriber{C: ch, ch: ch}
	if c.closed {
		close(ch)
		return sub
	}
	c.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe detaches the observer. Safe to call after the channel closed.
func (c *Channel) Unsubscribe(sub *Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.subs[sub]; ok {
		delete(c.subs, sub)
		close(sub.ch)
	}
}

// Closed reports whether a terminal event was published.
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// History returns a copy of the current replay buffer.
func (c *Channel) History() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Channel) heartbeatLoop() {
	ticker := time.NewTicker(HeartbeatPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Publish(EventHeartbeat, nil)
		case <-c.done:
			return
		}
	}
}
