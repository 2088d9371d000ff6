package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func drain(sub *Subscriber, n int) []Event {
	out := make([]Event, 0, n)
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			return out
		}
	}
	return out
}

func TestSubscribeReplaysHistory(t *testing.T) {
	c := NewChannel("s1")
	c.Publish(EventPipelineStarted, nil)
	c.Publish(EventPhaseStarted, map[string]interface{}{"phase": "ingest"})
	c.Publish(EventPhaseCompleted, map[string]interface{}{"phase": "ingest"})

	sub := c.Subscribe()
	defer c.Unsubscribe(sub)

	events := drain(sub, 3)
	assert.Len(t, events, 3)
	assert.Equal(t, EventPipelineStarted, events[0].Type)
	assert.Equal(t, EventPhaseCompleted, events[2].Type)
	assert.Equal(t, "s1", events[0].SessionId)
}

func TestLiveTailAfterReplay(t *testing.T) {
	c := NewChannel("s1")
	c.Publish(EventPipelineStarted, nil)

	sub := c.Subscribe()
	defer c.Unsubscribe(sub)
	c.Publish(EventRedFlag, map[string]interface{}{"category": "occupancy"})

	events := drain(sub, 2)
	assert.Len(t, events, 2)
	assert.Equal(t, EventPipelineStarted, events[0].Type)
	assert.Equal(t, EventRedFlag, events[1].Type)
}

func TestHistoryEviction(t *testing.T) {
	c := NewChannel("s1")
	for i := 0; i < HistoryCap+10; i++ {
		c.Publish(EventPhaseProgress, map[string]interface{}{"i": i})
	}

	history := c.History()
	assert.Len(t, history, HistoryCap)
	assert.Equal(t, 10, history[0].Data["i"])
	assert.Equal(t, HistoryCap+9, history[len(history)-1].Data["i"])
}

func TestTerminalEventClosesChannel(t *testing.T) {
	c := NewChannel("s1")
	sub := c.Subscribe()

	c.Publish(EventPipelineComplete, nil)

	events := drain(sub, 2)
	assert.Len(t, events, 1)
	assert.True(t, c.Closed())

	// publish after close is a no-op
	c.Publish(EventRedFlag, nil)
	assert.Len(t, c.History(), 1)
}

func TestSubscribeAfterClose(t *testing.T) {
	c := NewChannel("s1")
	c.Publish(EventPipelineStarted, nil)
	c.Publish(EventPipelineError, map[string]interface{}{"error": "boom"})

	sub := c.Subscribe()
	events := drain(sub, 3)
	assert.Len(t, events, 2)

	_, open := <-sub.C
	assert.False(t, open)
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	c := NewChannel("s1")
	sub := c.Subscribe() // empty history: buffer is subscriberBuffer

	for i := 0; i < subscriberBuffer+1; i++ {
		c.Publish(EventPhaseProgress, map[string]interface{}{"i": i})
	}

	// the overflowing publish closed the subscriber instead of blocking
	events := drain(sub, subscriberBuffer+1)
	assert.Len(t, events, subscriberBuffer)
	_, open := <-sub.C
	assert.False(t, open)

	// publisher side keeps going
	c.Publish(EventPhaseProgress, nil)
	assert.Len(t, c.History(), subscriberBuffer+2)
}

func TestMirrorsReceiveEveryEvent(t *testing.T) {
	c := NewChannel("s1")
	var got []Event
	c.AddMirror(func(ev Event) { got = append(got, ev) })

	c.Publish(EventPipelineStarted, nil)
	c.Publish(EventPipelineComplete, nil)

	assert.Len(t, got, 2)
	assert.Equal(t, EventPipelineComplete, got[1].Type)
}
