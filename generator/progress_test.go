package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterFanOut(t *testing.T) {
	b := NewBroadcaster()
	a, cancelA := b.Subscribe(4)
	defer cancelA()
	c, cancelC := b.Subscribe(4)
	defer cancelC()

	b.Observe(Progress{Label: "Starting", Percent: 0})
	b.Observe(Progress{Label: "Complete!", Percent: 100})

	for _, ch := range []<-chan Progress{a, c} {
		assert.Equal(t, Progress{Label: "Starting", Percent: 0}, <-ch)
		assert.Equal(t, Progress{Label: "Complete!", Percent: 100}, <-ch)
	}
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, 100, last.Percent)
}

func TestBroadcasterNeverBlocks(t *testing.T) {
	b := NewBroadcaster()
	_, cancel := b.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Observe(Progress{Percent: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Observe blocked on a slow subscriber")
	}
	assert.Equal(t, int64(9), b.Dropped())
}

func TestBroadcasterClose(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(1)
	b.Close()
	b.Close()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	b.Observe(Progress{Percent: 50})
	_, ok := b.Last()
	assert.False(t, ok)

	late, _ := b.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(1)
	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	b.Observe(Progress{Percent: 10})
	assert.Equal(t, int64(0), b.Dropped())
}

func TestObservers(t *testing.T) {
	var got []int
	obs := Observers{
		ObserverFunc(func(p Progress) { got = append(got, p.Percent) }),
		nil,
		ObserverFunc(func(p Progress) { got = append(got, p.Percent+1) }),
	}
	obs.Observe(Progress{Percent: 10})
	assert.Equal(t, []int{10, 11}, got)
}

func TestBroadcasterSubscribeWithLast(t *testing.T) {
	b := NewBroadcaster()
	ch, _, replay, cancel := b.SubscribeWithLast(4)
	assert.False(t, replay)
	cancel()

	b.Observe(Progress{Label: "Starting Overview...", Percent: 0})
	b.Observe(Progress{Label: "Completed Overview", Percent: 20})

	ch, last, replay, cancel := b.SubscribeWithLast(4)
	defer cancel()
	require.True(t, replay)
	assert.Equal(t, Progress{Label: "Completed Overview", Percent: 20}, last)

	b.Observe(Progress{Label: "Starting Setup...", Percent: 23})
	b.Close()

	var got []Progress
	for p := range ch {
		got = append(got, p)
	}
	assert.Equal(t, []Progress{{Label: "Starting Setup...", Percent: 23}}, got)

	late, last, replay, _ := b.SubscribeWithLast(1)
	_, open := <-late
	assert.False(t, open)
	assert.True(t, replay)
	assert.Equal(t, 23, last.Percent)
}
