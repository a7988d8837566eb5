package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	n := New()
	assert.Equal(t, 0, n.Len())

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	assert.Equal(t, 2, n.Len())

	n.Unsubscribe(ch1)
	assert.Equal(t, 1, n.Len())

	// The channel is closed on unsubscribe.
	_, open := <-ch1
	assert.False(t, open)

	n.Unsubscribe(ch2)
	assert.Equal(t, 0, n.Len())
}

func TestBroadcast(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Broadcast()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a ping")
	}
}

func TestBroadcast_DoesNotBlockOnSlowListener(t *testing.T) {
	n := New()
	slow := n.Subscribe()
	defer n.Unsubscribe(slow)

	// The slow listener never drains; repeated broadcasts coalesce into the
	// single buffered ping instead of blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Broadcast()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on an undrained listener")
	}
	assert.Len(t, slow, 1)
}

func TestBroadcast_NoListeners(t *testing.T) {
	n := New()
	n.Broadcast()
}

func TestConcurrentSubscribeBroadcast(t *testing.T) {
	n := New()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Unsubscribe(ch)
		}()
		go func() {
			defer wg.Done()
			n.Broadcast()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, n.Len())
}
