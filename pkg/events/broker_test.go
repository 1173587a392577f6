package events_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/events"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestBroker_DeliversInOrder(t *testing.T) {
	b := events.NewBroker()
	defer b.Close()

	var mu sync.Mutex
	var got []string
	b.Subscribe("l1", func(evt domain.Event) {
		mu.Lock()
		got = append(got, evt.NodeID)
		mu.Unlock()
	})

	for _, id := range []string{"a", "b", "c"} {
		b.Publish(domain.Event{Type: domain.EventNodeCompleted, NodeID: id})
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	})

	mu.Lock()
	assert.Equal(t, []string{"a", "b", "c"}, got)
	mu.Unlock()
}

func TestBroker_SlowListenerDoesNotBlockOthers(t *testing.T) {
	b := events.NewBroker(events.WithBuffer(1))
	defer b.Close()

	block := make(chan struct{})
	b.Subscribe("slow", func(evt domain.Event) {
		<-block
	})

	var mu sync.Mutex
	fast := 0
	b.Subscribe("fast", func(evt domain.Event) {
		mu.Lock()
		fast++
		mu.Unlock()
	})

	// Publish never blocks even though the slow listener stalls.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			b.Publish(domain.Event{Type: domain.EventNodeCompleted})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow listener")
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fast == 20
	})
	close(block)
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := events.NewBroker()
	defer b.Close()

	b.Subscribe("l1", func(evt domain.Event) {})
	assert.Equal(t, 1, b.Len())

	assert.True(t, b.Unsubscribe("l1"))
	assert.False(t, b.Unsubscribe("l1"))
	assert.Equal(t, 0, b.Len())
}

func TestBroker_SubscribeReplacesSameID(t *testing.T) {
	b := events.NewBroker()
	defer b.Close()

	var mu sync.Mutex
	var got []string
	b.Subscribe("l1", func(evt domain.Event) {
		mu.Lock()
		got = append(got, "old")
		mu.Unlock()
	})
	b.Subscribe("l1", func(evt domain.Event) {
		mu.Lock()
		got = append(got, "new")
		mu.Unlock()
	})
	require.Equal(t, 1, b.Len())

	b.Publish(domain.Event{Type: domain.EventNodeCompleted})
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	})

	mu.Lock()
	assert.Equal(t, []string{"new"}, got)
	mu.Unlock()
}

func TestBroker_PanickingListenerIsContained(t *testing.T) {
	b := events.NewBroker()
	defer b.Close()

	b.Subscribe("angry", func(evt domain.Event) {
		panic("listener bug")
	})

	var mu sync.Mutex
	calm := 0
	b.Subscribe("calm", func(evt domain.Event) {
		mu.Lock()
		calm++
		mu.Unlock()
	})

	b.Publish(domain.Event{Type: domain.EventNodeCompleted})
	b.Publish(domain.Event{Type: domain.EventNodeCompleted})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calm == 2
	})
}

func TestBroker_IdleExpiry(t *testing.T) {
	b := events.NewBroker(events.WithIdleExpiry(30 * time.Millisecond))
	defer b.Close()

	b.Subscribe("l1", func(evt domain.Event) {})
	assert.Equal(t, 1, b.Len())

	waitFor(t, func() bool { return b.Len() == 0 })
}

func TestBroker_ClosedIgnoresSubscribe(t *testing.T) {
	b := events.NewBroker()
	b.Subscribe("l1", func(evt domain.Event) {})
	b.Close()

	assert.Equal(t, 0, b.Len())
	b.Subscribe("l2", func(evt domain.Event) {})
	assert.Equal(t, 0, b.Len())
}
