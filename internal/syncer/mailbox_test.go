package syncer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox_FIFOPerKey(t *testing.T) {
	m := newMailbox()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	wg.Add(100)
	for i := 0; i < 100; i++ {
		i := i
		m.enqueue("session-1", func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	require.Len(t, order, 100)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestMailbox_KeysDrainIndependently(t *testing.T) {
	m := newMailbox()

	release := make(chan struct{})
	blockedRunning := make(chan struct{})
	m.enqueue("blocked", func() {
		close(blockedRunning)
		<-release
	})
	<-blockedRunning

	done := make(chan struct{})
	m.enqueue("free", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a blocked key must not stall other keys")
	}
	close(release)
}

func TestMailbox_RestartsAfterDrain(t *testing.T) {
	m := newMailbox()

	first := make(chan struct{})
	m.enqueue("session-1", func() { close(first) })
	<-first

	// queue fully drained; a later enqueue must spin up a fresh drain
	second := make(chan struct{})
	m.enqueue("session-1", func() { close(second) })

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("mailbox did not resume after draining")
	}
}
