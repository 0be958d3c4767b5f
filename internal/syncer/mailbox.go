package syncer

import "sync"

// mailbox serializes work per key: closures enqueued under the same key run
// one at a time in FIFO order, while different keys drain concurrently. The
// sync session id is used as the key so a session's responses are applied in
// arrival order even when the transport delivers them from many goroutines.
type mailbox struct {
	mu      sync.Mutex
	queues  map[string][]func()
	running map[string]bool
}

func newMailbox() *mailbox {
	return &mailbox{
		queues:  map[string][]func(){},
		running: map[string]bool{},
	}
}

func (m *mailbox) enqueue(key string, fn func()) {
	m.mu.Lock()
	m.queues[key] = append(m.queues[key], fn)
	if m.running[key] {
		m.mu.Unlock()
		return
	}
	m.running[key] = true
	m.mu.Unlock()

	go m.drain(key)
}

func (m *mailbox) drain(key string) {
	for {
		m.mu.Lock()
		queue := m.queues[key]
		if len(queue) == 0 {
			delete(m.queues, key)
			delete(m.running, key)
			m.mu.Unlock()
			return
		}
		fn := queue[0]
		m.queues[key] = queue[1:]
		m.mu.Unlock()

		fn()
	}
}
