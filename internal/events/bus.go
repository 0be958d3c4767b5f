// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events implements the typed publish/subscribe broker the sync
// subsystem uses to fan inbound syncResponse exchanges out to interested
// parties: the request that started a session and every responder watching
// its siblings answer the same session.
//
// The broker is owned by the sync subsystem and passed explicitly; nothing
// here is process-global. Every subscription is paired with a handle whose
// Close releases it, so callers can guarantee teardown on all exit paths.
package events

import (
	"sync"

	"github.com/solace-im/devicesync/models"
)

// ResponseEvent is one inbound syncResponse exchange. SessionID binds it to
// the request that started the session; handlers are expected to drop events
// from foreign sessions.
type ResponseEvent struct {
	SessionID    string
	SenderDevice string
	Response     models.SyncResponse
	Attachments  []models.Attachment
}

// Bus is a minimal synchronous broker for ResponseEvents. Publish calls every
// registered handler in the publishing goroutine; handlers that need
// serialization or asynchrony arrange it themselves.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]func(ResponseEvent)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]func(ResponseEvent))}
}

// SubscribeResponses registers fn for every published ResponseEvent and
// returns the handle that removes it. The caller owns the handle and must
// Close it when done; a leaked subscription keeps receiving events for the
// lifetime of the bus.
func (b *Bus) SubscribeResponses(fn func(ResponseEvent)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[id] = fn

	return &Subscription{release: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}}
}

// PublishResponse delivers ev to every handler subscribed at the time of the
// call. Handlers registered or removed while publishing do not affect the
// current delivery.
func (b *Bus) PublishResponse(ev ResponseEvent) {
	b.mu.RLock()
	handlers := make([]func(ResponseEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// ActiveSubscriptions reports how many handlers are currently registered.
// Used by tests to assert that sync rounds do not leak listeners.
func (b *Bus) ActiveSubscriptions() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Subscription is the release handle returned by SubscribeResponses.
type Subscription struct {
	once    sync.Once
	release func()
}

// Close removes the subscription from the bus. Safe to call multiple times
// and on a nil handle.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.release)
}
