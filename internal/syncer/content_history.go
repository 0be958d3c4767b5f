// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/solace-im/devicesync/internal/events"
	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

// peerLedger tracks everything the requester provably has: the exclusion
// manifests it sent plus whatever sibling responders have already delivered
// into the same session. Entries only accumulate; thread activity only rises.
type peerLedger struct {
	mu       sync.Mutex
	threads  map[string]int64
	messages map[string]struct{}
	contacts map[string]struct{}
}

func newPeerLedger(req *models.SyncRequest) *peerLedger {
	l := &peerLedger{
		threads:  map[string]int64{},
		messages: map[string]struct{}{},
		contacts: map[string]struct{}{},
	}
	for _, thread := range req.KnownThreads {
		l.threads[thread.ID] = thread.LastActivity
	}
	for _, id := range req.KnownMessages {
		l.messages[id] = struct{}{}
	}
	for _, id := range req.KnownContacts {
		l.contacts[id] = struct{}{}
	}
	return l
}

// observe folds a sibling responder's answer into the ledger.
func (l *peerLedger) observe(response models.SyncResponse) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, thread := range response.Threads {
		if activity, ok := l.threads[thread.ID]; !ok || thread.Timestamp > activity {
			l.threads[thread.ID] = thread.Timestamp
		}
	}
	for _, record := range response.Messages {
		l.messages[record.ID] = struct{}{}
	}
	for _, id := range response.Contacts {
		l.contacts[id] = struct{}{}
	}
}

func (l *peerLedger) hasMessage(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.messages[id]
	return ok
}

func (l *peerLedger) hasContact(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.contacts[id]
	return ok
}

// threadCovered reports whether the requester already holds activity for the
// thread at least as fresh as timestamp.
func (l *peerLedger) threadCovered(id string, timestamp int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	activity, ok := l.threads[id]
	return ok && activity >= timestamp
}

// contentHistoryResponder answers one contentHistory session: it sends the
// requester everything local the request's manifests do not cover, watching
// sibling responders so the same content is not shipped twice.
type contentHistoryResponder struct {
	syncer    *Syncer
	sessionID string
	requester string
	req       *models.SyncRequest
	ledger    *peerLedger
	logger    *logger.Logger
}

func newContentHistoryResponder(s *Syncer, envelope models.Envelope) *contentHistoryResponder {
	child := s.logger.GetChildLogger("contentHistoryResponder")
	return &contentHistoryResponder{
		syncer:    s,
		sessionID: envelope.ThreadID,
		requester: envelope.SenderDevice,
		req:       envelope.Request,
		ledger:    newPeerLedger(envelope.Request),
		logger:    &logger.Logger{Logger: child.With().Str("sessionID", envelope.ThreadID).Logger()},
	}
}

func (r *contentHistoryResponder) process(ctx context.Context) error {
	// watch sibling responders for the whole session so anything they cover
	// first is skipped here
	sub := r.syncer.bus.SubscribeResponses(func(ev events.ResponseEvent) {
		if ev.SessionID != r.sessionID || ev.SenderDevice == r.syncer.identity.DeviceID {
			return
		}
		r.ledger.observe(ev.Response)
	})
	defer sub.Close()

	if err := r.stagger(ctx); err != nil {
		return err
	}

	if err := r.sendContacts(ctx); err != nil {
		return err
	}

	threads, err := r.syncer.storages.Threads.GetAllThreads(ctx)
	if err != nil {
		return fmt.Errorf("failed to load threads: %w", err)
	}
	// randomized order spreads coverage across concurrent responders
	rand.Shuffle(len(threads), func(i, j int) {
		threads[i], threads[j] = threads[j], threads[i]
	})

	for _, thread := range threads {
		if err := r.sendThreadMessages(ctx, thread); err != nil {
			return err
		}
		if err := r.sendThreadSummary(ctx, thread); err != nil {
			return err
		}
	}

	return nil
}

// stagger delays this responder by its position in the request's device
// list, giving higher-priority devices a head start whose responses this
// device then observes and avoids duplicating.
func (r *contentHistoryResponder) stagger(ctx context.Context) error {
	index := -1
	for i, deviceID := range r.req.Devices {
		if deviceID == r.syncer.identity.DeviceID {
			index = i
			break
		}
	}
	if index <= 0 {
		return nil
	}

	delay := time.Duration(index) * r.syncer.cfg.StaggerStep
	r.logger.Debug().
		Str("func", "stagger").
		Int("position", index).
		Dur("delay", delay).
		Msg("staggering response start")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.syncer.clock.After(delay):
		return nil
	}
}

func (r *contentHistoryResponder) sendContacts(ctx context.Context) error {
	contacts, err := r.syncer.storages.Contacts.GetAllContacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	var diff []string
	for _, contact := range contacts {
		if !r.ledger.hasContact(contact.ID) {
			diff = append(diff, contact.ID)
		}
	}
	if len(diff) == 0 {
		return nil
	}

	return r.syncer.sendResponse(ctx, r.sessionID, r.requester,
		models.SyncResponse{Contacts: diff}, nil)
}

func (r *contentHistoryResponder) sendThreadMessages(ctx context.Context, thread models.Thread) error {
	messages, err := r.syncer.storages.Messages.GetThreadMessages(ctx, thread.ID)
	if err != nil {
		return fmt.Errorf("failed to load messages for thread %s: %w", thread.ID, err)
	}
	rand.Shuffle(len(messages), func(i, j int) {
		messages[i], messages[j] = messages[j], messages[i]
	})

	var pending []models.Message
	for _, message := range messages {
		if !r.ledger.hasMessage(message.ID) {
			pending = append(pending, message)
		}
	}

	batchSize := r.syncer.cfg.MessageBatchSize
	for start := 0; start < len(pending); start += batchSize {
		end := min(start+batchSize, len(pending))

		var attachments []models.Attachment
		records := make([]models.MessageRecord, 0, end-start)
		for _, message := range pending[start:end] {
			// re-check: a sibling may have covered it while earlier batches
			// were in flight
			if r.ledger.hasMessage(message.ID) {
				continue
			}
			records = append(records, models.NewMessageRecord(message, &attachments))
		}
		if len(records) == 0 {
			continue
		}

		err := r.syncer.sendResponse(ctx, r.sessionID, r.requester,
			models.SyncResponse{Messages: records}, attachments)
		if err != nil {
			return err
		}

		r.logger.Debug().
			Str("func", "sendThreadMessages").
			Str("threadID", thread.ID).
			Int("messages", len(records)).
			Int("attachments", len(attachments)).
			Msg("sent message batch")
	}

	return nil
}

// sendThreadSummary ships the thread's summary only when the local copy is
// strictly fresher than anything the requester holds or has been sent.
func (r *contentHistoryResponder) sendThreadSummary(ctx context.Context, thread models.Thread) error {
	if r.ledger.threadCovered(thread.ID, thread.Timestamp) {
		return nil
	}

	return r.syncer.sendResponse(ctx, r.sessionID, r.requester,
		models.SyncResponse{Threads: []models.Thread{thread}}, nil)
}
