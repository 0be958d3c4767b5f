// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"dario.cat/mergo"

	"github.com/solace-im/devicesync/internal/events"
	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/internal/store"
	"github.com/solace-im/devicesync/models"
)

// Stats counts what a sync session has applied to the local store so far.
type Stats struct {
	Threads  int
	Messages int
	Contacts int
	Devices  int
}

// Request is one sync session on the requester side. Its id doubles as the
// session correlation id on the wire; every response carrying that id is
// routed back here and applied in arrival order.
//
// A Request is single-use: it starts exactly one session and is then closed.
type Request struct {
	id     string
	syncer *Syncer
	logger *logger.Logger

	mu            sync.Mutex
	bound         bool
	syncType      models.SyncType
	stats         Stats
	seenMessages  map[string]struct{}
	seenContacts  map[string]struct{}
	subscription  *events.Subscription
	responseHooks []func(Stats)
}

// NewRequest allocates a sync session with a fresh correlation id.
func (s *Syncer) NewRequest() *Request {
	id := s.ids.Generate()
	child := s.logger.GetChildLogger("request")
	return &Request{
		id:           id,
		syncer:       s,
		logger:       &logger.Logger{Logger: child.With().Str("sessionID", id).Logger()},
		seenMessages: map[string]struct{}{},
		seenContacts: map[string]struct{}{},
	}
}

// SessionID returns the correlation id of this session.
func (r *Request) SessionID() string {
	return r.id
}

// OnResponse registers fn to run after each response has been applied,
// receiving the session's cumulative stats. Must be called before the
// session starts.
func (r *Request) OnResponse(fn func(Stats)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responseHooks = append(r.responseHooks, fn)
}

// Stats returns what the session has applied so far.
func (r *Request) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Close releases the session's response subscription. Responses arriving
// after Close are dropped as foreign by whoever else is listening. Safe to
// call multiple times.
func (r *Request) Close() {
	r.mu.Lock()
	sub := r.subscription
	r.mu.Unlock()
	sub.Close()
}

// SyncContentHistory starts a contentHistory session: it manifests everything
// the local store already holds and asks the given devices for the rest.
// When no devices are given, eligible peers are resolved from the device
// directory.
func (r *Request) SyncContentHistory(ctx context.Context, devices ...string) error {
	req := models.SyncRequest{
		Type: models.SyncTypeContentHistory,
		TTL:  r.syncer.cfg.DefaultTTL.Milliseconds(),
	}

	threads, err := r.syncer.storages.Threads.GetAllThreads(ctx)
	if err != nil {
		return fmt.Errorf("failed to manifest known threads: %w", err)
	}
	for _, thread := range threads {
		req.KnownThreads = append(req.KnownThreads, models.KnownThread{
			ID:           thread.ID,
			LastActivity: thread.Timestamp,
		})

		messages, err := r.syncer.storages.Messages.GetThreadMessages(ctx, thread.ID)
		if err != nil {
			return fmt.Errorf("failed to manifest known messages: %w", err)
		}
		for _, message := range messages {
			req.KnownMessages = append(req.KnownMessages, message.ID)
			r.seenMessages[message.ID] = struct{}{}
		}
	}

	contacts, err := r.syncer.storages.Contacts.GetAllContacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to manifest known contacts: %w", err)
	}
	for _, contact := range contacts {
		req.KnownContacts = append(req.KnownContacts, contact.ID)
		r.seenContacts[contact.ID] = struct{}{}
	}

	return r.start(ctx, req, devices)
}

// SyncDeviceInfo starts a deviceInfo session asking peers for their current
// self-reported snapshots.
func (r *Request) SyncDeviceInfo(ctx context.Context, devices ...string) error {
	req := models.SyncRequest{
		Type: models.SyncTypeDeviceInfo,
		TTL:  r.syncer.cfg.DefaultTTL.Milliseconds(),
	}
	return r.start(ctx, req, devices)
}

func (r *Request) start(ctx context.Context, req models.SyncRequest, devices []string) error {
	if len(devices) == 0 {
		var err error
		devices, err = r.syncer.eligibleDevices(ctx)
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			r.logger.Warn().Str("func", "start").Msg("no eligible peer devices to sync from")
			return ErrNoEligibleDevices
		}
	}
	req.Devices = devices

	r.mu.Lock()
	if r.bound {
		r.mu.Unlock()
		return ErrRequestReused
	}
	r.bound = true
	r.syncType = req.Type
	r.subscription = r.syncer.bus.SubscribeResponses(r.routeResponse)
	r.mu.Unlock()

	envelope := models.Envelope{
		ThreadID:     r.id,
		Control:      models.ControlSyncRequest,
		SenderDevice: r.syncer.identity.DeviceID,
		Sent:         r.syncer.clock.Now().UnixMilli(),
		Devices:      devices,
		Request:      &req,
	}

	r.logger.Info().
		Str("func", "start").
		Str("type", string(req.Type)).
		Strs("devices", devices).
		Int("knownThreads", len(req.KnownThreads)).
		Int("knownMessages", len(req.KnownMessages)).
		Int("knownContacts", len(req.KnownContacts)).
		Msg("starting sync session")

	if err := r.syncer.sender.Send(ctx, envelope); err != nil {
		r.Close()
		return fmt.Errorf("failed to send sync request: %w", err)
	}

	return nil
}

// routeResponse is the bus handler: it keeps only this session's events and
// hands them to the mailbox so they apply serially in arrival order.
func (r *Request) routeResponse(ev events.ResponseEvent) {
	if ev.SessionID != r.id {
		r.logger.Debug().
			Str("func", "routeResponse").
			Str("foreignSession", ev.SessionID).
			Msg("dropping response for foreign session")
		return
	}

	r.syncer.mailbox.enqueue(r.id, func() {
		r.applyResponse(context.Background(), ev)
	})
}

func (r *Request) applyResponse(ctx context.Context, ev events.ResponseEvent) {
	switch r.syncType {
	case models.SyncTypeContentHistory:
		r.applyContentHistory(ctx, ev)
	case models.SyncTypeDeviceInfo:
		r.applyDeviceInfo(ctx, ev)
	}

	r.mu.Lock()
	stats := r.stats
	hooks := r.responseHooks
	r.mu.Unlock()

	for _, hook := range hooks {
		hook(stats)
	}
}

func (r *Request) applyContentHistory(ctx context.Context, ev events.ResponseEvent) {
	var applied Stats

	for _, thread := range ev.Response.Threads {
		existing, err := r.syncer.storages.Threads.GetThread(ctx, thread.ID)
		switch {
		case errors.Is(err, store.ErrThreadNotFound):
			// new thread, take it
		case err != nil:
			r.logger.Err(err).Str("func", "applyContentHistory").Str("threadID", thread.ID).Msg("error loading thread")
			continue
		case thread.Timestamp <= existing.Timestamp:
			// ours is as fresh or fresher
			continue
		}

		if err := r.syncer.storages.Threads.SaveThread(ctx, thread); err != nil {
			r.logger.Err(err).Str("func", "applyContentHistory").Str("threadID", thread.ID).Msg("error saving thread")
			continue
		}
		applied.Threads++
	}

	for _, record := range ev.Response.Messages {
		if _, seen := r.seenMessages[record.ID]; seen {
			continue
		}

		message, err := record.Restore(ev.Attachments)
		if err != nil {
			r.logger.Err(err).Str("func", "applyContentHistory").Str("messageID", record.ID).Msg("error restoring message attachments")
			continue
		}
		if err := r.syncer.storages.Messages.SaveMessage(ctx, message); err != nil {
			r.logger.Err(err).Str("func", "applyContentHistory").Str("messageID", record.ID).Msg("error saving message")
			continue
		}
		r.seenMessages[record.ID] = struct{}{}
		applied.Messages++
	}

	if len(ev.Response.Contacts) > 0 {
		applied.Contacts += r.applyContacts(ctx, ev.Response.Contacts)
	}

	r.mu.Lock()
	r.stats.Threads += applied.Threads
	r.stats.Messages += applied.Messages
	r.stats.Contacts += applied.Contacts
	r.mu.Unlock()

	r.logger.Debug().
		Str("func", "applyContentHistory").
		Str("peer", ev.SenderDevice).
		Int("threads", applied.Threads).
		Int("messages", applied.Messages).
		Int("contacts", applied.Contacts).
		Msg("applied content history response")
}

func (r *Request) applyContacts(ctx context.Context, ids []string) int {
	if r.syncer.resolver == nil {
		r.logger.Debug().Str("func", "applyContacts").Msg("no contact resolver configured, skipping contact ids")
		return 0
	}

	unseen := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, seen := r.seenContacts[id]; !seen {
			unseen = append(unseen, id)
		}
	}
	if len(unseen) == 0 {
		return 0
	}

	contacts, err := r.syncer.resolver.Resolve(ctx, unseen)
	if err != nil {
		// directory hiccups are transient, the next session retries
		r.logger.Warn().Err(err).Str("func", "applyContacts").Msg("error resolving contact ids")
		return 0
	}

	applied := 0
	for _, contact := range contacts {
		if err := r.syncer.storages.Contacts.SaveContact(ctx, contact); err != nil {
			r.logger.Err(err).Str("func", "applyContacts").Str("contactID", contact.ID).Msg("error saving contact")
			continue
		}
		r.seenContacts[contact.ID] = struct{}{}
		applied++
	}
	return applied
}

// applyDeviceInfo merges the peer's self-reported snapshot into the device
// registry. Fields present in the new snapshot win; fields it omits keep
// whatever the registry already held. Registry entries are never deleted.
func (r *Request) applyDeviceInfo(ctx context.Context, ev events.ResponseEvent) {
	info := ev.Response.DeviceInfo
	if info == nil {
		r.logger.Debug().Str("func", "applyDeviceInfo").Str("peer", ev.SenderDevice).Msg("deviceInfo response without snapshot")
		return
	}

	registry, err := r.syncer.storages.State.DeviceRegistry(ctx)
	if err != nil {
		r.logger.Err(err).Str("func", "applyDeviceInfo").Msg("error loading device registry")
		return
	}

	merged := *info
	if existing, ok := registry[info.ID]; ok {
		if err := mergo.Merge(&merged, existing); err != nil {
			r.logger.Err(err).Str("func", "applyDeviceInfo").Str("deviceID", info.ID).Msg("error merging device snapshot")
			return
		}
	}
	registry[info.ID] = merged

	if err := r.syncer.storages.State.SaveDeviceRegistry(ctx, registry); err != nil {
		r.logger.Err(err).Str("func", "applyDeviceInfo").Msg("error saving device registry")
		return
	}

	r.mu.Lock()
	r.stats.Devices++
	r.mu.Unlock()
}

// eligibleDevices resolves sync targets from the device directory: every
// device except this one that has been seen recently enough, ordered oldest
// provisioned first so the most authoritative copies answer earliest.
func (s *Syncer) eligibleDevices(ctx context.Context) ([]string, error) {
	devices, err := s.storages.Devices.GetDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	now := s.clock.Now().UnixMilli()
	staleAfter := s.cfg.DeviceStaleAfter.Milliseconds()

	eligible := make([]models.Device, 0, len(devices))
	for _, device := range devices {
		if device.ID == s.identity.DeviceID {
			continue
		}
		if now-device.LastSeen > staleAfter {
			continue
		}
		eligible = append(eligible, device)
	}
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].Created < eligible[j].Created
	})

	ids := make([]string, 0, len(eligible))
	for _, device := range eligible {
		ids = append(ids, device.ID)
	}
	return ids, nil
}
