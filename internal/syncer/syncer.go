// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package syncer implements cross-device state reconciliation over control
// exchanges. A device missing content issues a syncRequest naming its peers
// and everything it already holds; each peer answers with syncResponse
// exchanges carrying only the difference, watching its sibling responders to
// avoid sending what another device has already covered.
package syncer

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/solace-im/devicesync/internal/config"
	"github.com/solace-im/devicesync/internal/events"
	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/internal/store"
	"github.com/solace-im/devicesync/internal/transport"
	"github.com/solace-im/devicesync/internal/utils"
	"github.com/solace-im/devicesync/models"
)

// Identity describes the local device as reported in deviceInfo snapshots
// and stamped on outgoing exchanges.
type Identity struct {
	DeviceID       string
	DeviceName     string
	UserAgent      string
	Platform       string
	Version        string
	ConnectionType string
	LastIP         string
}

// Syncer is the device-local sync engine. It plays both protocol roles:
// it answers inbound syncRequests from peers and issues its own requests
// through Request sessions.
type Syncer struct {
	cfg      config.Sync
	identity Identity
	storages *store.Storages
	sender   transport.Sender
	bus      *events.Bus
	locator  Locator
	resolver ContactResolver
	clock    clockwork.Clock
	ids      *utils.UUIDGenerator
	mailbox  *mailbox
	logger   *logger.Logger
}

// New constructs a Syncer. locator and resolver may be nil; the engine then
// omits geolocation from deviceInfo responses and skips contact resolution
// on the requester side.
func New(
	cfg config.Sync,
	identity Identity,
	storages *store.Storages,
	sender transport.Sender,
	bus *events.Bus,
	locator Locator,
	resolver ContactResolver,
	clock clockwork.Clock,
	log *logger.Logger,
) *Syncer {
	return &Syncer{
		cfg:      cfg,
		identity: identity,
		storages: storages,
		sender:   sender,
		bus:      bus,
		locator:  locator,
		resolver: resolver,
		clock:    clock,
		ids:      utils.NewUUIDGenerator(),
		mailbox:  newMailbox(),
		logger:   log.GetChildLogger("syncer"),
	}
}

// HandleEnvelope is the transport entry point for inbound control exchanges.
// syncRequest envelopes are dispatched to the matching responder; syncResponse
// envelopes are published on the bus for whichever session is listening.
// Envelopes with any other control value are ignored.
func (s *Syncer) HandleEnvelope(ctx context.Context, envelope models.Envelope) error {
	switch envelope.Control {
	case models.ControlSyncRequest:
		return s.processRequest(ctx, envelope)
	case models.ControlSyncResponse:
		if envelope.Response == nil {
			return fmt.Errorf("%w: syncResponse without response payload", ErrMalformedExchange)
		}
		s.bus.PublishResponse(events.ResponseEvent{
			SessionID:    envelope.ThreadID,
			SenderDevice: envelope.SenderDevice,
			Response:     *envelope.Response,
			Attachments:  envelope.Attachments,
		})
		return nil
	default:
		s.logger.Debug().
			Str("func", "HandleEnvelope").
			Str("control", envelope.Control).
			Msg("ignoring non-sync control exchange")
		return nil
	}
}

// processRequest validates an inbound syncRequest and runs the responder
// matching its type. Requests older than their TTL are dropped without error:
// a stale request means the requester has moved on and answering it now would
// only waste bandwidth.
func (s *Syncer) processRequest(ctx context.Context, envelope models.Envelope) error {
	req := envelope.Request
	if req == nil {
		return fmt.Errorf("%w: syncRequest without request payload", ErrMalformedExchange)
	}

	age := s.clock.Now().UnixMilli() - envelope.Sent
	if age > req.TTL {
		s.logger.Warn().
			Str("func", "processRequest").
			Str("sessionID", envelope.ThreadID).
			Str("requester", envelope.SenderDevice).
			Int64("ageMillis", age).
			Int64("ttlMillis", req.TTL).
			Msg("dropping stale sync request")
		return nil
	}

	s.logger.Info().
		Str("func", "processRequest").
		Str("sessionID", envelope.ThreadID).
		Str("requester", envelope.SenderDevice).
		Str("type", string(req.Type)).
		Msg("processing sync request")

	switch req.Type {
	case models.SyncTypeContentHistory:
		return newContentHistoryResponder(s, envelope).process(ctx)
	case models.SyncTypeDeviceInfo:
		return newDeviceInfoResponder(s, envelope).process(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedRequestType, req.Type)
	}
}

// sendResponse wraps a SyncResponse in an envelope addressed back to the
// device that issued the request for session sessionID.
func (s *Syncer) sendResponse(ctx context.Context, sessionID, requester string, response models.SyncResponse, attachments []models.Attachment) error {
	response.Device = s.identity.DeviceID

	envelope := models.Envelope{
		ThreadID:     sessionID,
		Control:      models.ControlSyncResponse,
		SenderDevice: s.identity.DeviceID,
		Sent:         s.clock.Now().UnixMilli(),
		Devices:      []string{requester},
		Response:     &response,
		Attachments:  attachments,
	}

	return s.sender.Send(ctx, envelope)
}
