package transport

import (
	"context"
	"sync"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

// Loopback is an in-process exchange hub: every attached device gets a
// Sender whose envelopes are delivered synchronously to the handlers of the
// devices named in the envelope. It backs tests and single-process
// multi-device setups where no relay is available.
type Loopback struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *logger.Logger
}

func NewLoopback(log *logger.Logger) *Loopback {
	return &Loopback{
		handlers: map[string]Handler{},
		logger:   log.GetChildLogger("loopback"),
	}
}

// Attach registers a device's inbound handler and returns the Sender that
// device should use for outbound envelopes.
func (l *Loopback) Attach(deviceID string, handler Handler) Sender {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.handlers[deviceID] = handler
	return &loopbackSender{hub: l, deviceID: deviceID}
}

func (l *Loopback) deliver(ctx context.Context, from string, envelope models.Envelope) error {
	l.mu.RLock()
	targets := make([]Handler, 0, len(envelope.Devices))
	for _, deviceID := range envelope.Devices {
		if deviceID == from {
			continue
		}
		if handler, ok := l.handlers[deviceID]; ok {
			targets = append(targets, handler)
		} else {
			l.logger.Warn().
				Str("func", "deliver").
				Str("deviceID", deviceID).
				Str("sessionID", envelope.ThreadID).
				Msg("dropping envelope for unattached device")
		}
	}
	l.mu.RUnlock()

	for _, handler := range targets {
		if err := handler(ctx, envelope); err != nil {
			l.logger.Err(err).
				Str("func", "deliver").
				Str("sessionID", envelope.ThreadID).
				Msg("error handling loopback envelope")
		}
	}

	return nil
}

type loopbackSender struct {
	hub      *Loopback
	deviceID string
}

func (s *loopbackSender) Send(ctx context.Context, envelope models.Envelope) error {
	return s.hub.deliver(ctx, s.deviceID, envelope)
}
