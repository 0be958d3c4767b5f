package transport

import (
	"context"

	"github.com/solace-im/devicesync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Sender delivers a control-exchange envelope to its addressed peer devices.
// Implementations own retries; callers treat a returned error as final.
type Sender interface {
	Send(ctx context.Context, envelope models.Envelope) error
}

// Handler consumes an inbound envelope. The transport calls it once per
// delivered envelope; the error is logged, never propagated to the peer.
type Handler func(ctx context.Context, envelope models.Envelope) error
