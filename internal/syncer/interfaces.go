package syncer

import (
	"context"

	"github.com/solace-im/devicesync/models"
)

// Locator produces a best-effort geolocation fix for deviceInfo responses.
// Implementations may block; the responder bounds the call with the
// configured location timeout and omits the field when it elapses.
type Locator interface {
	Current(ctx context.Context) (models.Location, error)
}

// UnsupportedLocator is the headless default: every query fails with
// ErrLocationUnsupported, so deviceInfo snapshots go out without a location.
type UnsupportedLocator struct{}

func (UnsupportedLocator) Current(context.Context) (models.Location, error) {
	return models.Location{}, ErrLocationUnsupported
}

// ContactResolver fetches full contact records for ids learned from a
// contentHistory response. The sync protocol only moves contact ids; the
// requester resolves them against the account directory before storing.
type ContactResolver interface {
	Resolve(ctx context.Context, ids []string) ([]models.Contact, error)
}
