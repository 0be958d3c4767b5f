package syncer

import (
	"context"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

// deviceInfoResponder answers one deviceInfo session with a snapshot of the
// local device. The geolocation query races a timeout; when it loses, the
// snapshot simply goes out without a location.
type deviceInfoResponder struct {
	syncer    *Syncer
	sessionID string
	requester string
	logger    *logger.Logger
}

func newDeviceInfoResponder(s *Syncer, envelope models.Envelope) *deviceInfoResponder {
	return &deviceInfoResponder{
		syncer:    s,
		sessionID: envelope.ThreadID,
		requester: envelope.SenderDevice,
		logger:    s.logger.GetChildLogger("deviceInfoResponder"),
	}
}

func (r *deviceInfoResponder) process(ctx context.Context) error {
	identity := r.syncer.identity
	info := models.DeviceInfo{
		ID:             identity.DeviceID,
		Name:           identity.DeviceName,
		UserAgent:      identity.UserAgent,
		Platform:       identity.Platform,
		Version:        identity.Version,
		ConnectionType: identity.ConnectionType,
		LastIP:         identity.LastIP,
	}

	lastSync, err := r.syncer.storages.State.LastSync(ctx)
	if err != nil {
		r.logger.Err(err).Str("func", "process").Msg("error reading last sync timestamp")
	} else {
		info.LastSync = lastSync
	}

	info.LastLocation = r.currentLocation(ctx)

	return r.syncer.sendResponse(ctx, r.sessionID, r.requester,
		models.SyncResponse{DeviceInfo: &info}, nil)
}

// currentLocation queries the locator, bounded by the configured timeout.
// Returns nil when no locator is configured, the query fails, or the timeout
// wins the race.
func (r *deviceInfoResponder) currentLocation(ctx context.Context) *models.Location {
	if r.syncer.locator == nil {
		return nil
	}

	type fix struct {
		location models.Location
		err      error
	}
	result := make(chan fix, 1)
	go func() {
		location, err := r.syncer.locator.Current(ctx)
		result <- fix{location, err}
	}()

	select {
	case res := <-result:
		if res.err != nil {
			r.logger.Warn().Err(res.err).Str("func", "currentLocation").Msg("geolocation query failed, omitting location")
			return nil
		}
		return &res.location
	case <-r.syncer.clock.After(r.syncer.cfg.LocationTimeout):
		r.logger.Warn().Str("func", "currentLocation").Msg("geolocation query timed out, omitting location")
		return nil
	case <-ctx.Done():
		return nil
	}
}
