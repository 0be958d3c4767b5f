// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncer

import (
	"context"
	"errors"
	"sync"

	"github.com/solace-im/devicesync/internal/logger"
)

// Job periodically reconciles the local store against the user's other
// devices. A round is skipped while the last completed sync is still within
// the freshness window, so an always-on device stays quiet and a device
// waking from a long offline stretch catches up on the first tick.
type Job struct {
	syncer *Syncer
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewJob(s *Syncer) *Job {
	return &Job{
		syncer: s,
		logger: s.logger.GetChildLogger("syncJob"),
	}
}

// Start launches the periodic job. The first round runs immediately,
// subsequent rounds on every interval tick. Calling Start on a running job
// is a no-op.
func (j *Job) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	j.wg.Add(1)
	go j.run(ctx)

	j.logger.Info().Dur("interval", j.syncer.cfg.Interval).Msg("periodic sync job started")
}

// Stop cancels the job and waits for the in-flight round to finish.
func (j *Job) Stop() {
	j.mu.Lock()
	if j.cancel == nil {
		j.mu.Unlock()
		return
	}
	j.cancel()
	j.cancel = nil
	j.mu.Unlock()

	j.wg.Wait()
	j.logger.Info().Msg("periodic sync job stopped")
}

func (j *Job) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := j.syncer.clock.NewTicker(j.syncer.cfg.Interval)
	defer ticker.Stop()

	j.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			j.tick(ctx)
		}
	}
}

func (j *Job) tick(ctx context.Context) {
	lastSync, err := j.syncer.storages.State.LastSync(ctx)
	if err != nil {
		j.logger.Err(err).Str("func", "tick").Msg("error reading last sync timestamp")
		return
	}

	now := j.syncer.clock.Now().UnixMilli()
	if lastSync > 0 && now-lastSync < j.syncer.cfg.FreshWindow.Milliseconds() {
		j.logger.Debug().
			Str("func", "tick").
			Int64("lastSync", lastSync).
			Msg("local state still fresh, skipping sync round")
		return
	}

	j.runRound(ctx, now)
}

// runRound issues a contentHistory and a deviceInfo session, leaves them
// open for the request TTL to gather responses, then records completion.
func (j *Job) runRound(ctx context.Context, startedAt int64) {
	content := j.syncer.NewRequest()
	if err := content.SyncContentHistory(ctx); err != nil {
		if errors.Is(err, ErrNoEligibleDevices) {
			j.logger.Info().Str("func", "runRound").Msg("skipping sync round, nothing to sync from")
			return
		}
		j.logger.Err(err).Str("func", "runRound").Msg("error starting content history sync")
		return
	}
	defer content.Close()

	device := j.syncer.NewRequest()
	if err := device.SyncDeviceInfo(ctx); err != nil {
		j.logger.Err(err).Str("func", "runRound").Msg("error starting device info sync")
	} else {
		defer device.Close()
	}

	select {
	case <-ctx.Done():
		return
	case <-j.syncer.clock.After(j.syncer.cfg.DefaultTTL):
	}

	stats := content.Stats()
	j.logger.Info().
		Str("func", "runRound").
		Int("threads", stats.Threads).
		Int("messages", stats.Messages).
		Int("contacts", stats.Contacts).
		Int("devices", device.Stats().Devices).
		Msg("sync round complete")

	if err := j.syncer.storages.State.SetLastSync(ctx, startedAt); err != nil {
		j.logger.Err(err).Str("func", "runRound").Msg("error recording sync completion")
	}
}
