// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package transport

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/solace-im/devicesync/internal/config"
	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

const exchangePath = "/v1/exchange"

type relaySender struct {
	client  *resty.Client
	baseURL string
	logger  *logger.Logger
}

// NewRelaySender creates a Sender that POSTs envelopes to the relay's
// exchange endpoint. Timeouts and retry counts come from the transport
// configuration.
func NewRelaySender(cfg config.Transport, log *logger.Logger) Sender {
	client := resty.New().
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Content-Type", "application/json")

	return &relaySender{
		client:  client,
		baseURL: cfg.RelayAddress,
		logger:  log.GetChildLogger("relaySender"),
	}
}

func (s *relaySender) Send(ctx context.Context, envelope models.Envelope) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(envelope).
		Post(s.baseURL + exchangePath)
	if err != nil {
		s.logger.Err(err).
			Str("func", "Send").
			Str("sessionID", envelope.ThreadID).
			Str("control", envelope.Control).
			Msg("error delivering envelope to relay")
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	if resp.IsError() {
		s.logger.Error().
			Str("func", "Send").
			Str("sessionID", envelope.ThreadID).
			Int("status", resp.StatusCode()).
			Msg("relay rejected envelope")
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}

	s.logger.Debug().
		Str("func", "Send").
		Str("sessionID", envelope.ThreadID).
		Str("control", envelope.Control).
		Strs("devices", envelope.Devices).
		Msg("envelope delivered")

	return nil
}
