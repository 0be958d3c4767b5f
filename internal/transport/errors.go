package transport

import "errors"

var (
	// ErrSendFailed is returned when delivery to the relay fails after all
	// configured retries.
	ErrSendFailed = errors.New("failed to deliver envelope")

	// ErrUnexpectedStatus is returned when the relay answers an exchange
	// with a non-2xx HTTP status.
	ErrUnexpectedStatus = errors.New("unexpected relay response status")
)
