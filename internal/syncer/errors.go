package syncer

import "errors"

var (
	// ErrRequestReused is returned when a Request that has already started a
	// session is asked to start another one. Every session needs a fresh
	// correlation id, so callers must allocate a new Request instead.
	ErrRequestReused = errors.New("sync request cannot be reused")

	// ErrUnsupportedRequestType is returned when an inbound syncRequest
	// carries a type this device does not know how to fulfill.
	ErrUnsupportedRequestType = errors.New("unsupported sync request type")

	// ErrNoEligibleDevices is returned when target resolution finds no peer
	// device recent enough to ask for content.
	ErrNoEligibleDevices = errors.New("no eligible peer devices")

	// ErrMalformedExchange is returned when an inbound envelope lacks the
	// payload its control discriminator promises.
	ErrMalformedExchange = errors.New("malformed control exchange")

	// ErrLocationUnsupported is returned by UnsupportedLocator; a deviceInfo
	// response then omits the location field.
	ErrLocationUnsupported = errors.New("geolocation is not supported on this device")
)
