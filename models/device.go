package models

// Device is a directory entry for one of the user's provisioned devices.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Created  int64  `json:"created"`  // epoch milliseconds
	LastSeen int64  `json:"lastSeen"` // epoch milliseconds
}

// Location is a best-effort geolocation fix.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// DeviceInfo is the snapshot a device reports about itself during a
// deviceInfo sync round. The local registry merges these by id and is
// append/overwrite only; entries are never deleted.
type DeviceInfo struct {
	ID             string    `json:"id"`
	LastLocation   *Location `json:"lastLocation,omitempty"`
	UserAgent      string    `json:"userAgent,omitempty"`
	Platform       string    `json:"platform,omitempty"`
	Version        string    `json:"version,omitempty"`
	Name           string    `json:"name,omitempty"`
	LastSync       int64     `json:"lastSync,omitempty"` // epoch milliseconds
	ConnectionType string    `json:"connectionType,omitempty"`
	LastIP         string    `json:"lastIP,omitempty"`
}
